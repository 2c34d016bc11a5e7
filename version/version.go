// version.go
package version

import (
	"fmt"
	"runtime"
	"strings"
)

// AppName holds the name of the application
var AppName = "go-xpload"

// Version holds the current version of the application
var Version = "0.1.0"

// httpLibraryProduct is the product token net/http sends when no User-Agent is set.
const httpLibraryProduct = "Go-http-client"

// GetAppName returns the name of the application
func GetAppName() string {
	return AppName
}

// GetVersion returns the current version of the application
func GetVersion() string {
	return Version
}

// GetUserAgentHeader returns the user agent used for requests made on behalf of the application.
func GetUserAgentHeader() string {
	return fmt.Sprintf("%s/%s", AppName, Version)
}

// HTTPLibraryVersion returns the version of the HTTP client library. net/http is released
// with the Go toolchain, so this is the toolchain version without its "go" prefix.
func HTTPLibraryVersion() string {
	return strings.TrimPrefix(runtime.Version(), "go")
}

// HTTPLibraryUserAgent returns a user agent naming the HTTP client library and its version.
func HTTPLibraryUserAgent() string {
	return fmt.Sprintf("%s/%s", httpLibraryProduct, HTTPLibraryVersion())
}
