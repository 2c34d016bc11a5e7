// httpclient/integration.go
package httpclient

import (
	"errors"
	"net/http"
)

var (
	// ErrNoIntegration is returned by DoRequest on clients built without an APIIntegration.
	ErrNoIntegration = errors.New("no api integration supplied")
	// ErrMethodNotSupported is returned by DoRequest for methods it cannot dispatch, such as CONNECT.
	ErrMethodNotSupported = errors.New("HTTP method not supported")
)

// APIIntegration describes the API a client talks to: where it lives, how request bodies are encoded
// and which headers every request carries.
type APIIntegration interface {
	Domain() string
	SetRequestHeaders(req *http.Request)
	MarshalRequest(body any, method string, endpoint string) ([]byte, error)
	GetAuthMethodDescriptor() string
}
