// response/parse.go
package response

import (
	"mime"
	"strings"
)

// ParseContentTypeHeader parses the Content-Type header and returns the lower-cased MIME type and any parameters.
func ParseContentTypeHeader(header string) (string, map[string]string) {
	return parseHeader(header)
}

// ParseContentDisposition parses the Content-Disposition header and returns the type and any parameters.
func ParseContentDisposition(header string) (string, map[string]string) {
	return parseHeader(header)
}

// parseHeader extracts the main value and the parameters of headers like Content-Type. Malformed
// parameters are dropped rather than failing the whole header.
func parseHeader(header string) (string, map[string]string) {
	if mediaType, params, err := mime.ParseMediaType(header); err == nil {
		return mediaType, params
	}

	parts := strings.SplitN(header, ";", 2)
	mainValue := strings.ToLower(strings.TrimSpace(parts[0]))

	params := make(map[string]string)
	if len(parts) > 1 {
		for _, part := range strings.Split(parts[1], ";") {
			kv := strings.SplitN(part, "=", 2)
			if len(kv) == 2 {
				params[strings.ToLower(strings.TrimSpace(kv[0]))] = strings.Trim(strings.TrimSpace(kv[1]), "\"")
			}
		}
	}
	return mainValue, params
}
