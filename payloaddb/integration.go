// payloaddb/integration.go
package payloaddb

import (
	"encoding/json"
	"net/http"
)

// Integration describes the payload database REST API to httpclient: JSON bodies, no authentication.
type Integration struct {
	BaseURL string // e.g. http://localhost:8000/api/cdb_rest
}

// NewIntegration returns the integration for the API rooted at baseURL.
func NewIntegration(baseURL string) *Integration {
	return &Integration{BaseURL: baseURL}
}

func (i *Integration) Domain() string {
	return i.BaseURL
}

func (i *Integration) SetRequestHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	if req.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
}

// MarshalRequest encodes body as JSON. A nil body produces no request body.
func (i *Integration) MarshalRequest(body any, method string, endpoint string) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	return json.Marshal(body)
}

func (i *Integration) GetAuthMethodDescriptor() string {
	return "none"
}
