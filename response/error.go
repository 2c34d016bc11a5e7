// response/error.go
// This package provides utility functions and structures for handling and categorizing HTTP error responses.
package response

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/deploymenttheory/go-xpload/logger"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// APIError represents an api error response.
type APIError struct {
	StatusCode  int      `json:"status_code"`       // HTTP status code
	Method      string   `json:"method"`            // HTTP method used for the request
	URL         string   `json:"url"`               // The URL of the HTTP request
	Message     string   `json:"message"`           // Summary of the error
	Details     []string `json:"details,omitempty"` // Detailed error messages, if any
	RawResponse string   `json:"raw_response"`      // Raw response body for debugging
}

// Error returns a string representation of the APIError, making it compatible with the error interface.
func (e *APIError) Error() string {
	message := e.Message
	if message == "" {
		message = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("API Error: %s %s returned %d: %s", e.Method, e.URL, e.StatusCode, message)
}

// HandleAPIErrorResponse reads an error response, extracts a message according to its content type
// and logs it.
func HandleAPIErrorResponse(resp *http.Response, log logger.Logger) *APIError {
	apiError := &APIError{
		StatusCode: resp.StatusCode,
		Message:    "API Error Response",
	}
	if resp.Request != nil {
		apiError.Method = resp.Request.Method
		apiError.URL = resp.Request.URL.String()
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		apiError.RawResponse = "Failed to read response body"
		log.LogError("api_error_response", apiError.Method, apiError.URL, apiError.StatusCode, resp.Status, err, apiError.RawResponse)
		return apiError
	}

	mimeType, _ := ParseContentTypeHeader(resp.Header.Get("Content-Type"))
	switch mimeType {
	case "application/json":
		parseJSONResponse(bodyBytes, apiError)
	case "application/xml", "text/xml":
		parseXMLResponse(bodyBytes, apiError)
	case "text/html":
		parseHTMLResponse(bodyBytes, apiError)
	case "text/plain":
		parseTextResponse(bodyBytes, apiError)
	default:
		apiError.RawResponse = string(bodyBytes)
		apiError.Message = "Unknown content type error"
	}

	log.Error("API error response",
		zap.String("method", apiError.Method),
		zap.String("url", apiError.URL),
		zap.Int("status_code", apiError.StatusCode),
		zap.String("message", apiError.Message),
	)
	return apiError
}

// parseJSONResponse reads "message"/"detail"/"error" style keys from a JSON error body.
func parseJSONResponse(bodyBytes []byte, apiError *APIError) {
	apiError.RawResponse = string(bodyBytes)

	var body map[string]any
	if err := json.Unmarshal(bodyBytes, &body); err != nil {
		return
	}

	for _, key := range []string{"message", "detail", "error"} {
		if value, ok := body[key].(string); ok && value != "" {
			apiError.Message = value
			break
		}
	}
	switch details := body["details"].(type) {
	case []any:
		for _, d := range details {
			apiError.Details = append(apiError.Details, fmt.Sprint(d))
		}
	case string:
		apiError.Details = []string{details}
	}
}

// parseXMLResponse collects all text nodes of an XML error body.
func parseXMLResponse(bodyBytes []byte, apiError *APIError) {
	apiError.RawResponse = string(bodyBytes)

	doc, err := xmlquery.Parse(bytes.NewReader(bodyBytes))
	if err != nil {
		return
	}

	var messages []string
	var traverse func(*xmlquery.Node)
	traverse = func(n *xmlquery.Node) {
		if n.Type == xmlquery.TextNode && strings.TrimSpace(n.Data) != "" {
			messages = append(messages, strings.TrimSpace(n.Data))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(doc)

	if len(messages) > 0 {
		apiError.Message = strings.Join(messages, "; ")
	} else {
		apiError.Message = "Failed to extract error details from XML response"
	}
}

func parseTextResponse(bodyBytes []byte, apiError *APIError) {
	bodyText := strings.TrimSpace(string(bodyBytes))
	apiError.RawResponse = string(bodyBytes)
	if bodyText != "" {
		apiError.Message = bodyText
	}
}

// parseHTMLResponse joins the text of every <p> element, with links rendered as [Link: href].
func parseHTMLResponse(bodyBytes []byte, apiError *APIError) {
	apiError.RawResponse = string(bodyBytes)

	doc, err := html.Parse(bytes.NewReader(bodyBytes))
	if err != nil {
		return
	}

	var messages []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "p" {
			if text := paragraphText(n); text != "" {
				messages = append(messages, text)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if len(messages) > 0 {
		apiError.Message = strings.Join(messages, "; ")
	} else {
		apiError.Message = "HTML Error: See 'Raw' field for details."
	}
}

func paragraphText(p *html.Node) string {
	var parts []string
	var collect func(*html.Node)
	collect = func(c *html.Node) {
		switch {
		case c.Type == html.TextNode:
			if text := strings.TrimSpace(c.Data); text != "" {
				parts = append(parts, text)
			}
		case c.Type == html.ElementNode && c.Data == "a":
			for _, attr := range c.Attr {
				if attr.Key == "href" {
					parts = append(parts, "[Link: "+attr.Val+"]")
					break
				}
			}
		}
		for child := c.FirstChild; child != nil; child = child.NextSibling {
			collect(child)
		}
	}
	for child := p.FirstChild; child != nil; child = child.NextSibling {
		collect(child)
	}
	return strings.Join(parts, " ")
}
