// response/success.go
/* Responsible for handling successful API responses. It reads the response body, logs the raw response details,
and unmarshals the response based on the content type (JSON or XML). */
package response

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/deploymenttheory/go-xpload/logger"
	"go.uber.org/zap"
)

// ErrUnexpectedContentType is returned for success bodies that cannot be decoded into out.
var ErrUnexpectedContentType = errors.New("unexpected MIME type")

// contentHandler defines the signature for unmarshaling content from an io.Reader.
type contentHandler func(io.Reader, any, logger.Logger, string) error

// responseUnmarshallers maps MIME types to the corresponding contentHandler functions.
var responseUnmarshallers = map[string]contentHandler{
	"application/json": handlerUnmarshalJSON,
	"application/xml":  handlerUnmarshalXML,
	"text/xml":         handlerUnmarshalXML,
}

// HandleAPISuccessResponse reads the response body, logs it at debug level and decodes it into out
// according to the content type. A nil out discards the body. Bodies that are valid JSON but served
// as text/plain or without a content type are decoded as JSON.
func HandleAPISuccessResponse(resp *http.Response, out any, log logger.Logger) error {
	if resp.Request != nil && resp.Request.Method == http.MethodDelete {
		return successfulDeleteRequest(resp, log)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("Failed to read response body", zap.Error(err))
		return fmt.Errorf("read response body: %w", err)
	}

	log.Debug("Raw HTTP Response", zap.String("Body", string(bodyBytes)))

	if out == nil {
		return nil
	}

	bodyReader := bytes.NewReader(bodyBytes)
	contentType := resp.Header.Get("Content-Type")
	contentDisposition := resp.Header.Get("Content-Disposition")
	mimeType, _ := ParseContentTypeHeader(contentType)

	if handler, ok := responseUnmarshallers[mimeType]; ok {
		return handler(bodyReader, out, log, contentType)
	}

	if isBinaryData(mimeType, contentDisposition) {
		return handleBinaryData(bodyReader, log, out, contentDisposition)
	}

	if (mimeType == "" || mimeType == "text/plain") && json.Valid(bodyBytes) {
		return handlerUnmarshalJSON(bodyReader, out, log, contentType)
	}

	log.Error("Unmarshal error", zap.String("content type", contentType))
	return fmt.Errorf("%w: %q", ErrUnexpectedContentType, contentType)
}

// successfulDeleteRequest handles DELETE responses, which might not contain a body.
func successfulDeleteRequest(resp *http.Response, log logger.Logger) error {
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		log.Info("Successfully processed DELETE request", zap.String("URL", resp.Request.URL.String()), zap.Int("Status Code", resp.StatusCode))
		return nil
	}
	return fmt.Errorf("DELETE request failed, status code: %d", resp.StatusCode)
}

func handlerUnmarshalJSON(reader io.Reader, out any, log logger.Logger, mimeType string) error {
	if err := json.NewDecoder(reader).Decode(out); err != nil {
		log.Error("JSON Unmarshal error", zap.Error(err))
		return fmt.Errorf("decode JSON response: %w", err)
	}
	log.Debug("Successfully unmarshalled JSON response", zap.String("content type", mimeType))
	return nil
}

func handlerUnmarshalXML(reader io.Reader, out any, log logger.Logger, mimeType string) error {
	if err := xml.NewDecoder(reader).Decode(out); err != nil {
		log.Error("XML Unmarshal error", zap.Error(err))
		return fmt.Errorf("decode XML response: %w", err)
	}
	log.Debug("Successfully unmarshalled XML response", zap.String("content type", mimeType))
	return nil
}

// isBinaryData checks if the MIME type or Content-Disposition indicates binary data.
func isBinaryData(mimeType, contentDisposition string) bool {
	return mimeType == "application/octet-stream" || strings.HasPrefix(strings.ToLower(contentDisposition), "attachment")
}

// handleBinaryData stores binary data in *[]byte or streams it to an io.Writer.
func handleBinaryData(reader io.Reader, log logger.Logger, out any, contentDisposition string) error {
	switch out := out.(type) {
	case *[]byte:
		data, err := io.ReadAll(reader)
		if err != nil {
			log.Error("Failed to read binary data", zap.Error(err))
			return err
		}
		*out = data

	case io.Writer:
		if _, err := io.Copy(out, reader); err != nil {
			log.Error("Failed to stream binary data to io.Writer", zap.Error(err))
			return err
		}

	default:
		return errors.New("output parameter is not suitable for binary data (*[]byte or io.Writer)")
	}

	if contentDisposition != "" {
		_, params := ParseContentDisposition(contentDisposition)
		if filename, ok := params["filename"]; ok {
			log.Debug("Extracted filename from Content-Disposition", zap.String("filename", filename))
		}
	}
	return nil
}
