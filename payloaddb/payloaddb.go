// payloaddb/payloaddb.go
/* Package payloaddb is a client for the conditions payload database. The database stores global tags,
payload types (domains), payload lists tying a domain to a tag, and payload intervals of validity (IOVs)
pointing at payload files. */
package payloaddb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"

	"github.com/deploymenttheory/go-xpload/httpclient"
	"github.com/deploymenttheory/go-xpload/logger"
	"go.uber.org/zap"
)

// REST endpoints accepting new entries.
const (
	EndpointTagType    = "gttype"
	EndpointTagStatus  = "gtstatus"
	EndpointTag        = "gt"
	EndpointDomain     = "pt"
	EndpointDomainList = "pl"
	EndpointPayload    = "piov"
)

// Components that can be listed with FetchEntries.
const (
	ComponentTags        = "tags"
	ComponentDomains     = "domains"
	ComponentDomainLists = "domain_lists"
	ComponentPayloads    = "payloads"
)

// DefaultTagAttribute names the type and status created alongside every new tag.
const DefaultTagAttribute = "test"

var (
	ErrUnknownEndpoint  = errors.New("unknown endpoint")
	ErrUnknownComponent = errors.New("unknown component")
	ErrInvalidResponse  = errors.New("invalid response")
)

var endpoints = []string{EndpointTagType, EndpointTagStatus, EndpointTag, EndpointDomain, EndpointDomainList, EndpointPayload}

var componentEndpoints = map[string]string{
	ComponentTags:        EndpointTag,
	ComponentDomains:     EndpointDomain,
	ComponentDomainLists: EndpointDomainList,
	ComponentPayloads:    EndpointPayload,
}

// Components returns the names accepted by FetchEntries.
func Components() []string {
	return []string{ComponentTags, ComponentDomains, ComponentDomainLists, ComponentPayloads}
}

// Client talks to one payload database.
type Client struct {
	http *httpclient.Client
	log  logger.Logger
}

// New returns a Client sending requests through httpClient, which must carry an integration
// pointing at the database (see NewIntegration).
func New(httpClient *httpclient.Client) *Client {
	return &Client{
		http: httpClient,
		log:  httpClient.Logger,
	}
}

// NewClient builds an HTTP client for the database API at baseURL and wraps it. Redirects are
// always followed for GETs; creates are never replayed to a redirect target.
func NewClient(baseURL string, config httpclient.ClientConfig) (*Client, error) {
	config.FollowRedirects = true
	httpClient, err := httpclient.BuildClient(config, NewIntegration(baseURL))
	if err != nil {
		return nil, err
	}
	return New(httpClient), nil
}

// Logger returns the logger of the underlying HTTP client.
func (c *Client) Logger() logger.Logger {
	return c.log
}

// post creates an entry at endpoint and returns its id.
func (c *Client) post(ctx context.Context, endpoint string, params map[string]any) (int64, error) {
	if !slices.Contains(endpoints, endpoint) {
		return 0, fmt.Errorf("%w: %s", ErrUnknownEndpoint, endpoint)
	}

	var raw json.RawMessage
	if _, err := c.http.DoRequest(ctx, http.MethodPost, "/"+endpoint, params, &raw); err != nil {
		return 0, fmt.Errorf("post to %s: %w", endpoint, err)
	}

	entry, err := decodeEntry(raw)
	if err != nil {
		c.log.Warn("Invalid create response", zap.String("endpoint", endpoint), zap.Error(err))
		return 0, fmt.Errorf("post to %s: %w", endpoint, err)
	}

	c.log.Debug("Created entry", zap.String("endpoint", endpoint), zap.Int64("id", entry.ID))
	return entry.ID, nil
}

// list fetches the entries returned by a GET on endpoint.
func (c *Client) list(ctx context.Context, endpoint string) ([]Entry, error) {
	var raw json.RawMessage
	if _, err := c.http.DoRequest(ctx, http.MethodGet, endpoint, nil, &raw); err != nil {
		return nil, fmt.Errorf("get %s: %w", endpoint, err)
	}

	entries, err := decodeEntries(raw)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", endpoint, err)
	}
	return entries, nil
}

// CreateTagType creates a global tag type.
func (c *Client) CreateTagType(ctx context.Context, name string) (int64, error) {
	return c.post(ctx, EndpointTagType, map[string]any{"name": name})
}

// CreateTagStatus creates a global tag status.
func (c *Client) CreateTagStatus(ctx context.Context, name string) (int64, error) {
	return c.post(ctx, EndpointTagStatus, map[string]any{"name": name})
}

// CreateTag creates a global tag together with a new type and status, both named DefaultTagAttribute.
func (c *Client) CreateTag(ctx context.Context, name string) (int64, error) {
	typeID, err := c.CreateTagType(ctx, DefaultTagAttribute)
	if err != nil {
		return 0, err
	}
	statusID, err := c.CreateTagStatus(ctx, DefaultTagAttribute)
	if err != nil {
		return 0, err
	}
	return c.post(ctx, EndpointTag, map[string]any{"name": name, "status": statusID, "type": typeID})
}

// CreateDomain creates a payload type.
func (c *Client) CreateDomain(ctx context.Context, name string) (int64, error) {
	return c.post(ctx, EndpointDomain, map[string]any{"name": name})
}

// CreateDomainList creates the payload list of domainID within tagID.
func (c *Client) CreateDomainList(ctx context.Context, tagID, domainID int64) (int64, error) {
	return c.post(ctx, EndpointDomainList, map[string]any{"global_tag": tagID, "payload_type": domainID})
}

// CreatePayload creates a payload IOV for payloadURL in listID, valid from (0, start).
func (c *Client) CreatePayload(ctx context.Context, payloadURL string, listID, start int64) (int64, error) {
	return c.post(ctx, EndpointPayload, map[string]any{
		"payload_url":  payloadURL,
		"payload_list": listID,
		"major_iov":    0,
		"minor_iov":    start,
	})
}

// FetchEntries lists the entries of component, or the single entry with the given id.
func (c *Client) FetchEntries(ctx context.Context, component string, id *int64) ([]Entry, error) {
	endpoint, ok := componentEndpoints[component]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownComponent, component)
	}

	path := "/" + endpoint
	if id != nil {
		path += "/" + strconv.FormatInt(*id, 10)
	}
	return c.list(ctx, path)
}

// FetchPayloads lists the payload IOVs of tag valid at timestamp.
func (c *Client) FetchPayloads(ctx context.Context, tag string, timestamp uint64) ([]Entry, error) {
	query := url.Values{}
	query.Set("gtName", tag)
	query.Set("majorIOV", "0")
	query.Set("minorIOV", strconv.FormatUint(timestamp, 10))

	return c.list(ctx, "/payloadiovs/?"+query.Encode())
}
