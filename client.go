package corpora

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/http"

	"go.uber.org/zap"

	"github.com/corpora-ai/gosdk/internal/transport"
)

const defaultEndpoint = "https://api.corpora.ai"

// option is a function that configures the client
type option func(*cfg)

// WithAPIKey sets the API key for the client. Every account has one; it is
// shown on the dashboard under Settings > API.
func WithAPIKey(apiKey string) option {
	return func(c *cfg) {
		c.apiKey = apiKey
	}
}

// WithEndpoint sets the endpoint for the client. Unless you have been told
// to set a different endpoint, there's no need to set this flag.
func WithEndpoint(endpoint string) option {
	return func(c *cfg) {
		c.endpoint = endpoint
	}
}

// WithLogger sets the logger used for request debugging and stream-decode
// warnings. By default the client logs nothing.
func WithLogger(logger *zap.Logger) option {
	return func(c *cfg) {
		c.logger = logger
	}
}

// WithHTTPClient replaces the underlying HTTP client. Useful for tests and
// for callers that need custom TLS or proxy behavior.
func WithHTTPClient(httpClient *http.Client) option {
	return func(c *cfg) {
		c.httpClient = httpClient
	}
}

// cfg holds configuration for the Corpora client
type cfg struct {
	// apiKey is your Corpora API key
	apiKey string
	// endpoint is the Corpora API endpoint (default: "https://api.corpora.ai")
	endpoint string
	// logger receives SDK logging; defaults to a no-op logger
	logger *zap.Logger
	// httpClient optionally replaces the underlying HTTP client
	httpClient *http.Client
}

// Client is the main Corpora SDK client. It is stateless apart from its
// credential and cancellation scope, and is safe for concurrent use.
type Client struct {
	config    *cfg
	transport *transport.Transport
}

// New creates a new Corpora client. The API key is required; New fails
// immediately without one rather than deferring the failure to the first
// call.
func New(options ...option) (*Client, error) {
	config := &cfg{
		endpoint: defaultEndpoint,
		logger:   zap.NewNop(),
	}

	for _, option := range options {
		option(config)
	}

	if config.apiKey == "" {
		return nil, ErrAPIKeyRequired
	}
	if config.logger == nil {
		config.logger = zap.NewNop()
	}

	return &Client{
		config: config,
		transport: transport.New(transport.Config{
			BaseURL:    config.endpoint,
			APIKey:     config.apiKey,
			Logger:     config.logger,
			HTTPClient: config.httpClient,
		}),
	}, nil
}

// CancelRequests aborts every request currently in flight through this
// client, including open query streams. The client is immediately usable
// again; requests issued afterwards are unaffected.
func (c *Client) CancelRequests() {
	c.transport.Cancel()
}

// operation pins one remote operation to its method and path, so that every
// client method dispatches through the same table and paths live in exactly
// one place.
type operation struct {
	method string
	path   string
}

var (
	opCreateCollection = operation{http.MethodPost, "/collection/create/"}
	opListCollections  = operation{http.MethodGet, "/collection/all/"}
	opDeleteCollection = operation{http.MethodDelete, "/collection/delete/"}
	opInsertResource   = operation{http.MethodPost, "/resource/insert/"}
	opDeleteResource   = operation{http.MethodDelete, "/resource/remove/"}
	opQueryCollection  = operation{http.MethodPost, "/collection/query/"}
	opCategorize       = operation{http.MethodPost, "/categorize/"}
	opGenerateText     = operation{http.MethodPost, "/text-generation/"}
	opImageToText      = operation{http.MethodPost, "/image-to-text/"}
	opDataExtraction   = operation{http.MethodPost, "/data-extraction/"}
)

// call performs one non-streamed exchange and converts any failure into
// *APIError.
func (c *Client) call(ctx context.Context, op operation, body map[string]any) (json.RawMessage, error) {
	raw, _, err := c.transport.Do(ctx, transport.Envelope{
		Path:   op.path,
		Method: op.method,
		Body:   body,
	})
	if err != nil {
		return nil, apiError(err)
	}
	return raw, nil
}

// callForm is call for operations that post multipart form fields.
func (c *Client) callForm(ctx context.Context, op operation, form map[string]string) (json.RawMessage, error) {
	raw, _, err := c.transport.Do(ctx, transport.Envelope{
		Path:   op.path,
		Method: op.method,
		Form:   form,
	})
	if err != nil {
		return nil, apiError(err)
	}
	return raw, nil
}

// CreateCollection creates a new collection. If the request omits an ID, a
// random 15-character alphanumeric one is generated locally before sending.
func (c *Client) CreateCollection(ctx context.Context, req *CreateCollectionRequest) (*Collection, error) {
	var id string
	if req != nil {
		id = req.ID
	}
	if id == "" {
		id = randomCollectionID()
	}

	raw, err := c.call(ctx, opCreateCollection, map[string]any{"collection_id": id})
	if err != nil {
		return nil, err
	}

	collection := &Collection{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, collection); err != nil {
			return nil, apiError(fmt.Errorf("decode create collection response: %w", err))
		}
	}
	if collection.ID == "" {
		collection.ID = id
	}
	return collection, nil
}

// ListCollections lists every collection on the account.
func (c *Client) ListCollections(ctx context.Context) ([]Collection, error) {
	raw, err := c.call(ctx, opListCollections, nil)
	if err != nil {
		return nil, err
	}

	// The service wraps the array under a results field.
	var wrapper struct {
		Results []Collection `json:"results"`
	}
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, apiError(fmt.Errorf("decode list collections response: %w", err))
	}
	return wrapper.Results, nil
}

// DeleteCollection deletes a collection and everything in it.
func (c *Client) DeleteCollection(ctx context.Context, collectionID string) error {
	if collectionID == "" {
		return ErrCollectionIDRequired
	}
	_, err := c.call(ctx, opDeleteCollection, map[string]any{"collection_id": collectionID})
	return err
}

// InsertResource inserts one resource into a collection and returns the
// identifier addressing it.
func (c *Client) InsertResource(ctx context.Context, req *InsertResourceRequest) (*InsertResourceResponse, error) {
	if req == nil || req.CollectionID == "" {
		return nil, ErrCollectionIDRequired
	}
	if req.Resource == "" {
		return nil, ErrResourceRequired
	}

	raw, err := c.call(ctx, opInsertResource, map[string]any{
		"collection_id": req.CollectionID,
		"resource":      req.Resource,
		"type":          req.Type.String(),
	})
	if err != nil {
		return nil, err
	}

	resp := &InsertResourceResponse{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, resp); err != nil {
			return nil, apiError(fmt.Errorf("decode insert resource response: %w", err))
		}
	}
	return resp, nil
}

// DeleteResource deletes one previously inserted resource.
func (c *Client) DeleteResource(ctx context.Context, collectionID, resourceID string) error {
	if collectionID == "" {
		return ErrCollectionIDRequired
	}
	if resourceID == "" {
		return ErrResourceIDRequired
	}
	_, err := c.call(ctx, opDeleteResource, map[string]any{
		"collection_id": collectionID,
		"resource_id":   resourceID,
	})
	return err
}

// Query answers a question from the contents of a collection. The answer
// shape follows the request's schema when one is set, so the raw JSON is
// returned for the caller to unmarshal. For incremental answers use
// QueryStream or QueryStreamIter.
func (c *Client) Query(ctx context.Context, req *QueryRequest) (json.RawMessage, error) {
	body, err := queryBody(req)
	if err != nil {
		return nil, err
	}
	return c.call(ctx, opQueryCollection, body)
}

// queryBody shapes a QueryRequest into the request body shared by Query and
// the streaming variants. Omitted optional fields produce no key at all.
func queryBody(req *QueryRequest) (map[string]any, error) {
	if req == nil || req.CollectionID == "" {
		return nil, ErrCollectionIDRequired
	}

	body := map[string]any{
		"collection_id": req.CollectionID,
		"request_query": req.Query,
	}
	if req.Schema != nil {
		schema, err := encodeSchema(req.Schema)
		if err != nil {
			return nil, err
		}
		body["json_schema"] = schema
	}
	if req.SchemaRules != nil {
		body["json_schema_rules"] = req.SchemaRules
	}
	if req.Model != "" {
		body["model"] = req.Model
	}
	return body, nil
}

// Chat answers the latest message in a conversation using the contents of a
// collection, taking the prior turns into account.
func (c *Client) Chat(ctx context.Context, req *ChatRequest) (json.RawMessage, error) {
	if req == nil || req.CollectionID == "" {
		return nil, ErrCollectionIDRequired
	}

	history := req.History
	if history == nil {
		history = []ChatMessage{}
	}
	return c.call(ctx, opQueryCollection, map[string]any{
		"collection_id": req.CollectionID,
		"message":       req.Message,
		"chat_history":  history,
	})
}

// Categorize sorts a resource into one of the given categories.
func (c *Client) Categorize(ctx context.Context, req *CategorizeRequest) (json.RawMessage, error) {
	if req == nil || req.Resource == "" {
		return nil, ErrResourceRequired
	}

	schema, err := encodeSchema(req.Schema)
	if err != nil {
		return nil, err
	}
	return c.call(ctx, opCategorize, map[string]any{
		"resource":    req.Resource,
		"type":        req.Type.String(),
		"json_schema": schema,
		"categories":  req.Categories,
		"prompt":      req.Prompt,
	})
}

// GenerateText runs plain text generation with no retrieval involved.
func (c *Client) GenerateText(ctx context.Context, req *GenerateTextRequest) (json.RawMessage, error) {
	if req == nil {
		req = &GenerateTextRequest{}
	}

	messages := req.Messages
	if messages == nil {
		messages = []ChatMessage{}
	}
	return c.call(ctx, opGenerateText, map[string]any{
		"model":    req.Model,
		"messages": messages,
	})
}

// ImageToText reads an image and answers the given query about it.
func (c *Client) ImageToText(ctx context.Context, req *ImageToTextRequest) (json.RawMessage, error) {
	if req == nil || req.ImageURL == "" {
		return nil, ErrImageURLRequired
	}

	return c.call(ctx, opImageToText, map[string]any{
		"image_url":     req.ImageURL,
		"request_query": req.Query,
	})
}

// ExtractWebsite extracts structured data from a web page according to a
// JSON schema. This operation is sent as a multipart form.
func (c *Client) ExtractWebsite(ctx context.Context, req *ExtractWebsiteRequest) (json.RawMessage, error) {
	if req == nil || req.WebsiteURL == "" {
		return nil, ErrWebsiteURLRequired
	}

	schema, err := encodeSchema(req.Schema)
	if err != nil {
		return nil, err
	}
	return c.callForm(ctx, opDataExtraction, map[string]string{
		"website":     req.WebsiteURL,
		"json_schema": schema,
	})
}

// encodeSchema serializes a JSON-schema value to the string encoding the API
// expects; the service wants a string-encoded schema, not a nested object.
// Strings pass through untouched.
func encodeSchema(schema any) (string, error) {
	if s, ok := schema.(string); ok {
		return s, nil
	}
	encoded, err := json.Marshal(schema)
	if err != nil {
		return "", fmt.Errorf("encode json schema: %w", err)
	}
	return string(encoded), nil
}

const (
	generatedIDLength = 15
	idAlphabet        = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// randomCollectionID generates a collection identifier when the caller did
// not supply one. The IDs only need to be unique, not secret.
func randomCollectionID() string {
	id := make([]byte, generatedIDLength)
	for i := range id {
		id[i] = idAlphabet[rand.IntN(len(idAlphabet))]
	}
	return string(id)
}
