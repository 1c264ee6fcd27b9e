package corpora

// ResourceType identifies the kind of resource being inserted or
// categorized.
type ResourceType string

const (
	// ResourceTypeURL means the resource is fetched from a web address.
	ResourceTypeURL ResourceType = "url"
	// ResourceTypeText means the resource is inline text.
	ResourceTypeText ResourceType = "text"
	// ResourceTypeFile means the resource is an already-uploaded file.
	ResourceTypeFile ResourceType = "file"
)

// String returns the string representation of the resource type.
func (r ResourceType) String() string {
	return string(r)
}

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Collection describes one remote collection.
type Collection struct {
	ID        string `json:"collection_id"`
	Name      string `json:"name,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// CreateCollectionRequest is the request type for the CreateCollection
// method. Leaving ID empty asks the client to generate one.
type CreateCollectionRequest struct {
	ID string
}

// InsertResourceRequest is the request type for the InsertResource method.
type InsertResourceRequest struct {
	// CollectionID names the collection the resource is inserted into.
	CollectionID string
	// Resource is the content itself: a URL, inline text, or a file
	// reference, depending on Type.
	Resource string
	// Type says how the service should interpret Resource.
	Type ResourceType
}

// InsertResourceResponse is the response type for the InsertResource method.
type InsertResourceResponse struct {
	// ResourceID addresses the inserted item, e.g. for later deletion.
	ResourceID string `json:"resource_id"`
	Message    string `json:"message,omitempty"`
}

// QueryRequest is the request type for the Query, QueryStream, and
// QueryStreamIter methods. Only CollectionID and Query are required; an
// omitted optional field produces no key in the request at all.
type QueryRequest struct {
	CollectionID string
	// Query is the natural-language question to answer from the
	// collection.
	Query string
	// Schema optionally constrains the answer to a JSON schema. It may be
	// any JSON-marshalable value or an already-encoded schema string; the
	// API receives it string-encoded either way.
	Schema any
	// SchemaRules optionally refines how the schema is applied.
	SchemaRules any
	// Model optionally selects the model answering the query.
	Model string
}

// ChatMessage is one turn of a conversation.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the request type for the Chat method.
type ChatRequest struct {
	CollectionID string
	// Message is the latest user message.
	Message string
	// History holds the prior turns, oldest first.
	History []ChatMessage
}

// CategorizeRequest is the request type for the Categorize method.
type CategorizeRequest struct {
	// Resource is the content to categorize, interpreted per Type.
	Resource string
	Type     ResourceType
	// Schema shapes the categorization output. Sent string-encoded.
	Schema any
	// Categories are the buckets the resource may be sorted into.
	Categories []string
	// Prompt gives the service extra categorization instructions.
	Prompt string
}

// GenerateTextRequest is the request type for the GenerateText method, which
// runs plain text generation without retrieval.
type GenerateTextRequest struct {
	Model    string
	Messages []ChatMessage
}

// ImageToTextRequest is the request type for the ImageToText method.
type ImageToTextRequest struct {
	// ImageURL points at the image to read.
	ImageURL string
	// Query directs what to extract from the image.
	Query string
}

// ExtractWebsiteRequest is the request type for the ExtractWebsite method.
type ExtractWebsiteRequest struct {
	// WebsiteURL is the page to extract structured data from.
	WebsiteURL string
	// Schema describes the structure to extract. Sent string-encoded.
	Schema any
}

// QueryRequestBuilder simplifies the construction of a QueryRequest.
//
// Example:
//
//	req := corpora.NewQueryRequestBuilder().
//		CollectionID("my-collection").
//		Query("What changed in the last release?").
//		Build()
type QueryRequestBuilder struct {
	req QueryRequest
}

// NewQueryRequestBuilder creates a new QueryRequestBuilder.
func NewQueryRequestBuilder() *QueryRequestBuilder {
	return &QueryRequestBuilder{}
}

// CollectionID sets the collection to query.
func (b *QueryRequestBuilder) CollectionID(id string) *QueryRequestBuilder {
	b.req.CollectionID = id
	return b
}

// Query sets the question to ask.
func (b *QueryRequestBuilder) Query(query string) *QueryRequestBuilder {
	b.req.Query = query
	return b
}

// Schema sets the JSON schema constraining the answer.
func (b *QueryRequestBuilder) Schema(schema any) *QueryRequestBuilder {
	b.req.Schema = schema
	return b
}

// SchemaRules sets the rules refining how the schema is applied.
func (b *QueryRequestBuilder) SchemaRules(rules any) *QueryRequestBuilder {
	b.req.SchemaRules = rules
	return b
}

// Model sets the model answering the query.
func (b *QueryRequestBuilder) Model(model string) *QueryRequestBuilder {
	b.req.Model = model
	return b
}

// Build creates the QueryRequest from the builder.
func (b *QueryRequestBuilder) Build() *QueryRequest {
	req := b.req
	return &req
}
