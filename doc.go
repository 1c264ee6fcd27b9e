// Package corpora provides the official Go SDK for the Corpora API.
//
// Corpora is a content-collection and retrieval-augmented-generation service:
// you insert resources into collections and then ask questions about them.
// This SDK wraps the REST API behind typed methods, so the only thing you
// manage yourself is your API key.
//
// # Quick Start
//
// To get started you'll need a Corpora API key from your account dashboard.
//
//	import corpora "github.com/corpora-ai/gosdk"
//
//	// Create a client
//	client, err := corpora.New(corpora.WithAPIKey("your-api-key"))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Create a collection and insert a resource
//	ctx := context.Background()
//	collection, err := client.CreateCollection(ctx, nil) // nil generates an ID
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	_, err = client.InsertResource(ctx, &corpora.InsertResourceRequest{
//		CollectionID: collection.ID,
//		Resource:     "https://example.com/handbook.pdf",
//		Type:         corpora.ResourceTypeURL,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Ask a question
//	answer, err := client.Query(ctx, &corpora.QueryRequest{
//		CollectionID: collection.ID,
//		Query:        "What is the vacation policy?",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(string(answer))
//
// # Operations
//
// The SDK covers the full API surface:
//
//   - Collections: CreateCollection, ListCollections, DeleteCollection
//   - Resources: InsertResource, DeleteResource
//   - Retrieval: Query, QueryStream, QueryStreamIter, Chat
//   - Generation: GenerateText (no retrieval), ImageToText
//   - Extraction: Categorize, ExtractWebsite
//
// # Streaming
//
// Queries can stream their answer incrementally. QueryStream returns a
// channel; QueryStreamIter returns a go iterator you can range over:
//
//	for record, err := range client.QueryStreamIter(ctx, req) {
//		if err != nil {
//			log.Fatal(err)
//		}
//		fmt.Println(string(record))
//	}
//
// # Error Handling
//
// Once a request has been sent, every failure comes back as a *APIError
// whose Message field is always populated; methods never panic and never
// return a raw transport error. Input-validation failures are returned as
// the package's Err* sentinels before anything is sent.
//
//	answer, err := client.Query(ctx, req)
//	if err != nil {
//		var apiErr *corpora.APIError
//		if errors.As(err, &apiErr) {
//			fmt.Printf("API said: %s (HTTP %d)\n", apiErr.Message, apiErr.StatusCode)
//		}
//	}
//
// # Cancellation
//
// Each method takes a context for per-call control. CancelRequests aborts
// everything currently in flight through a client, including open streams,
// and the client is immediately usable again afterwards.
//
// The SDK deliberately implements no retries, backoff, or timeouts; layer
// those externally if you need them.
//
// For more information and examples, visit: https://docs.corpora.ai
package corpora
