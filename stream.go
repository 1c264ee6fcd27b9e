package corpora

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"iter"

	"github.com/corpora-ai/gosdk/internal/jsonl"
	"github.com/corpora-ai/gosdk/internal/transport"
)

// QueryStreamResult carries one streamed query record. If an error occurred,
// the Err field is set; otherwise Record holds the next decoded value.
type QueryStreamResult struct {
	Record json.RawMessage
	Err    error
}

// QueryStream runs a query in streaming mode and returns a channel of
// decoded records, one per newline-delimited line of the response, in order.
// The channel is closed when the stream ends. The sequence is consumed once
// and is not restartable; a malformed line is skipped, it does not end the
// stream.
//
// A caller that stops receiving must cancel ctx (or CancelRequests) to
// release the underlying connection; QueryStreamIter does this
// automatically.
func (c *Client) QueryStream(ctx context.Context, req *QueryRequest) (<-chan QueryStreamResult, error) {
	body, err := queryBody(req)
	if err != nil {
		return nil, err
	}

	_, stream, err := c.transport.Do(ctx, transport.Envelope{
		Path:   opQueryCollection.path,
		Method: opQueryCollection.method,
		Body:   body,
		Stream: true,
	})
	if err != nil {
		return nil, apiError(err)
	}

	ch := make(chan QueryStreamResult)
	go func() {
		defer close(ch)
		defer stream.Close()

		decoder := jsonl.New(stream, c.config.logger)
		for {
			record, err := decoder.Next()
			if err != nil {
				if !errors.Is(err, io.EOF) {
					select {
					case ch <- QueryStreamResult{Err: apiError(err)}:
					case <-ctx.Done():
					}
				}
				return
			}
			select {
			case ch <- QueryStreamResult{Record: record}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}

// QueryStreamIter is QueryStream as a go iterator. You can loop over it with
// a for..range loop and each iteration returns an error if one occurred;
// otherwise the record is returned as the first value. Breaking out of the
// loop stops the iterator, closes the underlying stream, and releases its
// connection. The request is not sent until iteration starts.
func (c *Client) QueryStreamIter(ctx context.Context, req *QueryRequest) iter.Seq2[json.RawMessage, error] {
	return func(yield func(json.RawMessage, error) bool) {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		ch, callErr := c.QueryStream(ctx, req)
		if callErr != nil {
			yield(nil, callErr)
			return
		}

		for result := range ch {
			if !yield(result.Record, result.Err) {
				// The consumer walked away: unblock the producer and wait
				// for it to close the channel and the response body.
				cancel()
				for range ch {
				}
				return
			}
		}
	}
}
