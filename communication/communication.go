package communication

import "context"

// Transport is an abstraction over one client connection. Receive blocks
// until an intent arrives; it returns io.EOF when the client is gone.
type Transport interface {
	Receive(ctx context.Context) (any, error)
	Send(msg Report) error
}
