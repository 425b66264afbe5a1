package eventbus

import "context"

// Consumer handles events of one type. Each type has exactly one consumer,
// which sees events one at a time in publish order.
type Consumer interface {
	Consume(ctx context.Context, event Event) error
}
