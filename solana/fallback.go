package solana

import (
	"context"

	"github.com/AlexZinkM/multi-wallet/internal/client"
)

// ConnectionFactory builds the fallback connection on demand
type ConnectionFactory func() client.Connection

// WithFallbackConnection runs op on primary. When that fails with a
// connection error, op runs exactly once more on a connection from
// fallback. Node errors and context errors are returned as is.
// The connection that produced the result is returned with it.
func WithFallbackConnection[T any](
	ctx context.Context,
	primary client.Connection,
	fallback ConnectionFactory,
	op func(ctx context.Context, conn client.Connection) (T, error),
) (T, client.Connection, error) {
	res, err := op(ctx, primary)
	if err == nil {
		return res, primary, nil
	}
	if fallback == nil || !client.IsConnectionError(err) || ctx.Err() != nil {
		return res, primary, err
	}

	alt := fallback()
	if alt == nil {
		return res, primary, err
	}
	res, err = op(ctx, alt)
	return res, alt, err
}
