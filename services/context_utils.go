package services

import "context"

// persistentContext keeps request values but detaches cancellation so a
// write that has started is not abandoned halfway.
func persistentContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return context.WithoutCancel(ctx)
}
