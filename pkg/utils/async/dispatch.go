package async

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskreg/pkg/utils/errutil"
	"github.com/secmon-lab/riskreg/pkg/utils/logging"
)

// Dispatch runs handler in a new goroutine detached from the caller's
// cancellation. The caller's logger is carried over; failures and panics are
// reported through errutil.Handle.
func Dispatch(ctx context.Context, name string, handler func(ctx context.Context) error) {
	bgCtx := logging.With(context.Background(), logging.From(ctx).With("task", name))

	go func() {
		defer func() {
			if r := recover(); r != nil {
				_ = errutil.Handle(bgCtx, goerr.New(fmt.Sprintf("panic: %v", r)), "panic in async handler")
			}
		}()

		if err := handler(bgCtx); err != nil {
			_ = errutil.Handle(bgCtx, err, "async handler failed")
		}
	}()
}
