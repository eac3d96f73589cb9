package interfaces

import "context"

// Notifier posts a plain message to a team channel
type Notifier interface {
	Notify(ctx context.Context, text string) error
}
