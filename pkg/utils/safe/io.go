package safe

import (
	"context"
	"io"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskreg/pkg/utils/errutil"
)

// Close closes an export file or attachment stream, reporting any failure.
func Close(ctx context.Context, closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		_ = errutil.Handle(ctx, goerr.Wrap(err, "close failed"), "failed to close stream")
	}
}

// Copy streams src into dst and returns the bytes written. Failures are
// reported with the partial byte count.
func Copy(ctx context.Context, dst io.Writer, src io.Reader) int64 {
	n, err := io.Copy(dst, src)
	if err != nil {
		_ = errutil.Handle(ctx, goerr.Wrap(err, "copy failed", goerr.V("bytes", n)), "failed to stream content")
	}
	return n
}
