package interfaces

import (
	"context"
	"io"

	"github.com/secmon-lab/riskreg/pkg/domain/model"
)

// Renderer writes a report in one export format
type Renderer interface {
	Render(ctx context.Context, w io.Writer, report *model.Report) error
	ContentType() string
	Extension() string
}
