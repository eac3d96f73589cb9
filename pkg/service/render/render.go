// Package render writes export reports in the supported file formats.
package render

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskreg/pkg/domain/interfaces"
	"github.com/secmon-lab/riskreg/pkg/domain/types"
)

// New returns the renderer of format
func New(format types.ExportFormat) (interfaces.Renderer, error) {
	switch format {
	case types.ExportFormatJSON:
		return &JSON{}, nil
	case types.ExportFormatCSV:
		return &CSV{}, nil
	case types.ExportFormatExcel:
		return &Excel{}, nil
	case types.ExportFormatPDF:
		return &PDF{}, nil
	default:
		return nil, goerr.New("unsupported export format", goerr.V("format", format))
	}
}

// All returns a renderer for every supported format
func All() map[types.ExportFormat]interfaces.Renderer {
	renderers := make(map[types.ExportFormat]interfaces.Renderer)
	for _, f := range types.AllExportFormats() {
		r, err := New(f)
		if err != nil {
			continue
		}
		renderers[f] = r
	}
	return renderers
}
