package aggregate

import (
	"strconv"
	"strings"

	"github.com/secmon-lab/riskreg/pkg/domain/model"
	"github.com/secmon-lab/riskreg/pkg/domain/types"
)

// ControlSeparator joins mapped control names in projected rows
const ControlSeparator = ", "

// Project renders each risk as a row of the selected fields.
// Fields must come from the export catalog.
func Project(risks []*model.Risk, fields []types.ExportField) model.Table {
	table := model.Table{
		Fields:  append([]types.ExportField(nil), fields...),
		Columns: make([]string, len(fields)),
		Rows:    make([][]string, 0, len(risks)),
	}
	for i, f := range fields {
		table.Columns[i] = f.Label()
	}

	for _, r := range risks {
		row := make([]string, len(fields))
		for i, f := range fields {
			row[i] = fieldValue(r, f)
		}
		table.Rows = append(table.Rows, row)
	}

	return table
}

func fieldValue(r *model.Risk, f types.ExportField) string {
	switch f {
	case types.ExportFieldTitle:
		return r.Title
	case types.ExportFieldCategory:
		return r.Category.String()
	case types.ExportFieldLikelihood:
		return strconv.Itoa(r.Likelihood)
	case types.ExportFieldImpact:
		return strconv.Itoa(r.Impact)
	case types.ExportFieldInherentScore:
		return strconv.Itoa(r.InherentScore)
	case types.ExportFieldResidualScore:
		return strconv.Itoa(r.ResidualScore)
	case types.ExportFieldOwner:
		return r.Owner
	case types.ExportFieldStatus:
		return r.Status.String()
	case types.ExportFieldMappedControls:
		names := make([]string, len(r.MappedControls))
		for i, c := range r.MappedControls {
			names[i] = c.String()
		}
		return strings.Join(names, ControlSeparator)
	default:
		return ""
	}
}
