package types

import "github.com/m-mizutani/goerr/v2"

// ExportField is a column of the export field catalog
type ExportField string

const (
	ExportFieldTitle          ExportField = "title"
	ExportFieldCategory       ExportField = "category"
	ExportFieldLikelihood     ExportField = "likelihood"
	ExportFieldImpact         ExportField = "impact"
	ExportFieldInherentScore  ExportField = "inherentScore"
	ExportFieldResidualScore  ExportField = "residualScore"
	ExportFieldOwner          ExportField = "owner"
	ExportFieldStatus         ExportField = "status"
	ExportFieldMappedControls ExportField = "mappedControls"
)

var exportFieldLabels = map[ExportField]string{
	ExportFieldTitle:          "Title",
	ExportFieldCategory:       "Category",
	ExportFieldLikelihood:     "Likelihood",
	ExportFieldImpact:         "Impact",
	ExportFieldInherentScore:  "Inherent Score",
	ExportFieldResidualScore:  "Residual Score",
	ExportFieldOwner:          "Owner",
	ExportFieldStatus:         "Status",
	ExportFieldMappedControls: "Controls",
}

// AllExportFields returns the field catalog in column order
func AllExportFields() []ExportField {
	return []ExportField{
		ExportFieldTitle,
		ExportFieldCategory,
		ExportFieldLikelihood,
		ExportFieldImpact,
		ExportFieldInherentScore,
		ExportFieldResidualScore,
		ExportFieldOwner,
		ExportFieldStatus,
		ExportFieldMappedControls,
	}
}

// IsValid checks if the field is part of the catalog
func (f ExportField) IsValid() bool {
	_, ok := exportFieldLabels[f]
	return ok
}

// Label returns the column header for the field
func (f ExportField) Label() string {
	if label, ok := exportFieldLabels[f]; ok {
		return label
	}
	return string(f)
}

// ParseExportFields parses field keys, returning the full catalog for an empty selection
func ParseExportFields(keys []string) ([]ExportField, error) {
	if len(keys) == 0 {
		return AllExportFields(), nil
	}

	fields := make([]ExportField, 0, len(keys))
	for _, k := range keys {
		f := ExportField(k)
		if !f.IsValid() {
			return nil, goerr.New("unknown export field", goerr.V("field", k))
		}
		fields = append(fields, f)
	}
	return fields, nil
}

// ExportFormat selects the renderer of an export
type ExportFormat string

const (
	ExportFormatJSON  ExportFormat = "json"
	ExportFormatCSV   ExportFormat = "csv"
	ExportFormatExcel ExportFormat = "xlsx"
	ExportFormatPDF   ExportFormat = "pdf"
)

// AllExportFormats returns every supported export format
func AllExportFormats() []ExportFormat {
	return []ExportFormat{ExportFormatJSON, ExportFormatCSV, ExportFormatExcel, ExportFormatPDF}
}

// ParseExportFormat parses a string into an ExportFormat
func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(s); f {
	case ExportFormatJSON, ExportFormatCSV, ExportFormatExcel, ExportFormatPDF:
		return f, nil
	default:
		return "", goerr.New("invalid export format", goerr.V("format", s))
	}
}
