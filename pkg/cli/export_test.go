package cli

var (
	BuildExportRequest = buildExportRequest
	CmdExport          = cmdExport
	ExportReports      = exportReports
	PrintSummary       = printSummary
)
