package suggestion

var (
	ParseResponse   = parseResponse
	BuildUserPrompt = buildUserPrompt
)
