package extractor

var (
	ExtractRegex        = extractRegex
	ParseModal          = parseModal
	ParseLLMResponse    = parseLLMResponse
	BuildUserPrompt     = buildUserPrompt
	BuildResponseSchema = buildResponseSchema
)
