package summary

var (
	BuildSystemPrompt = buildSystemPrompt
	BuildUserPrompt   = buildUserPrompt
	FormatRupiah      = formatRupiah
)
