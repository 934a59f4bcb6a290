package respond

import (
	"regexp"
)

var (
	// Credential patterns for the summarization providers this service can
	// talk to. The Anthropic pattern must apply before the generic OpenAI
	// one because "sk-ant-" is a prefix match for "sk-".
	anthropicKeyPattern = regexp.MustCompile(`sk-ant-[a-zA-Z0-9-_]+`)
	openaiKeyPattern    = regexp.MustCompile(`sk-[a-zA-Z0-9]{10,}`)
	hfTokenPattern      = regexp.MustCompile(`hf_[a-zA-Z0-9]{10,}`)

	// Password inside a connection string DSN
	dbPasswordPattern = regexp.MustCompile(`://([^:]+):([^@]+)@`)
)

// SanitizeError returns the error message with API keys, model provider
// tokens and DSN passwords masked. Errors from HTTP clients tend to embed
// the full request URL, so the raw text is never safe to log as-is.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()

	// Order matters: specific key shapes first, then the generic one
	msg = anthropicKeyPattern.ReplaceAllString(msg, "sk-ant-****")
	msg = openaiKeyPattern.ReplaceAllString(msg, "sk-****")
	msg = hfTokenPattern.ReplaceAllString(msg, "hf_****")

	// Mask DSN passwords
	msg = dbPasswordPattern.ReplaceAllString(msg, "://$1:****@")

	return msg
}
