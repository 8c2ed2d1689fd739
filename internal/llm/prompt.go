package llm

import (
	"strings"
	"unicode/utf8"
)

// DefaultMaxInputChars is how much extracted text is embedded in the prompt.
const DefaultMaxInputChars = 3000

// SystemPrompt is sent as the system message with every summary request.
const SystemPrompt = "You summarize insurance documents into bullet points for regular people."

const summaryTemplate = `
You are a helpful assistant that summarizes complex insurance policy documents into simple, human-readable language.

Your task is to extract and summarize the following key points in plain English, so that a non-technical person with no insurance background can understand:

1. ✅ **Main coverage benefits**  
   - What is covered in this policy?
   - Who or what is protected?

2. ⚠️ **Exclusions / what is NOT covered**  
   - Clearly list anything that will cause claims to be denied.

3. 📅 **Policy duration and renewal**  
   - How long is the policy valid?
   - Does it auto-renew?

4. 💰 **Payment, fees, penalties**  
   - Any extra charges, hidden fees, or cancellation costs?

5. 📌 **Important conditions**  
   - Any special terms, age limits, paperwork requirements?

---
Use bullet points. Be short, clear, and conversational. Avoid legal or technical language.  
Do NOT include a copy of the original text, only your easy-to-read summary.

Refer to this following document:
{{DOCUMENT}}
`

// BuildSummaryPrompt embeds the first maxChars characters of text in the
// summary template. maxChars <= 0 uses DefaultMaxInputChars.
func BuildSummaryPrompt(text string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultMaxInputChars
	}
	return strings.Replace(summaryTemplate, "{{DOCUMENT}}", TruncateRunes(text, maxChars), 1)
}

// TruncateRunes keeps at most n characters without splitting a multi-byte rune.
func TruncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
