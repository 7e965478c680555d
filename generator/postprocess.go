package generator

import (
	"regexp"
	"strings"
)

const codeFence = "```"

var (
	leadingFence   = regexp.MustCompile("(?i)^```[a-z]*\n")
	reasoningBlock = regexp.MustCompile(`(?s)^\s*<think>.*?</think>`)
	nonLetters     = regexp.MustCompile(`[^a-zA-Z]`)
)

// Sanitized is the repaired model output plus what the repair had to do.
type Sanitized struct {
	Text     string
	Preamble int  // bytes of chatter dropped before the first delimiter
	Injected bool // fallback template was prepended
}

// Sanitize makes raw model output start with a frontmatter delimiter and end
// without a code fence. When raw has no delimiter at all, fallback is
// prepended followed by a blank line. It never fails.
func Sanitize(raw, fallback string) Sanitized {
	var out Sanitized
	text := raw
	if idx := strings.Index(text, FrontMatterDelimiter); idx != -1 {
		out.Preamble = idx
		text = text[idx:]
	} else {
		out.Injected = true
		text = leadingFence.ReplaceAllString(strings.TrimSpace(text), "")
		text = fallback + "\n\n" + text
	}

	text = strings.TrimSpace(text)
	for strings.HasSuffix(text, codeFence) {
		text = strings.TrimSpace(strings.TrimSuffix(text, codeFence))
	}
	out.Text = text + "\n"
	return out
}

// StripReasoning removes the <think> trace a reasoning model prepends to its
// answer. Tags later in the text are content and stay.
func StripReasoning(s string) string {
	return strings.TrimSpace(reasoningBlock.ReplaceAllString(s, ""))
}

// CleanKeyword reduces a model answer to one word from VisualKeywords,
// or DefaultVisualKeyword when the answer is not in the list.
func CleanKeyword(raw string) string {
	word := strings.ToLower(nonLetters.ReplaceAllString(strings.TrimSpace(raw), ""))
	for _, allowed := range VisualKeywords {
		if word == allowed {
			return word
		}
	}
	return DefaultVisualKeyword
}
