package generator

import (
	"fmt"
	"strings"
)

// Prompt is the message pair sent to a model. System is optional.
type Prompt struct {
	Kind   PromptKind
	System string
	User   string
}

// PromptKind tags which pipeline step produced a prompt.
type PromptKind string

const (
	KindSlug       PromptKind = "slug"
	KindKeyword    PromptKind = "keyword"
	KindOutline    PromptKind = "outline"
	KindDraft      PromptKind = "draft"
	KindDiagnostic PromptKind = "diagnostic"
)

// VisualKeywords is the closed vocabulary the keyword model must pick from.
var VisualKeywords = []string{
	"linux", "server", "code", "programming", "cloud", "database",
	"hardware", "network", "security", "software", "developer", "keyboard",
}

// DefaultVisualKeyword is used whenever the model strays outside VisualKeywords.
const DefaultVisualKeyword = "code"

// BuildSlugPrompt asks for a short SEO slug for a possibly long topic.
func BuildSlugPrompt(topic string) Prompt {
	var sb strings.Builder
	sb.WriteString("Extract the core topic from this text and turn it into a 3 to 5 word URL slug.\n")
	sb.WriteString(fmt.Sprintf("Text: %s\n", topic))
	sb.WriteString("Output ONLY the words separated by hyphens. No quotes, no intro text.")
	return Prompt{Kind: KindSlug, User: sb.String()}
}

// BuildKeywordPrompt asks the model to act as an art director and pick one
// photo keyword from VisualKeywords.
func BuildKeywordPrompt(topic string) Prompt {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("You are an art director finding a background photo for a blog post about: '%s'.\n", topic))
	sb.WriteString("Choose EXACTLY ONE word from this specific list that best matches the topic:\n")
	sb.WriteString(strings.Join(VisualKeywords, ", "))
	sb.WriteString(".\nOutput ONLY the single word. No punctuation, no explanation.")
	return Prompt{Kind: KindKeyword, User: sb.String()}
}

// BuildOutlinePrompt feeds search context to the outline model.
func BuildOutlinePrompt(topic, research, site string) Prompt {
	user := fmt.Sprintf("Analyze these search results: %s. "+
		"Create a deep technical outline for a blog post about '%s' "+
		"for %s. Focus on advanced concepts for developers.", research, topic, site)
	return Prompt{Kind: KindOutline, User: user}
}

// BuildDraftPrompt puts the writer role and the frontmatter rules in the
// system message and the outline in the user message.
func BuildDraftPrompt(outline, template, site string) Prompt {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("You are the expert technical writer for %s.\n\n", site))
	sb.WriteString("CRITICAL INSTRUCTIONS:\n")
	sb.WriteString("1. You MUST start your response EXACTLY with this YAML frontmatter. Fill in the [brackets]:\n")
	sb.WriteString(template)
	sb.WriteString("\n2. DO NOT wrap your response in ```markdown tags. Start the very first line with ---\n")
	sb.WriteString("3. Follow the YAML immediately with the Markdown body.\n")
	return Prompt{
		Kind:   KindDraft,
		System: sb.String(),
		User:   fmt.Sprintf("Draft a full Hugo blog post based on this outline: %s", outline),
	}
}

// BuildDiagnosticPrompt is the smallest probe that proves a model answers.
func BuildDiagnosticPrompt() Prompt {
	return Prompt{Kind: KindDiagnostic, User: "Say the word 'Flaming'"}
}
