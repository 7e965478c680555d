package generator

import (
	"context"
	"strings"
)

// MockLLM is a canned backend for local debugging; it never calls a model.
// Its draft is deliberately wrapped in chatter and a code fence so the
// sanitizer has something to repair.
type MockLLM struct{}

func (m MockLLM) Complete(_ context.Context, prompt Prompt) (string, error) {
	switch prompt.Kind {
	case KindSlug:
		return "mock-generated-post", nil
	case KindKeyword:
		return "Code.", nil
	case KindOutline:
		return "<think>planning</think>\n1. Introduction\n2. Core concepts\n3. Conclusion", nil
	case KindDiagnostic:
		return "Flaming", nil
	}

	var sb strings.Builder
	sb.WriteString("Sure! Here is your post:\n```markdown\n")
	sb.WriteString("---\n")
	sb.WriteString("title: \"Mock Generated Post\"\n")
	sb.WriteString("date: 2024-01-01T00:00:00.000Z\n")
	sb.WriteString("draft: true\n")
	sb.WriteString("description: \"A post produced without a model.\"\n")
	sb.WriteString("categories:\n  - Tech\n")
	sb.WriteString("tags:\n  - mock\n")
	sb.WriteString("type: \"post\"\n")
	sb.WriteString("---\n\n")
	sb.WriteString("## Introduction\n\n")
	sb.WriteString("This body was produced from the prompt:\n\n")
	sb.WriteString(strings.SplitN(prompt.User, "\n", 2)[0])
	sb.WriteString("\n```")
	return sb.String(), nil
}
