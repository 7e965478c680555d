package generator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedLLM answers with a fixed reply and records the prompts it saw.
type scriptedLLM struct {
	reply   string
	err     error
	prompts []Prompt
}

func (s *scriptedLLM) Complete(_ context.Context, p Prompt) (string, error) {
	s.prompts = append(s.prompts, p)
	return s.reply, s.err
}

func newTestAgent(t *testing.T, m Models) *Agent {
	t.Helper()
	a, err := NewAgent(m, "codeflaming.eu", nil)
	require.NoError(t, err)
	return a
}

func TestNewAgentRequiresWriterModels(t *testing.T) {
	_, err := NewAgent(Models{Draft: MockLLM{}}, "site", nil)
	assert.Error(t, err)

	a, err := NewAgent(Models{Outline: MockLLM{}, Draft: MockLLM{}}, "site", nil)
	require.NoError(t, err)
	assert.NotNil(t, a.slug)
	assert.NotNil(t, a.keyword)
}

func TestSEOSlug(t *testing.T) {
	tests := []struct {
		name     string
		reply    string
		err      error
		expected string
	}{
		{name: "model slug is normalised", reply: "  Kubernetes-Networking-Basics\n", expected: "kubernetes-networking-basics"},
		{name: "chatty answer still slugified", reply: "Slug: \"k8s net\"", expected: "slug-k8s-net"},
		{name: "model failure falls back to topic", err: errors.New("connection refused"), expected: "how-does-kubernetes-networking-work"},
		{name: "unusable answer falls back to topic", reply: "!!!", expected: "how-does-kubernetes-networking-work"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &scriptedLLM{reply: tt.reply, err: tt.err}
			a := newTestAgent(t, Models{Slug: llm, Outline: MockLLM{}, Draft: MockLLM{}})

			got := a.SEOSlug(context.Background(), "How does Kubernetes networking work?")
			assert.Equal(t, tt.expected, got)
			require.Len(t, llm.prompts, 1)
			assert.Equal(t, KindSlug, llm.prompts[0].Kind)
		})
	}
}

func TestVisualKeyword(t *testing.T) {
	ok := &scriptedLLM{reply: "Network."}
	a := newTestAgent(t, Models{Keyword: ok, Outline: MockLLM{}, Draft: MockLLM{}})
	assert.Equal(t, "network", a.VisualKeyword(context.Background(), "BGP"))
	assert.Contains(t, ok.prompts[0].User, "keyboard")

	failing := &scriptedLLM{err: errors.New("boom")}
	a = newTestAgent(t, Models{Keyword: failing, Outline: MockLLM{}, Draft: MockLLM{}})
	assert.Equal(t, DefaultVisualKeyword, a.VisualKeyword(context.Background(), "BGP"))
}

func TestOutline(t *testing.T) {
	outliner := &scriptedLLM{reply: "<think>hmm</think>\n# Outline\n- a\n- b"}
	a := newTestAgent(t, Models{Outline: outliner, Draft: MockLLM{}})

	got, err := a.Outline(context.Background(), "eBPF", "1. result")
	require.NoError(t, err)
	assert.Equal(t, "# Outline\n- a\n- b", got)
	assert.Contains(t, outliner.prompts[0].User, "1. result")
	assert.Contains(t, outliner.prompts[0].User, "codeflaming.eu")

	empty := &scriptedLLM{reply: "<think>only thoughts</think>"}
	a = newTestAgent(t, Models{Outline: empty, Draft: MockLLM{}})
	_, err = a.Outline(context.Background(), "eBPF", "")
	assert.ErrorIs(t, err, ErrEmptyResponse)

	broken := &scriptedLLM{err: errors.New("model not found")}
	a = newTestAgent(t, Models{Outline: broken, Draft: MockLLM{}})
	_, err = a.Outline(context.Background(), "eBPF", "")
	assert.ErrorContains(t, err, "model not found")
}

func TestDraftSanitizesAgainstTemplate(t *testing.T) {
	a := newTestAgent(t, Models{Outline: MockLLM{}, Draft: MockLLM{}})
	tmpl := "---\ntitle: \"[x]\"\n---"

	got, err := a.Draft(context.Background(), "1. Intro", tmpl)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got.Text, "---\ntitle: \"Mock Generated Post\""))
	assert.False(t, strings.Contains(got.Text, "```"))
	assert.False(t, got.Injected)
	assert.Greater(t, got.Preamble, 0)

	writer := &scriptedLLM{reply: "no frontmatter here"}
	a = newTestAgent(t, Models{Outline: MockLLM{}, Draft: writer})
	got, err = a.Draft(context.Background(), "1. Intro", tmpl)
	require.NoError(t, err)
	assert.True(t, got.Injected)
	assert.Equal(t, tmpl+"\n\nno frontmatter here\n", got.Text)
	assert.Contains(t, writer.prompts[0].System, tmpl)
	assert.Contains(t, writer.prompts[0].System, "codeflaming.eu")
	assert.NotContains(t, writer.prompts[0].User, tmpl)
	assert.Contains(t, writer.prompts[0].User, "1. Intro")
}

func TestDraftKeepsQuotedReasoningTags(t *testing.T) {
	body := "---\ntitle: R1\n---\n\n```text\n<think>\nplan\n</think>\nfinal\n```\n\nThat is what R1 prints."
	writer := &scriptedLLM{reply: "<think>outline the post</think>\n" + body}
	a := newTestAgent(t, Models{Outline: MockLLM{}, Draft: writer})

	got, err := a.Draft(context.Background(), "1. Intro", "---\ntitle: \"[x]\"\n---")
	require.NoError(t, err)
	assert.Equal(t, body+"\n", got.Text)
	assert.Contains(t, got.Text, "```text\n<think>\nplan\n</think>\nfinal\n```")
	assert.NotContains(t, got.Text, "outline the post")
}
