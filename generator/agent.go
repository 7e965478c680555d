package generator

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Agent drives the four model-backed steps of a run. Each step may use a
// different model, so each gets its own client.
type Agent struct {
	slug    LLMClient
	keyword LLMClient
	outline LLMClient
	draft   LLMClient
	site    string
	log     *log.Entry
}

// Models groups the clients an Agent needs.
type Models struct {
	Slug    LLMClient
	Keyword LLMClient
	Outline LLMClient
	Draft   LLMClient
}

func NewAgent(m Models, site string, logger *log.Entry) (*Agent, error) {
	if m.Outline == nil || m.Draft == nil {
		return nil, errors.New("outline and draft llm clients are required")
	}
	if m.Slug == nil {
		m.Slug = m.Draft
	}
	if m.Keyword == nil {
		m.Keyword = m.Slug
	}
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	return &Agent{
		slug:    m.Slug,
		keyword: m.Keyword,
		outline: m.Outline,
		draft:   m.Draft,
		site:    site,
		log:     logger.WithField("component", "generator"),
	}, nil
}

// SEOSlug asks the slug model for a short slug. Whatever the model returns is
// passed through DeriveSlug; if the model fails or the result is empty the
// topic itself is slugified instead.
func (a *Agent) SEOSlug(ctx context.Context, topic string) string {
	raw, err := a.slug.Complete(ctx, BuildSlugPrompt(topic))
	if err != nil {
		a.log.WithError(err).Warn("slug model unavailable, slugifying topic")
		return DeriveSlug(topic)
	}
	if s := DeriveSlug(raw); s != "" {
		return s
	}
	a.log.WithField("raw", raw).Warn("slug model answer unusable, slugifying topic")
	return DeriveSlug(topic)
}

// VisualKeyword picks a photo keyword for topic; any failure yields DefaultVisualKeyword.
func (a *Agent) VisualKeyword(ctx context.Context, topic string) string {
	raw, err := a.keyword.Complete(ctx, BuildKeywordPrompt(topic))
	if err != nil {
		a.log.WithError(err).Warn("keyword model unavailable, using default keyword")
		return DefaultVisualKeyword
	}
	kw := CleanKeyword(raw)
	a.log.WithFields(log.Fields{"raw": raw, "keyword": kw}).Debug("visual keyword chosen")
	return kw
}

// Outline produces the technical outline from search context, without reasoning traces.
func (a *Agent) Outline(ctx context.Context, topic, research string) (string, error) {
	raw, err := a.outline.Complete(ctx, BuildOutlinePrompt(topic, research, a.site))
	if err != nil {
		return "", fmt.Errorf("outline: %w", err)
	}
	outline := StripReasoning(raw)
	if outline == "" {
		return "", fmt.Errorf("outline: %w", ErrEmptyResponse)
	}
	return outline, nil
}

// Draft asks the writer for the full post and repairs its structure against template.
func (a *Agent) Draft(ctx context.Context, outline, template string) (Sanitized, error) {
	raw, err := a.draft.Complete(ctx, BuildDraftPrompt(outline, template, a.site))
	if err != nil {
		return Sanitized{}, fmt.Errorf("draft: %w", err)
	}
	return Sanitize(StripReasoning(raw), template), nil
}
