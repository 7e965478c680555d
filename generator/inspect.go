package generator

import (
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// FrontMatter mirrors the keys BuildTemplate emits.
type FrontMatter struct {
	Title       string   `yaml:"title"`
	Date        string   `yaml:"date"`
	Draft       bool     `yaml:"draft"`
	Image       string   `yaml:"image"`
	Description string   `yaml:"description"`
	Categories  []string `yaml:"categories"`
	Tags        []any    `yaml:"tags"`
	Type        string   `yaml:"type"`
}

// TagList flattens tags to strings; an unfilled "[tag1]" decodes as a nested list.
func (fm FrontMatter) TagList() []string {
	out := make([]string, 0, len(fm.Tags))
	for _, t := range fm.Tags {
		out = append(out, fmt.Sprint(t))
	}
	return out
}

// Inspection summarises a sanitized draft. It is informational only.
type Inspection struct {
	FrontMatter    FrontMatter
	FrontMatterErr error
	Unfilled       []string
	Headings       []string
	Words          int
	CodeBlocks     int
}

// OK reports whether the frontmatter parsed and every placeholder was replaced.
func (i Inspection) OK() bool {
	return i.FrontMatterErr == nil && len(i.Unfilled) == 0 && i.FrontMatter.Title != ""
}

// Inspect parses the frontmatter of doc and walks its Markdown body.
func Inspect(doc string) Inspection {
	var ins Inspection
	for _, p := range []string{titlePlaceholder, descriptionPlaceholder, tagPlaceholder1, tagPlaceholder2} {
		if strings.Contains(doc, p) {
			ins.Unfilled = append(ins.Unfilled, p)
		}
	}

	body, err := frontmatter.Parse(strings.NewReader(doc), &ins.FrontMatter)
	if err != nil {
		ins.FrontMatterErr = fmt.Errorf("parse frontmatter: %w", err)
		return ins
	}
	ins.Headings, ins.Words, ins.CodeBlocks = inspectBody(body)
	return ins
}

func inspectBody(src []byte) (headings []string, words, codeBlocks int) {
	doc := goldmark.DefaultParser().Parse(text.NewReader(src))
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			if node.Level <= 3 {
				headings = append(headings, strings.TrimSpace(string(node.Text(src))))
			}
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			codeBlocks++
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			words += len(strings.Fields(string(node.Segment.Value(src))))
		}
		return ast.WalkContinue, nil
	})
	return headings, words, codeBlocks
}
