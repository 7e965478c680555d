package generator

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var slugShape = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func TestDeriveSlug(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"kubernetes networking", "kubernetes-networking"},
		{"  Kubernetes   Networking!! ", "kubernetes-networking"},
		{"Go 1.22: What's New?", "go-1-22-what-s-new"},
		{"../../etc/passwd", "etc-passwd"},
		{"already-a-slug", "already-a-slug"},
		{"---", ""},
		{"", ""},
		{"日本語", ""},
		{"Café déjà vu", "caf-d-j-vu"},
		{"eBPF/XDP_fast-path", "ebpf-xdp-fast-path"},
	}
	for _, tt := range tests {
		got := DeriveSlug(tt.input)
		assert.Equal(t, tt.expected, got, "DeriveSlug(%q)", tt.input)
	}
}

func TestDeriveSlugShapeAndIdempotence(t *testing.T) {
	inputs := []string{
		"kubernetes networking",
		"Sure! Here's a slug: `rust-async-runtimes`",
		"\tTabs\nand\r\nnewlines\t",
		"a--b__c  d",
		"/absolute/path",
		"C:\\windows\\system32",
		"emoji 🚀 launch",
		"UPPER lower 123",
	}
	for _, in := range inputs {
		s := DeriveSlug(in)
		if s != "" {
			assert.Regexp(t, slugShape, s, "DeriveSlug(%q)", in)
		}
		assert.Equal(t, s, DeriveSlug(s), "DeriveSlug must be idempotent for %q", in)
	}
}
