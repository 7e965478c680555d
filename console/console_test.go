package console

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStepWithoutAnimation(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, false)

	done := c.Step("[Step 1/4] Searching web")
	done("3 results")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "[Step 1/4] Searching web")
	assert.Contains(t, lines[1], "3 results")
}

func TestStepWithoutDoneMessage(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, false).Step("quiet")("")
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
}

func TestWarnAndInfo(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, false)
	c.Info("hello")
	c.Warn("image skipped")

	out := buf.String()
	assert.Contains(t, out, "hello\n")
	assert.Contains(t, out, "image skipped")
	assert.NotContains(t, out, ":warning:", "emoji codes are expanded")
}

func TestBanner(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, false).Banner("Blog Agent")
	assert.Contains(t, buf.String(), "Blog Agent")
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "1.5 kB", Bytes(1500))
	assert.Equal(t, "0 B", Bytes(-1))
	assert.Equal(t, "12.3s", Elapsed(12345*time.Millisecond))
}
