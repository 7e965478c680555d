package pipeline

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"blog_bundle_agent/bundle"
	"blog_bundle_agent/generator"
)

// Stage records one timed step of a run.
type Stage struct {
	Name string
	Took time.Duration
	Err  error
}

// Run holds everything one topic produced. It lives for a single invocation.
type Run struct {
	ID        string
	Topic     string
	Slug      string
	BundleDir string
	DraftPath string
	Keyword   string
	ImageURL  string
	Draft     generator.Sanitized
	Review    generator.Inspection
	Thumbnail bundle.ThumbnailResult
	StartedAt time.Time
	EndedAt   time.Time

	mu     sync.Mutex
	stages []Stage
}

func newRun(topic string, now time.Time) *Run {
	return &Run{ID: uuid.NewString(), Topic: topic, StartedAt: now}
}

// track times fn and appends it to the stage history. Safe for concurrent use.
func (r *Run) track(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	r.mu.Lock()
	r.stages = append(r.stages, Stage{Name: name, Took: time.Since(start), Err: err})
	r.mu.Unlock()
	return err
}

// Stages returns a copy of the stage history in completion order.
func (r *Run) Stages() []Stage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Stage(nil), r.stages...)
}

// Elapsed is the wall time of the run, or of the run so far.
func (r *Run) Elapsed() time.Duration {
	if r.EndedAt.IsZero() {
		return time.Since(r.StartedAt)
	}
	return r.EndedAt.Sub(r.StartedAt)
}
