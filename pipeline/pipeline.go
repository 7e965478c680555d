// Package pipeline sequences one topic through search, outline, draft and
// bundle writing.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"blog_bundle_agent/bundle"
	"blog_bundle_agent/generator"
	"blog_bundle_agent/research"
)

// Generator is the model-backed half of a run.
type Generator interface {
	SEOSlug(ctx context.Context, topic string) string
	VisualKeyword(ctx context.Context, topic string) string
	Outline(ctx context.Context, topic, research string) (string, error)
	Draft(ctx context.Context, outline, template string) (generator.Sanitized, error)
}

// Searcher supplies web context for the outline.
type Searcher interface {
	Search(ctx context.Context, query string) (research.Results, error)
}

// ImageFinder returns a photo URL for a keyword, or "".
type ImageFinder interface {
	FindImage(ctx context.Context, keyword string) string
}

// BundleWriter persists a run's output.
type BundleWriter interface {
	WriteDraft(dir, doc string) (string, error)
	WriteThumbnail(ctx context.Context, dir, imageURL string) bundle.ThumbnailResult
}

// Reporter shows progress to a human.
type Reporter interface {
	Step(message string) func(done string)
	Info(message string)
	Warn(message string)
}

// Options are fixed for the life of a Pipeline.
type Options struct {
	ContentRoot       string
	ImagePathPrefix   string
	Parallel          bool
	PreambleWarnBytes int
	Now               func() time.Time
}

// Deps are the collaborators. Images may be nil, which disables thumbnails.
type Deps struct {
	Generator Generator
	Search    Searcher
	Images    ImageFinder
	Writer    BundleWriter
	Reporter  Reporter
	Metrics   *Metrics
}

type Pipeline struct {
	gen      Generator
	search   Searcher
	images   ImageFinder
	writer   BundleWriter
	reporter Reporter
	metrics  *Metrics
	opts     Options
	log      *log.Entry
}

func New(deps Deps, opts Options, logger *log.Entry) (*Pipeline, error) {
	if deps.Generator == nil || deps.Search == nil || deps.Writer == nil {
		return nil, errors.New("generator, search and writer are required")
	}
	if opts.ContentRoot == "" {
		return nil, errors.New("content root is required")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if deps.Reporter == nil {
		deps.Reporter = NopReporter{}
	}
	if deps.Metrics == nil {
		deps.Metrics = NewMetrics()
	}
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	return &Pipeline{
		gen:      deps.Generator,
		search:   deps.Search,
		images:   deps.Images,
		writer:   deps.Writer,
		reporter: deps.Reporter,
		metrics:  deps.Metrics,
		opts:     opts,
		log:      logger.WithField("component", "pipeline"),
	}, nil
}

// Run produces one page bundle for topic. The returned Run is non-nil even
// on error so callers can report how far it got.
func (p *Pipeline) Run(ctx context.Context, topic string) (*Run, error) {
	run := newRun(topic, p.opts.Now())
	logger := p.log.WithFields(log.Fields{"run_id": run.ID, "topic": topic})
	p.reporter.Info(fmt.Sprintf(":rocket: Starting Page Bundle Pipeline for: '%s'", topic))

	err := p.run(ctx, run, logger)
	run.EndedAt = p.opts.Now()

	outcome := outcomeSuccess
	switch {
	case errors.Is(err, bundle.ErrPathTraversal):
		outcome = outcomeBlocked
	case err != nil:
		outcome = outcomeFailed
	}
	p.metrics.observe(run, outcome)

	if err != nil {
		logger.WithError(err).WithField("outcome", outcome).Error("run aborted")
		return run, err
	}
	logger.WithFields(log.Fields{
		"bundle":    run.BundleDir,
		"thumbnail": run.Thumbnail.Status.String(),
		"elapsed":   run.Elapsed().Round(time.Millisecond).String(),
	}).Info("run complete")
	return run, nil
}

func (p *Pipeline) run(ctx context.Context, run *Run, logger *log.Entry) error {
	done := p.reporter.Step(":abc: Extracting a short, SEO-friendly URL slug...")
	_ = run.track("slug", func() error {
		run.Slug = p.gen.SEOSlug(ctx, run.Topic)
		return nil
	})
	done("Calculated SEO Slug: " + run.Slug)

	err := run.track("resolve", func() error {
		dir, err := bundle.ResolveDir(p.opts.ContentRoot, run.Slug)
		run.BundleDir = dir
		return err
	})
	if err != nil {
		return err
	}
	logger = logger.WithField("slug", run.Slug)

	template := generator.BuildTemplate(run.Slug, run.StartedAt, p.opts.ImagePathPrefix)

	done = p.reporter.Step(":mag: [Step 1/4] Searching web for facts & finding a thumbnail...")
	results, err := p.research(ctx, run)
	if err != nil {
		done("")
		return err
	}
	done(fmt.Sprintf("%d search results, visual keyword %q", len(results.Results), run.Keyword))
	if p.images == nil {
		p.reporter.Warn("Image API key missing. Skipping image.")
	}

	done = p.reporter.Step(":bulb: [Step 2/4] Structuring the technical outline...")
	var outline string
	err = run.track("outline", func() error {
		var err error
		outline, err = p.gen.Outline(ctx, run.Topic, results.Context())
		return err
	})
	if err != nil {
		done("")
		return err
	}
	done("Outline ready")

	done = p.reporter.Step(":memo: [Step 3/4] Drafting the final Markdown content...")
	err = run.track("draft", func() error {
		var err error
		run.Draft, err = p.gen.Draft(ctx, outline, template)
		return err
	})
	if err != nil {
		done("")
		return err
	}
	done("Draft ready")
	p.checkDraft(run, logger)

	p.reporter.Info(":floppy_disk: [Step 4/4] Generating Page Bundle...")
	err = run.track("write", func() error {
		var err error
		run.DraftPath, err = p.writer.WriteDraft(run.BundleDir, run.Draft.Text)
		return err
	})
	if err != nil {
		return err
	}

	if run.ImageURL != "" {
		_ = run.track("thumbnail", func() error {
			run.Thumbnail = p.writer.WriteThumbnail(ctx, run.BundleDir, run.ImageURL)
			return run.Thumbnail.Err
		})
		if run.Thumbnail.Status == bundle.ThumbnailFailed {
			p.reporter.Warn(fmt.Sprintf("Failed to download/save image: %v", run.Thumbnail.Err))
		} else {
			p.reporter.Info(":ok: Thumbnail saved successfully.")
		}
	}
	return nil
}

// research runs web search and the image lookup. The image branch (keyword,
// then photo search) never fails the run and never reports, so nothing writes
// to the reporter while the step is still open.
func (p *Pipeline) research(ctx context.Context, run *Run) (research.Results, error) {
	var results research.Results
	search := func(ctx context.Context) error {
		return run.track("search", func() error {
			var err error
			results, err = p.search.Search(ctx, run.Topic)
			return err
		})
	}
	imagery := func(ctx context.Context) {
		if p.images == nil {
			return
		}
		_ = run.track("imagery", func() error {
			run.Keyword = p.gen.VisualKeyword(ctx, run.Topic)
			run.ImageURL = p.images.FindImage(ctx, run.Keyword)
			return nil
		})
	}

	if !p.opts.Parallel {
		if err := search(ctx); err != nil {
			return research.Results{}, err
		}
		imagery(ctx)
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return search(gctx) })
	g.Go(func() error {
		imagery(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return research.Results{}, err
	}
	return results, nil
}

// checkDraft logs what the sanitizer had to repair and what is still missing.
// Nothing here blocks the write.
func (p *Pipeline) checkDraft(run *Run, logger *log.Entry) {
	if run.Draft.Injected {
		p.reporter.Warn("AI missed the YAML frontmatter! Force-injecting the template...")
	}
	if p.opts.PreambleWarnBytes > 0 && run.Draft.Preamble > p.opts.PreambleWarnBytes {
		logger.WithField("discarded_bytes", run.Draft.Preamble).Warn("large preamble discarded before frontmatter")
	}

	run.Review = generator.Inspect(run.Draft.Text)
	fields := log.Fields{
		"headings":    len(run.Review.Headings),
		"words":       run.Review.Words,
		"code_blocks": run.Review.CodeBlocks,
	}
	switch {
	case run.Review.FrontMatterErr != nil:
		logger.WithError(run.Review.FrontMatterErr).Warn("draft frontmatter does not parse")
	case len(run.Review.Unfilled) > 0:
		logger.WithFields(fields).WithField("unfilled", run.Review.Unfilled).Warn("draft left template placeholders")
	default:
		logger.WithFields(fields).WithFields(log.Fields{
			"title": run.Review.FrontMatter.Title,
			"tags":  run.Review.FrontMatter.TagList(),
		}).Info("draft reviewed")
	}
}

// NopReporter discards progress output.
type NopReporter struct{}

func (NopReporter) Step(string) func(string) { return func(string) {} }
func (NopReporter) Info(string)              {}
func (NopReporter) Warn(string)              {}
