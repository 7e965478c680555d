package bundle

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

const (
	// DraftName is the Markdown file inside every bundle.
	DraftName = "index.md"
	// ThumbnailName is the optional image inside every bundle.
	ThumbnailName = "logo.jpg"

	partialThumbnail = ".logo.download"
)

// Fetcher streams the resource at url into the file dst.
type Fetcher interface {
	Fetch(ctx context.Context, url, dst string) (int64, error)
}

// ThumbnailStatus is the outcome of a thumbnail attempt.
type ThumbnailStatus int

const (
	ThumbnailSkipped ThumbnailStatus = iota
	ThumbnailSaved
	ThumbnailFailed
)

func (s ThumbnailStatus) String() string {
	switch s {
	case ThumbnailSaved:
		return "saved"
	case ThumbnailFailed:
		return "failed"
	default:
		return "skipped"
	}
}

// ThumbnailResult reports what WriteThumbnail did. A failed thumbnail is a
// normal outcome; callers decide whether it matters.
type ThumbnailResult struct {
	Status  ThumbnailStatus
	Path    string
	Bytes   int64
	Resized bool
	Err     error
}

// Writer persists drafts and thumbnails into directories returned by ResolveDir.
type Writer struct {
	fetch    Fetcher
	maxWidth int
	log      *log.Entry
}

func NewWriter(fetch Fetcher, maxWidth int, logger *log.Entry) *Writer {
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	return &Writer{fetch: fetch, maxWidth: maxWidth, log: logger.WithField("component", "bundle")}
}

// WriteDraft creates dir if needed and writes doc to index.md, replacing any
// previous draft. The write is not atomic.
func (w *Writer) WriteDraft(dir, doc string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create bundle dir: %w", err)
	}
	target := filepath.Join(dir, DraftName)
	if err := os.WriteFile(target, []byte(doc), 0o644); err != nil {
		return "", fmt.Errorf("write draft: %w", err)
	}
	w.log.WithField("path", target).Debug("draft written")
	return target, nil
}

// WriteThumbnail downloads imageURL into dir/logo.jpg. An empty imageURL does
// no I/O at all. Download or decode problems never escape as errors.
func (w *Writer) WriteThumbnail(ctx context.Context, dir, imageURL string) ThumbnailResult {
	if imageURL == "" || w.fetch == nil {
		return ThumbnailResult{Status: ThumbnailSkipped}
	}
	target := filepath.Join(dir, ThumbnailName)
	fail := func(err error) ThumbnailResult {
		w.log.WithError(err).WithField("url", imageURL).Warn("thumbnail not saved")
		return ThumbnailResult{Status: ThumbnailFailed, Path: target, Err: err}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fail(fmt.Errorf("create bundle dir: %w", err))
	}
	partial := filepath.Join(dir, partialThumbnail)
	_ = os.Remove(partial)
	defer os.Remove(partial)

	if _, err := w.fetch.Fetch(ctx, imageURL, partial); err != nil {
		return fail(fmt.Errorf("download thumbnail: %w", err))
	}

	resized, err := w.finishThumbnail(partial, target)
	if err != nil {
		return fail(err)
	}
	info, err := os.Stat(target)
	if err != nil {
		return fail(err)
	}
	return ThumbnailResult{Status: ThumbnailSaved, Path: target, Bytes: info.Size(), Resized: resized}
}

// finishThumbnail turns the downloaded file into target, re-encoding when the
// image is too wide or not a JPEG. Bytes that do not decode are kept as-is.
func (w *Writer) finishThumbnail(partial, target string) (bool, error) {
	src, err := os.Open(partial)
	if err != nil {
		return false, err
	}
	encoded, resized, err := normalizeThumbnail(src, w.maxWidth)
	closeWithLog(src, "downloaded thumbnail", w.log)
	if err != nil {
		w.log.WithError(err).Debug("thumbnail kept as downloaded")
		return false, os.Rename(partial, target)
	}
	if encoded == nil {
		return false, os.Rename(partial, target)
	}
	return resized, os.WriteFile(target, encoded, 0o644)
}

func closeWithLog(c io.Closer, what string, logger *log.Entry) {
	if err := c.Close(); err != nil {
		logger.WithError(err).Debugf("closing %s", what)
	}
}
