package bundle

import (
	"context"
	"time"

	"github.com/cavaliergopher/grab/v3"
	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
)

// Downloader fetches files with grab, bounded by a per-download timeout.
type Downloader struct {
	client  *grab.Client
	timeout time.Duration
	log     *log.Entry
}

func NewDownloader(timeout time.Duration, logger *log.Entry) *Downloader {
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	client := grab.NewClient()
	client.UserAgent = "blog-bundle-agent"
	return &Downloader{client: client, timeout: timeout, log: logger.WithField("component", "download")}
}

// Fetch downloads url into the file dst and returns the number of bytes written.
func (d *Downloader) Fetch(ctx context.Context, url, dst string) (int64, error) {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	req, err := grab.NewRequest(dst, url)
	if err != nil {
		return 0, err
	}
	req = req.WithContext(ctx)
	req.NoResume = true

	resp := d.client.Do(req)
	t := time.NewTicker(500 * time.Millisecond)
	defer t.Stop()

Loop:
	for {
		select {
		case <-t.C:
			d.log.Debugf("transferred %v / %v (%.2f%%)",
				humanize.Bytes(uint64(resp.BytesComplete())),
				humanize.Bytes(uint64(max(resp.Size(), 0))),
				100*resp.Progress())
		case <-resp.Done:
			break Loop
		}
	}

	if err := resp.Err(); err != nil {
		return 0, err
	}
	d.log.WithField("size", humanize.Bytes(uint64(resp.BytesComplete()))).Debug("download complete")
	return resp.BytesComplete(), nil
}
