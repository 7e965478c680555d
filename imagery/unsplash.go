package imagery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"blog_bundle_agent/config"
)

const searchPhotosPath = "/search/photos"

// ErrNoImage is returned when a query matches no photo.
var ErrNoImage = errors.New("no image found")

type searchPhotosResp struct {
	Results []struct {
		ID   string `json:"id"`
		URLs struct {
			Regular string `json:"regular"`
		} `json:"urls"`
	} `json:"results"`
	Errors []string `json:"errors"`
}

// Unsplash looks up landscape stock photos.
type Unsplash struct {
	accessKey     string
	baseURL       string
	fallbackQuery string
	client        *http.Client
	log           *log.Entry
}

func NewUnsplash(accessKey, baseURL, fallbackQuery string, timeout time.Duration, logger *log.Entry) (*Unsplash, error) {
	if accessKey == "" {
		return nil, fmt.Errorf("unsplash access key: %w; set UNSPLASH_ACCESS_KEY or images.access_key", config.ErrMissingCredential)
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	return &Unsplash{
		accessKey:     accessKey,
		baseURL:       strings.TrimRight(baseURL, "/"),
		fallbackQuery: fallbackQuery,
		client:        &http.Client{Timeout: timeout},
		log:           logger.WithField("component", "imagery"),
	}, nil
}

// FindImage returns a photo URL for keyword, retrying once with the generic
// fallback query. It returns "" when neither query yields a photo.
func (u *Unsplash) FindImage(ctx context.Context, keyword string) string {
	url, err := u.search(ctx, keyword)
	if err == nil {
		return url
	}
	u.log.WithError(err).WithField("query", keyword).Info("specific image not found, trying generic query")
	if u.fallbackQuery == "" || u.fallbackQuery == keyword {
		return ""
	}
	url, err = u.search(ctx, u.fallbackQuery)
	if err != nil {
		u.log.WithError(err).WithField("query", u.fallbackQuery).Warn("no stock photo available")
		return ""
	}
	return url
}

func (u *Unsplash) search(ctx context.Context, query string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.baseURL+searchPhotosPath, nil)
	if err != nil {
		return "", err
	}
	q := req.URL.Query()
	q.Set("query", query)
	q.Set("orientation", "landscape")
	q.Set("per_page", "1")
	q.Set("client_id", u.accessKey)
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Accept-Version", "v1")

	resp, err := u.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var data searchPhotosResp
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("decode photo search (%d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("photo search failed: %d %s", resp.StatusCode, strings.Join(data.Errors, "; "))
	}
	if len(data.Results) == 0 || data.Results[0].URLs.Regular == "" {
		return "", ErrNoImage
	}
	return data.Results[0].URLs.Regular, nil
}
