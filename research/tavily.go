package research

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"blog_bundle_agent/config"
)

const searchPath = "/search"

// Result is one search hit.
type Result struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// Results is the search outcome, only ever used as prompt context.
type Results struct {
	Query   string   `json:"query"`
	Answer  string   `json:"answer"`
	Results []Result `json:"results"`
}

// Context renders results as a numbered plain-text block for a prompt.
func (r Results) Context() string {
	if len(r.Results) == 0 {
		return "(no search results)"
	}
	var sb strings.Builder
	for i, res := range r.Results {
		sb.WriteString(fmt.Sprintf("%d. %s (%s)\n", i+1, strings.TrimSpace(res.Title), res.URL))
		if c := strings.TrimSpace(res.Content); c != "" {
			sb.WriteString("   ")
			sb.WriteString(strings.Join(strings.Fields(c), " "))
			sb.WriteString("\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

type searchRequest struct {
	Query       string `json:"query"`
	MaxResults  int    `json:"max_results"`
	SearchDepth string `json:"search_depth"`
	Topic       string `json:"topic"`
}

type errorResp struct {
	Detail struct {
		Error string `json:"error"`
	} `json:"detail"`
}

// Tavily queries the Tavily search API.
type Tavily struct {
	apiKey     string
	baseURL    string
	maxResults int
	client     *http.Client
	log        *log.Entry
}

func NewTavily(apiKey, baseURL string, maxResults int, client *http.Client, logger *log.Entry) (*Tavily, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("tavily api key: %w; set TAVILY_API_KEY or search.api_key", config.ErrMissingCredential)
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	if maxResults <= 0 {
		maxResults = 3
	}
	return &Tavily{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		maxResults: maxResults,
		client:     client,
		log:        logger.WithField("component", "research"),
	}, nil
}

// Search runs one query.
func (t *Tavily) Search(ctx context.Context, query string) (Results, error) {
	payload, err := json.Marshal(searchRequest{
		Query:       query,
		MaxResults:  t.maxResults,
		SearchDepth: "basic",
		Topic:       "general",
	})
	if err != nil {
		return Results{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+searchPath, bytes.NewReader(payload))
	if err != nil {
		return Results{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.apiKey)

	resp, err := t.client.Do(req)
	if err != nil {
		return Results{}, fmt.Errorf("search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var e errorResp
		if json.Unmarshal(body, &e) == nil && e.Detail.Error != "" {
			return Results{}, fmt.Errorf("search failed: %d %s", resp.StatusCode, e.Detail.Error)
		}
		return Results{}, fmt.Errorf("search failed: %d %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var data Results
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return Results{}, fmt.Errorf("decode search response: %w", err)
	}
	t.log.WithFields(log.Fields{"query": query, "results": len(data.Results)}).Debug("search done")
	return data, nil
}
