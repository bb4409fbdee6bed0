package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	customsearch "google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"github.com/nao1215/ballotnews/internal/extractor"
	"github.com/nao1215/ballotnews/internal/model"
)

// maxSearchPage is the largest page size the Custom Search API accepts.
const maxSearchPage = 10

// CustomSearch discovers articles with the Custom Search JSON API.
// Result metadata comes from each hit's pagemap metatags.
type CustomSearch struct {
	svc        *customsearch.Service
	cx         string
	maxResults int
	settings   settings
}

// NewCustomSearch creates a provider for the search engine cx.
func NewCustomSearch(ctx context.Context, cx string, opts ...Option) (*CustomSearch, error) {
	if strings.TrimSpace(cx) == "" {
		return nil, fmt.Errorf("%w: search engine id is required", ErrProvider)
	}
	s := newSettings(opts)

	var clientOpts []option.ClientOption
	if s.apiKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(s.apiKey))
	}
	if s.endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(s.endpoint))
	}
	if s.httpClient != nil {
		clientOpts = append(clientOpts, option.WithHTTPClient(s.httpClient))
	}

	svc, err := customsearch.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: create search service: %w", ErrProvider, err)
	}
	return &CustomSearch{
		svc:        svc,
		cx:         cx,
		maxResults: s.maxResults,
		settings:   s,
	}, nil
}

// Discover implements Provider.
func (c *CustomSearch) Discover(ctx context.Context, candidateName string) ([]model.Article, error) {
	resp, err := c.svc.Cse.List().
		Cx(c.cx).
		Q(candidateName).
		Num(int64(min(c.maxResults, maxSearchPage))).
		Context(ctx).
		Do()
	if err != nil {
		return []model.Article{}, fmt.Errorf("%w: custom search: %w", ErrProvider, err)
	}

	metatags := make([]map[string]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item == nil {
			continue
		}
		metatags = append(metatags, firstMetatags(item.Pagemap))
	}

	articles := ArticlesFromMetatags(metatags, c.maxResults)
	c.settings.logger.Debug("custom search results",
		"candidate", candidateName,
		"items", len(resp.Items),
		"articles", len(articles),
	)
	return articles, nil
}

// firstMetatags decodes pagemap.metatags[0] into lowercased string keys.
// Non-string values are ignored.
func firstMetatags(pagemap []byte) map[string]string {
	out := make(map[string]string)
	if len(pagemap) == 0 {
		return out
	}
	var pm struct {
		Metatags []map[string]any `json:"metatags"`
	}
	if err := json.Unmarshal(pagemap, &pm); err != nil || len(pm.Metatags) == 0 {
		return out
	}
	for k, v := range pm.Metatags[0] {
		if s, ok := v.(string); ok {
			out[strings.ToLower(k)] = s
		}
	}
	return out
}

// ArticlesFromMetatags builds articles from per-hit metatags in hit order.
//
// A hit without og:url is skipped and does not consume a priority, so the
// kept articles are numbered 1, 2, 3, ... Priorities are clamped to
// [1, maxResults] and at most maxResults articles are returned.
func ArticlesFromMetatags(hits []map[string]string, maxResults int) []model.Article {
	articles := make([]model.Article, 0, len(hits))
	for _, tags := range hits {
		if len(articles) >= maxResults {
			break
		}
		link := strings.TrimSpace(tags["og:url"])
		if link == "" {
			continue
		}
		article := model.NewArticle(link, len(articles)+1, maxResults)
		article.Publisher = extractor.FirstString(tags, extractor.PublisherKeys)
		article.PublishedDate = extractor.FirstTime(tags, extractor.PublishedDateKeys)
		articles = append(articles, article)
	}
	return articles
}
