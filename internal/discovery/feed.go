package discovery

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/nao1215/ballotnews/internal/model"
)

// QueryPlaceholder is replaced with the escaped candidate name in feed URLs.
const QueryPlaceholder = "{query}"

// Feed discovers articles from an RSS or Atom search feed, such as a news
// search that accepts the query in its URL.
type Feed struct {
	urlTemplate string
	parser      *gofeed.Parser
	maxResults  int
	settings    settings
}

// NewFeed creates a provider for urlTemplate, which must contain
// QueryPlaceholder.
func NewFeed(urlTemplate string, opts ...Option) (*Feed, error) {
	if !strings.Contains(urlTemplate, QueryPlaceholder) {
		return nil, fmt.Errorf("%w: feed url %q has no %s placeholder", ErrProvider, urlTemplate, QueryPlaceholder)
	}
	s := newSettings(opts)

	parser := gofeed.NewParser()
	parser.UserAgent = "ballotnews/1.0"
	if s.httpClient != nil {
		parser.Client = s.httpClient
	}

	return &Feed{
		urlTemplate: urlTemplate,
		parser:      parser,
		maxResults:  s.maxResults,
		settings:    s,
	}, nil
}

// FeedURL returns the feed URL for a candidate name.
func (f *Feed) FeedURL(candidateName string) string {
	return strings.ReplaceAll(f.urlTemplate, QueryPlaceholder, url.QueryEscape(candidateName))
}

// Discover implements Provider.
func (f *Feed) Discover(ctx context.Context, candidateName string) ([]model.Article, error) {
	feed, err := f.parser.ParseURLWithContext(f.FeedURL(candidateName), ctx)
	if err != nil {
		return []model.Article{}, fmt.Errorf("%w: feed: %w", ErrProvider, err)
	}

	articles := ArticlesFromFeed(feed, f.maxResults)
	f.settings.logger.Debug("feed results",
		"candidate", candidateName,
		"items", len(feed.Items),
		"articles", len(articles),
	)
	return articles, nil
}

// ArticlesFromFeed builds articles from feed items in feed order.
// Items without a link are skipped and do not consume a priority.
func ArticlesFromFeed(feed *gofeed.Feed, maxResults int) []model.Article {
	if feed == nil {
		return []model.Article{}
	}
	articles := make([]model.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		if len(articles) >= maxResults {
			break
		}
		if item == nil || strings.TrimSpace(item.Link) == "" {
			continue
		}
		article := model.NewArticle(strings.TrimSpace(item.Link), len(articles)+1, maxResults)
		article.Title = strings.TrimSpace(item.Title)
		article.Publisher = itemPublisher(item, feed)
		if item.PublishedParsed != nil {
			published := *item.PublishedParsed
			article.PublishedDate = &published
		}
		articles = append(articles, article)
	}
	return articles
}

// itemPublisher prefers the Dublin Core publisher, then the feed title.
func itemPublisher(item *gofeed.Item, feed *gofeed.Feed) *string {
	if item.DublinCoreExt != nil {
		for _, p := range item.DublinCoreExt.Publisher {
			if v := model.StringPtr(p); v != nil {
				return v
			}
		}
	}
	return model.StringPtr(feed.Title)
}
