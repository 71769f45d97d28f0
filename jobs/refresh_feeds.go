package jobs

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/linkhive/linkhive/domain"
)

type RefreshFeedsConfig struct {
	Concurrency int           `mapstructure:"concurrency"`
	Timeout     time.Duration `mapstructure:"timeout"`
	DryRun      bool          `mapstructure:"dry_run"`
}

const defaultRefreshConcurrency = 5

// RefreshFeeds fetches every feed that is due and stores its entries as
// bookmarks. Failures are per feed and never abort the whole run.
func (h *Handler) RefreshFeeds(ctx context.Context, c Config) error {
	var cfg RefreshFeedsConfig
	if err := c.Decode(&cfg); err != nil {
		return fmt.Errorf("invalid config for %s job: %w", TypeRefreshFeeds, err)
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultRefreshConcurrency
	}
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	now := time.Now()
	due, err := h.feedService.RefreshDue(ctx, now)
	if err != nil {
		return fmt.Errorf("listing due feeds: %w", err)
	}
	h.logger.Info(ctx, "refreshing feeds", "count", len(due), "dry_run", cfg.DryRun)

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(cfg.Concurrency)
	for _, f := range due {
		f := f
		eg.Go(func() error {
			fetchErr := h.refreshFeed(ctx, f, cfg.DryRun)
			if fetchErr != nil {
				h.logger.Error(ctx, "feed refresh failed", "feed", f.ID, "url", f.FeedURL, "error", fetchErr)
			}
			if cfg.DryRun {
				return nil
			}
			if err := h.feedService.MarkFetched(ctx, f.ID, time.Now(), fetchErr); err != nil {
				h.logger.Error(ctx, "failed to record fetch result", "feed", f.ID, "error", err)
			}
			return nil
		})
	}
	return eg.Wait()
}

func (h *Handler) refreshFeed(ctx context.Context, f *domain.Feed, dryRun bool) error {
	res, err := h.httpClient.MakeRequest(ctx, http.MethodGet, f.FeedURL, nil, nil)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("feed returned %d", res.StatusCode)
	}

	entries, err := parseFeedEntries(res.Body, f)
	if err != nil {
		return err
	}
	if dryRun || len(entries) == 0 {
		return nil
	}

	return h.bookmarkService.BulkUpsert(ctx, entries)
}

// rssDocument covers both RSS 2.0 (<rss><channel><item>) and Atom
// (<feed><entry>) documents, which is all the sources we subscribe to.
type rssDocument struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
	Entries []atomEntry `xml:"entry"`
}

type rssItem struct {
	Title      string   `xml:"title"`
	Link       string   `xml:"link"`
	Categories []string `xml:"category"`
}

type atomEntry struct {
	Title string `xml:"title"`
	Links []struct {
		Href string `xml:"href,attr"`
		Rel  string `xml:"rel,attr"`
	} `xml:"link"`
	Categories []struct {
		Term string `xml:"term,attr"`
	} `xml:"category"`
}

func parseFeedEntries(r io.Reader, f *domain.Feed) ([]*domain.Bookmark, error) {
	var doc rssDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing feed document: %w", err)
	}

	var entries []*domain.Bookmark
	for _, item := range doc.Channel.Items {
		if item.Link == "" {
			continue
		}
		entries = append(entries, &domain.Bookmark{
			FeedID: f.ID,
			URL:    item.Link,
			Title:  item.Title,
			Tags:   item.Categories,
		})
	}
	for _, entry := range doc.Entries {
		link := ""
		for _, l := range entry.Links {
			if l.Rel == "" || l.Rel == "alternate" {
				link = l.Href
				break
			}
		}
		if link == "" {
			continue
		}
		tags := make([]string, 0, len(entry.Categories))
		for _, c := range entry.Categories {
			if c.Term != "" {
				tags = append(tags, c.Term)
			}
		}
		entries = append(entries, &domain.Bookmark{
			FeedID: f.ID,
			URL:    link,
			Title:  entry.Title,
			Tags:   tags,
		})
	}
	return entries, nil
}
