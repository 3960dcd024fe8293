// Package feeds answers the catalog and channel feed queries
package feeds

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"creatrends/catalog"
	"creatrends/models"
	"creatrends/telegram"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

const (
	PageSize        = 12
	DefaultMinViews = 10000
	DefaultLimit    = 50

	// View threshold requested from the post sources
	ChannelMinViews = 10000

	defaultFetchTimeout = 10 * time.Second
)

var ErrInvalidQuery = errors.New("invalid query")

type Service struct {
	store        *catalog.Store
	source       telegram.PostSource
	fetchTimeout time.Duration
}

func NewService(store *catalog.Store, source telegram.PostSource, fetchTimeout time.Duration) *Service {
	if fetchTimeout <= 0 {
		fetchTimeout = defaultFetchTimeout
	}
	return &Service{
		store:        store,
		source:       source,
		fetchTimeout: fetchTimeout,
	}
}

// GetFeed returns one page of catalog items for a category, most viewed first
func (s *Service) GetFeed(category string, minViews int64, page int) (*models.FeedPage, error) {
	cat, err := models.ParseCategory(category)
	if err != nil {
		return nil, err
	}
	if minViews < 0 {
		return nil, fmt.Errorf("%w: min_views must not be negative", ErrInvalidQuery)
	}
	if page < 1 {
		return nil, fmt.Errorf("%w: page must be at least 1", ErrInvalidQuery)
	}

	items := NewFeedQueryBuilder().
		AddFilter(&CategoryFilter{Category: cat}).
		AddFilter(&MinViewsFilter{MinViews: minViews}).
		AddScoringLayer(&ViewsScoring{}).
		AddScoringLayer(&EngagementScoring{}).
		Build(s.store.Items())

	log.WithFields(log.Fields{
		"category":  cat,
		"min_views": minViews,
		"page":      page,
		"total":     len(items),
	}).Info("Get feed")

	return &models.FeedPage{
		Items: pageOf(items, page),
		Total: len(items),
	}, nil
}

// pageOf returns items [(page-1)*PageSize, page*PageSize), empty past the end
func pageOf(items []models.FeedItem, page int) []models.FeedItem {
	// Checked before multiplying so huge pages cannot overflow the offset
	if page-1 > len(items)/PageSize {
		return []models.FeedItem{}
	}
	return lo.Subset(items, (page-1)*PageSize, PageSize)
}

// GetChannelPosts aggregates recent posts from every channel of a category.
// Channels that fail are logged and skipped.
func (s *Service) GetChannelPosts(ctx context.Context, category string, limit int) (*models.ChannelPosts, error) {
	cat, err := models.ParseCategory(category)
	if err != nil {
		log.WithFields(log.Fields{
			"category": category,
		}).Warn("Channel posts requested for unknown category")
		return &models.ChannelPosts{
			Error: "Invalid category",
			Posts: []models.PostRecord{},
		}, nil
	}
	if limit < 1 {
		return nil, fmt.Errorf("%w: limit must be at least 1", ErrInvalidQuery)
	}

	if err := s.source.Connect(ctx); err != nil {
		log.WithFields(log.Fields{
			"source": s.source.Name(),
			"error":  err,
		}).Error("Failed to connect post source")
	}

	channels := s.store.Channels(cat)
	perChannel := 0
	if len(channels) > 0 {
		perChannel = limit / len(channels)
	}

	// Each channel writes its own slot so the join keeps channel order
	results := make([][]models.PostRecord, len(channels))
	var wg sync.WaitGroup
	for i, channel := range channels {
		wg.Add(1)
		go func(i int, channel string) {
			defer wg.Done()
			results[i] = s.fetchChannel(ctx, channel, perChannel)
		}(i, channel)
	}
	wg.Wait()

	posts := lo.Flatten(results)
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Views > posts[j].Views
	})

	log.WithFields(log.Fields{
		"category": cat,
		"channels": len(channels),
		"total":    len(posts),
	}).Info("Get channel posts")

	return &models.ChannelPosts{
		Category: cat,
		Posts:    lo.Subset(posts, 0, uint(limit)),
		Total:    len(posts),
	}, nil
}

func (s *Service) fetchChannel(ctx context.Context, channel string, limit int) []models.PostRecord {
	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	posts, err := s.source.FetchPosts(ctx, channel, limit, ChannelMinViews)
	if err != nil {
		log.WithFields(log.Fields{
			"channel": channel,
			"error":   err,
		}).Error("Error getting posts from channel")
		return nil
	}
	return posts
}
