// Package catalog holds the synthetic feed dataset built once at startup
package catalog

import (
	"fmt"
	"strings"
	"time"

	"creatrends/config"
	"creatrends/models"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

// Fixed values used for every generated item
var (
	DefaultVisualElements = []string{"clean backdrop", "soft daylight", "3/4 view"}
	DefaultShortDesc      = "Trending creative from Telegram"
)

type Options struct {
	BaseViews  int64
	ViewStep   int64
	PerChannel int

	// Reference time; item i is published i hours before it
	Epoch time.Time
}

func OptionsFromConfig(cfg *config.Config, epoch time.Time) Options {
	return Options{
		BaseViews:  cfg.BaseViews,
		ViewStep:   cfg.ViewStep,
		PerChannel: cfg.PerChannel,
		Epoch:      epoch,
	}
}

// Store is read-only once New returns and is safe for concurrent use
type Store struct {
	channels config.ChannelCatalog
	items    []models.FeedItem
	byId     map[string]int
	epoch    time.Time
}

func New(channels config.ChannelCatalog, opts Options) *Store {
	s := &Store{
		channels: channels,
		byId:     make(map[string]int),
		epoch:    opts.Epoch.UTC(),
	}

	for _, category := range models.Categories {
		for _, channel := range channels[category] {
			for i := 1; i <= opts.PerChannel; i++ {
				item := NewItem(category, channel, i, opts.BaseViews-int64(i)*opts.ViewStep, s.epoch)
				if _, ok := s.byId[item.Id]; ok {
					log.WithFields(log.Fields{
						"id": item.Id,
					}).Warn("Duplicate feed item id, keeping the first")
					continue
				}
				s.byId[item.Id] = len(s.items)
				s.items = append(s.items, item)
			}
		}
	}

	log.WithFields(log.Fields{
		"items": len(s.items),
	}).Info("Built catalog")

	return s
}

// NewItem generates a single feed item for a channel and sequence index
func NewItem(category models.Category, channel string, index int, views int64, epoch time.Time) models.FeedItem {
	return models.FeedItem{
		Id:             fmt.Sprintf("%s_%s_%d", category, channel, index),
		Category:       category,
		MediaType:      "image",
		MediaUrl:       fmt.Sprintf("https://picsum.photos/seed/%s-%s-%d/640/854", category, channel, index),
		PostUrl:        fmt.Sprintf("https://t.me/%s/%d", channel, 100+index),
		Title:          fmt.Sprintf("%s pick %d", titleCase(string(category)), index),
		ShortDesc:      DefaultShortDesc,
		VisualElements: append([]string(nil), DefaultVisualElements...),
		Views:          views,
		Likes:          roundPercent(views, 5),
		Comments:       roundPercent(views, 1),
		PostedAt:       FormatTime(epoch.Add(-time.Duration(index) * time.Hour)),
		SourceChannel:  channel,
	}
}

// Items returns a deep copy of every item in generation order
func (s *Store) Items() []models.FeedItem {
	return lo.Map(s.items, func(item models.FeedItem, _ int) models.FeedItem {
		return clone(item)
	})
}

func (s *Store) Lookup(id string) (models.FeedItem, bool) {
	idx, ok := s.byId[id]
	if !ok {
		return models.FeedItem{}, false
	}
	return clone(s.items[idx]), true
}

func clone(item models.FeedItem) models.FeedItem {
	item.VisualElements = append([]string(nil), item.VisualElements...)
	return item
}

// Channels returns the configured channels for a category
func (s *Store) Channels(category models.Category) []string {
	return append([]string(nil), s.channels[category]...)
}

// CategoryOf finds the first category listing the channel, falling back to fashion
func (s *Store) CategoryOf(channel string) models.Category {
	category, ok := lo.Find(models.Categories, func(c models.Category) bool {
		return lo.Contains(s.channels[c], channel)
	})
	if !ok {
		return models.Fashion
	}
	return category
}

func (s *Store) Epoch() time.Time {
	return s.epoch
}

// FormatTime formats a time as ISO-8601 in UTC with a Z suffix
func FormatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000Z")
}

// roundPercent returns round(views * pct / 100), halves rounded up
func roundPercent(views int64, pct int64) int64 {
	return (views*pct + 50) / 100
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
