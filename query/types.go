package query

import "creatrends/models"

// Builder builds a ranked list out of catalog items
type Builder interface {
	Build(items []models.FeedItem) []models.FeedItem
}

// ScoringStrategy defines how items should be ranked
type ScoringStrategy interface {
	// Score returns the sort key for an item, higher ranks first
	Score(item models.FeedItem) float64
}

// FilterStrategy decides which items are part of a feed
type FilterStrategy interface {
	// Keep reports whether the item passes the filter
	Keep(item models.FeedItem) bool
}
