package feeds

import (
	"creatrends/models"
	"creatrends/query"
)

// CategoryFilter keeps items of a single category
type CategoryFilter struct {
	Category models.Category
}

func (f *CategoryFilter) Keep(item models.FeedItem) bool {
	return item.Category == f.Category
}

// MinViewsFilter keeps items with at least MinViews views
type MinViewsFilter struct {
	MinViews int64
}

func (f *MinViewsFilter) Keep(item models.FeedItem) bool {
	return item.Views >= f.MinViews
}

var _ query.FilterStrategy = (*CategoryFilter)(nil)
var _ query.FilterStrategy = (*MinViewsFilter)(nil)
