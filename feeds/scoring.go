package feeds

import (
	"creatrends/models"
	"creatrends/query"
)

// ViewsScoring ranks items by raw view count
type ViewsScoring struct{}

func (s *ViewsScoring) Score(item models.FeedItem) float64 {
	return float64(item.Views)
}

// EngagementScoring ranks items by (likes+comments)/max(1, views)
type EngagementScoring struct{}

func (s *EngagementScoring) Score(item models.FeedItem) float64 {
	return item.EngagementRatio()
}

var _ query.ScoringStrategy = (*ViewsScoring)(nil)
var _ query.ScoringStrategy = (*EngagementScoring)(nil)
