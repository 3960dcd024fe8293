package feeds

import (
	"sort"

	"creatrends/models"
	"creatrends/query"

	"github.com/samber/lo"
)

// FeedQueryBuilder builds feed queries with scoring and filters
type FeedQueryBuilder struct {
	scoringLayers []query.ScoringStrategy
	filters       []query.FilterStrategy
}

func NewFeedQueryBuilder() *FeedQueryBuilder {
	return &FeedQueryBuilder{
		scoringLayers: make([]query.ScoringStrategy, 0),
		filters:       make([]query.FilterStrategy, 0),
	}
}

// AddScoringLayer appends a sort layer. Earlier layers take precedence, later
// layers only break ties.
func (b *FeedQueryBuilder) AddScoringLayer(strategy query.ScoringStrategy) *FeedQueryBuilder {
	b.scoringLayers = append(b.scoringLayers, strategy)
	return b
}

func (b *FeedQueryBuilder) AddFilter(filter query.FilterStrategy) *FeedQueryBuilder {
	b.filters = append(b.filters, filter)
	return b
}

func (b *FeedQueryBuilder) Build(items []models.FeedItem) []models.FeedItem {
	result := lo.Filter(items, func(item models.FeedItem, _ int) bool {
		for _, filter := range b.filters {
			if !filter.Keep(item) {
				return false
			}
		}
		return true
	})

	if len(b.scoringLayers) == 0 {
		return result
	}

	// Stable so equal items keep catalog order
	sort.SliceStable(result, func(i, j int) bool {
		for _, layer := range b.scoringLayers {
			si, sj := layer.Score(result[i]), layer.Score(result[j])
			if si != sj {
				return si > sj
			}
		}
		return false
	})

	return result
}

var _ query.Builder = (*FeedQueryBuilder)(nil)
