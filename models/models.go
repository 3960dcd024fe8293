package models

import (
	"errors"
	"fmt"
)

var ErrInvalidCategory = errors.New("invalid category")

// Category of a creative feed
type Category string

const (
	Fashion Category = "fashion"
	Home    Category = "home"
	Beauty  Category = "beauty"
)

// Categories in catalog order
var Categories = []Category{Fashion, Beauty, Home}

func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case Fashion, Home, Beauty:
		return Category(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}

// FeedItem is one synthetic post served by the catalog
type FeedItem struct {
	Id             string   `json:"id"`
	Category       Category `json:"category"`
	MediaType      string   `json:"media_type"`
	MediaUrl       string   `json:"media_url"`
	PostUrl        string   `json:"post_url"`
	Title          string   `json:"title"`
	ShortDesc      string   `json:"short_desc"`
	VisualElements []string `json:"visual_elements"`
	Views          int64    `json:"views"`
	Likes          int64    `json:"likes"`
	Comments       int64    `json:"comments"`
	PostedAt       string   `json:"posted_at"`
	SourceChannel  string   `json:"source_channel"`
}

// EngagementRatio is (likes+comments)/max(1, views)
func (i FeedItem) EngagementRatio() float64 {
	views := i.Views
	if views < 1 {
		views = 1
	}
	return float64(i.Likes+i.Comments) / float64(views)
}

// PostRecord is a post as returned by a channel post source
type PostRecord struct {
	Id        string `json:"id"`
	Channel   string `json:"channel"`
	MessageId int    `json:"message_id"`
	Text      string `json:"text"`
	Views     int64  `json:"views"`
	Likes     int64  `json:"likes"`
	Comments  int64  `json:"comments"`
	Date      string `json:"date"`
	MediaUrl  string `json:"media_url"`
	PostUrl   string `json:"post_url"`
}

type FeedPage struct {
	Items []FeedItem `json:"items"`
	Total int        `json:"total"`
}

// ChannelPosts is the aggregated result for a category. Error is only set
// for unknown categories, in which case Category is empty.
type ChannelPosts struct {
	Category Category     `json:"category,omitempty"`
	Error    string       `json:"error,omitempty"`
	Posts    []PostRecord `json:"posts"`
	Total    int          `json:"total"`
}

type PromptTriple struct {
	PromptReady    string `json:"prompt_ready"`
	PromptTemplate string `json:"prompt_template"`
	NegativePrompt string `json:"negative_prompt"`
}

type CreativeVariant struct {
	Url string `json:"url"`
}

type CreativeResult struct {
	Id       string            `json:"id"`
	Variants []CreativeVariant `json:"variants"`
	Seed     int64             `json:"seed"`
	Provider string            `json:"provider"`
}
