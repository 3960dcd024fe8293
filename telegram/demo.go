package telegram

import (
	"context"
	"fmt"
	"time"

	"creatrends/models"

	log "github.com/sirupsen/logrus"
)

// Maximum number of demo posts per channel
const demoPostsPerChannel = 5

var demoImages = []string{
	"https://images.unsplash.com/photo-1441986300917-64674bd600d8?w=400&h=600&fit=crop",
	"https://images.unsplash.com/photo-1469334031218-e382a71b716b?w=400&h=600&fit=crop",
	"https://images.unsplash.com/photo-1445205170230-053b83016050?w=400&h=600&fit=crop",
	"https://images.unsplash.com/photo-1441984904996-e0b6ba687e04?w=400&h=600&fit=crop",
	"https://images.unsplash.com/photo-1441986300917-64674bd600d8?w=400&h=600&fit=crop",
}

// DemoSource returns synthetic posts for any channel name
type DemoSource struct {
	now func() time.Time
}

func NewDemoSource(now func() time.Time) *DemoSource {
	if now == nil {
		now = time.Now
	}
	return &DemoSource{now: now}
}

func (s *DemoSource) Name() string {
	return string(ModeDemo)
}

func (s *DemoSource) Connect(ctx context.Context) error {
	return nil
}

// FetchPosts ignores minViews, every demo post is above the default threshold
func (s *DemoSource) FetchPosts(ctx context.Context, channel string, limit int, minViews int64) ([]models.PostRecord, error) {
	log.WithFields(log.Fields{
		"channel": channel,
		"limit":   limit,
	}).Debug("Generating demo posts")

	count := min(limit, demoPostsPerChannel)
	now := s.now()

	posts := make([]models.PostRecord, 0, max(count, 0))
	for i := 0; i < count; i++ {
		n := i + 1
		posts = append(posts, models.PostRecord{
			Id:        fmt.Sprintf("%s_demo_%d", channel, n),
			Channel:   channel,
			MessageId: n,
			Text:      fmt.Sprintf("Demo post from %s #%d - testing interface with real images", channel, n),
			Views:     int64(15000 - i*1000),
			Likes:     int64(750 - i*50),
			Comments:  int64(150 - i*10),
			Date:      now.Add(-time.Duration(i) * time.Hour).Format(time.RFC3339),
			MediaUrl:  demoImages[i%len(demoImages)],
			PostUrl:   fmt.Sprintf("https://t.me/%s/%d", channel, n),
		})
	}

	return posts, nil
}

var _ PostSource = (*DemoSource)(nil)
