package telegram

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"creatrends/models"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"
)

const (
	defaultTimeout = 10 * time.Second
	userAgent      = "creatrends/1.0"
)

var (
	backgroundUrlRe = regexp.MustCompile(`url\(['"]?([^'")]+)['"]?\)`)
	countRe         = regexp.MustCompile(`([0-9]+(?:[.,][0-9]+)?)\s*([KkMm]?)`)
)

// LiveSource reads posts from the public web preview of a channel
type LiveSource struct {
	baseUrl     string
	timeout     time.Duration
	credentials Credentials

	// Guards connection establishment, only one runs at a time
	mu     sync.Mutex
	client *fasthttp.Client
}

func NewLiveSource(cfg SourceConfig) *LiveSource {
	baseUrl := strings.TrimSuffix(cfg.BaseUrl, "/")
	if baseUrl == "" {
		baseUrl = DefaultBaseUrl
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &LiveSource{
		baseUrl:     baseUrl,
		timeout:     timeout,
		credentials: cfg.Credentials,
	}
}

func (s *LiveSource) Name() string {
	return string(ModeLive)
}

func (s *LiveSource) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		return nil
	}

	log.WithFields(s.credentials.Fields()).Info("Connecting to Telegram")

	if !s.credentials.Complete() {
		return ErrMissingCredentials
	}

	client := &fasthttp.Client{
		Name:                userAgent,
		ReadTimeout:         s.timeout,
		WriteTimeout:        s.timeout,
		MaxIdleConnDuration: time.Minute,
	}

	// Probe the preview host before accepting the connection
	status, _, err := get(ctx, client, s.baseUrl+"/", s.timeout)
	if err != nil {
		return fmt.Errorf("failed to reach %s: %w", s.baseUrl, err)
	}
	if status >= fasthttp.StatusInternalServerError {
		return fmt.Errorf("failed to reach %s: status %d", s.baseUrl, status)
	}

	s.client = client
	log.Info("Telegram client connected")
	return nil
}

func (s *LiveSource) FetchPosts(ctx context.Context, channel string, limit int, minViews int64) ([]models.PostRecord, error) {
	if err := s.Connect(ctx); err != nil {
		return nil, err
	}

	status, body, err := get(ctx, s.client, fmt.Sprintf("%s/s/%s", s.baseUrl, channel), s.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch channel %s: %w", channel, err)
	}
	if status != fasthttp.StatusOK {
		return nil, fmt.Errorf("failed to fetch channel %s: status %d", channel, status)
	}

	posts, err := ParseChannelPreview(channel, body)
	if err != nil {
		return nil, err
	}

	// The preview lists oldest first
	result := make([]models.PostRecord, 0, limit)
	for i := len(posts) - 1; i >= 0 && len(result) < limit; i-- {
		if posts[i].Views >= minViews {
			result = append(result, posts[i])
		}
	}

	log.WithFields(log.Fields{
		"channel": channel,
		"parsed":  len(posts),
		"kept":    len(result),
	}).Info("Fetched channel posts")

	return result, nil
}

// ParseChannelPreview extracts the posts from a channel web preview page
func ParseChannelPreview(channel string, page []byte) ([]models.PostRecord, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("failed to parse preview for %s: %w", channel, err)
	}

	var posts []models.PostRecord
	doc.Find(".tgme_widget_message[data-post]").Each(func(_ int, msg *goquery.Selection) {
		dataPost, _ := msg.Attr("data-post")
		parts := strings.SplitN(dataPost, "/", 2)
		if len(parts) != 2 {
			return
		}
		messageId, err := strconv.Atoi(parts[1])
		if err != nil {
			return
		}

		var likes int64
		msg.Find(".tgme_reaction").Each(func(_ int, r *goquery.Selection) {
			likes += ParseCount(r.Text())
		})

		date, _ := msg.Find(".tgme_widget_message_date time").Attr("datetime")

		posts = append(posts, models.PostRecord{
			Id:        fmt.Sprintf("%s_%d", channel, messageId),
			Channel:   channel,
			MessageId: messageId,
			Text:      strings.TrimSpace(msg.Find(".tgme_widget_message_text").First().Text()),
			Views:     ParseCount(msg.Find(".tgme_widget_message_views").First().Text()),
			Likes:     likes,
			Date:      date,
			MediaUrl:  mediaUrl(msg),
			PostUrl:   fmt.Sprintf("https://t.me/%s/%d", channel, messageId),
		})
	})

	return posts, nil
}

// ParseCount converts preview counters like "987", "12.3K" or "1,2M"
func ParseCount(s string) int64 {
	m := countRe.FindStringSubmatch(s)
	if m == nil {
		return 0
	}

	value, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil {
		return 0
	}

	switch strings.ToUpper(m[2]) {
	case "K":
		value *= 1_000
	case "M":
		value *= 1_000_000
	}
	return int64(value + 0.5)
}

func mediaUrl(msg *goquery.Selection) string {
	for _, selector := range []string{".tgme_widget_message_photo_wrap", ".tgme_widget_message_video_thumb"} {
		style, ok := msg.Find(selector).First().Attr("style")
		if !ok {
			continue
		}
		if m := backgroundUrlRe.FindStringSubmatch(style); m != nil {
			return m[1]
		}
	}
	return ""
}

// get performs a GET bounded by the context deadline or the given timeout
func get(ctx context.Context, client *fasthttp.Client, url string, timeout time.Duration) (int, []byte, error) {
	if err := ctx.Err(); err != nil {
		return 0, nil, err
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(timeout)
	}

	if err := client.DoDeadline(req, resp, deadline); err != nil {
		return 0, nil, err
	}

	// The response is released on return
	body := append([]byte(nil), resp.Body()...)
	return resp.StatusCode(), body, nil
}

var _ PostSource = (*LiveSource)(nil)
