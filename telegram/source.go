// Package telegram provides the channel post sources used by the channel feed
package telegram

import (
	"context"
	"errors"
	"fmt"
	"time"

	"creatrends/models"

	log "github.com/sirupsen/logrus"
)

const DefaultBaseUrl = "https://t.me"

var ErrMissingCredentials = errors.New("telegram credentials not configured")

// PostSource fetches recent posts for a channel
type PostSource interface {
	Name() string
	// Connect prepares the source, it is safe to call repeatedly
	Connect(ctx context.Context) error
	FetchPosts(ctx context.Context, channel string, limit int, minViews int64) ([]models.PostRecord, error)
}

type Mode string

const (
	ModeDemo Mode = "demo"
	ModeLive Mode = "live"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeDemo, ModeLive:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown post source mode %q", s)
}

type Credentials struct {
	ApiId   string
	ApiHash string
	Session string
}

func (c Credentials) Complete() bool {
	return c.ApiId != "" && c.ApiHash != "" && c.Session != ""
}

// Fields returns the credentials as log fields with secrets masked
func (c Credentials) Fields() log.Fields {
	return log.Fields{
		"api_id":   c.ApiId,
		"api_hash": mask(c.ApiHash, 10),
		"session":  mask(c.Session, 20),
	}
}

type SourceConfig struct {
	Mode        Mode
	Credentials Credentials

	// Host serving the public channel previews
	BaseUrl string
	Timeout time.Duration

	// Clock used for demo post dates, defaults to time.Now
	Now func() time.Time
}

// NewSource picks the post source for the configured mode. Live mode without
// credentials falls back to the demo source.
func NewSource(cfg SourceConfig) PostSource {
	var src PostSource

	switch {
	case cfg.Mode == ModeLive && cfg.Credentials.Complete():
		src = NewLiveSource(cfg)
	case cfg.Mode == ModeLive:
		log.WithFields(cfg.Credentials.Fields()).Warn("Telegram credentials not found, using demo mode")
		src = NewDemoSource(cfg.Now)
	default:
		src = NewDemoSource(cfg.Now)
	}

	log.WithFields(log.Fields{
		"source": src.Name(),
	}).Info("Selected post source")

	return Instrument(src)
}

func mask(s string, keep int) string {
	if s == "" {
		return "None"
	}
	if len(s) <= keep {
		return s[:len(s)/2] + "..."
	}
	return s[:keep] + "..."
}
