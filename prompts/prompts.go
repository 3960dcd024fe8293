// Package prompts builds image generation prompts for feed items
package prompts

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"creatrends/catalog"
	"creatrends/models"

	log "github.com/sirupsen/logrus"
)

const (
	readyTemplate  = "Minimalist %s product in clean studio, soft lighting, editorial style"
	promptTemplate = "Minimalist {product.class} in {product.color} {material}, clean backdrop, soft daylight, editorial style"
	negativePrompt = "blurry, low quality, distorted, text, watermark"

	// Views assigned to items synthesized from an id
	placeholderViews = 10000
)

var ErrInvalidFeedItemID = errors.New("invalid feed_item_id format")

type Generator struct {
	store *catalog.Store
}

func NewGenerator(store *catalog.Store) *Generator {
	return &Generator{store: store}
}

// Generate returns the prompt triple for a catalog item or channel post id
func (g *Generator) Generate(feedItemID string) (*models.PromptTriple, error) {
	item, err := g.resolve(feedItemID)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"id":       feedItemID,
		"category": item.Category,
	}).Info("Generate prompt")

	return ForItem(item), nil
}

// ForItem only depends on the item category
func ForItem(item models.FeedItem) *models.PromptTriple {
	return &models.PromptTriple{
		PromptReady:    fmt.Sprintf(readyTemplate, item.Category),
		PromptTemplate: promptTemplate,
		NegativePrompt: negativePrompt,
	}
}

func (g *Generator) resolve(feedItemID string) (models.FeedItem, error) {
	if item, ok := g.store.Lookup(feedItemID); ok {
		return item, nil
	}

	channel, messageID, err := ParseFeedItemID(feedItemID)
	if err != nil {
		return models.FeedItem{}, err
	}

	category := g.store.CategoryOf(channel)
	item := catalog.NewItem(category, channel, messageID, placeholderViews, g.store.Epoch())
	item.Title = fmt.Sprintf("Post from %s", channel)
	item.ShortDesc = fmt.Sprintf("Content from %s message %d", channel, messageID)
	item.MediaUrl = fmt.Sprintf("https://picsum.photos/seed/%s-%d/640/854", channel, messageID)
	item.PostUrl = fmt.Sprintf("https://t.me/%s/%d", channel, messageID)

	return item, nil
}

// ParseFeedItemID splits "channel_demo_N" or "channel_N" into channel and
// message id. The channel itself may contain underscores.
func ParseFeedItemID(id string) (string, int, error) {
	sep := strings.LastIndex(id, "_")
	if sep <= 0 {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidFeedItemID, id)
	}

	messageID, err := strconv.Atoi(id[sep+1:])
	if err != nil || messageID < 0 {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidFeedItemID, id)
	}

	channel := id[:sep]
	if trimmed, ok := strings.CutSuffix(channel, "_demo"); ok && trimmed != "" {
		channel = trimmed
	}

	return channel, messageID, nil
}
