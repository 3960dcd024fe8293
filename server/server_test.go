package server_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"creatrends/catalog"
	"creatrends/config"
	"creatrends/feeds"
	"creatrends/models"
	"creatrends/prompts"
	"creatrends/server"
	"creatrends/telegram"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jpeg = []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 'J', 'F', 'I', 'F'}

func setupTestApp(photoUrl string) *fiber.App {
	epoch := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store := catalog.New(config.DefaultChannels(), catalog.OptionsFromConfig(config.Default(), epoch))
	source := telegram.NewDemoSource(func() time.Time { return epoch })

	return server.Server(&server.ServerConfig{
		Feeds:        feeds.NewService(store, source, time.Second),
		Prompts:      prompts.NewGenerator(store),
		PhotoUrl:     photoUrl,
		PhotoTimeout: time.Second,
	})
}

func do(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestHealth(t *testing.T) {
	app := setupTestApp("")

	resp, body := do(t, app, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &response))
	assert.Equal(t, "healthy", response["status"])
	assert.NotEmpty(t, response["timestamp"])
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))
}

func TestRoot(t *testing.T) {
	app := setupTestApp("")

	_, body := do(t, app, httptest.NewRequest(http.MethodGet, "/", nil))

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &response))
	assert.Equal(t, "working", response["status"])
	assert.Equal(t, "Railway", response["platform"])
}

func TestFeed(t *testing.T) {
	app := setupTestApp("")

	resp, body := do(t, app, httptest.NewRequest(http.MethodGet, "/feed?category=fashion&page=2", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var page models.FeedPage
	require.NoError(t, json.Unmarshal(body, &page))
	assert.Equal(t, 40, page.Total)
	assert.Len(t, page.Items, feeds.PageSize)
	for _, item := range page.Items {
		assert.Equal(t, models.Fashion, item.Category)
	}
}

func TestFeedPagePastEnd(t *testing.T) {
	app := setupTestApp("")

	resp, body := do(t, app, httptest.NewRequest(http.MethodGet, "/feed?category=home&page=4611686018427387904", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"items": [], "total": 16}`, string(body))
}

func TestFeedValidation(t *testing.T) {
	app := setupTestApp("")

	tests := []struct {
		name string
		url  string
	}{
		{name: "missing category", url: "/feed"},
		{name: "unknown category", url: "/feed?category=cars"},
		{name: "bad min views", url: "/feed?category=home&min_views=lots"},
		{name: "negative min views", url: "/feed?category=home&min_views=-5"},
		{name: "bad page", url: "/feed?category=home&page=first"},
		{name: "zero page", url: "/feed?category=home&page=0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, app, httptest.NewRequest(http.MethodGet, tt.url, nil))
			assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
			assert.Contains(t, string(body), "detail")
		})
	}
}

func TestChannelPosts(t *testing.T) {
	app := setupTestApp("")

	resp, body := do(t, app, httptest.NewRequest(http.MethodGet, "/telegram/channels/beauty?limit=10", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result models.ChannelPosts
	require.NoError(t, json.Unmarshal(body, &result))
	assert.Equal(t, models.Beauty, result.Category)
	assert.Equal(t, 10, result.Total)
	assert.Len(t, result.Posts, 10)
}

func TestChannelPostsInvalidCategory(t *testing.T) {
	app := setupTestApp("")

	resp, body := do(t, app, httptest.NewRequest(http.MethodGet, "/telegram/channels/nonexistent", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"error": "Invalid category", "posts": []}`, string(body))
}

func TestChannelPostsInvalidLimit(t *testing.T) {
	app := setupTestApp("")

	resp, _ := do(t, app, httptest.NewRequest(http.MethodGet, "/telegram/channels/home?limit=none", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = do(t, app, httptest.NewRequest(http.MethodGet, "/telegram/channels/home?limit=0", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestGeneratePrompt(t *testing.T) {
	app := setupTestApp("")

	req := httptest.NewRequest(http.MethodPost, "/prompts/generate", strings.NewReader(`{"feed_item_id": "casacozy_demo_2"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, body := do(t, app, req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var triple models.PromptTriple
	require.NoError(t, json.Unmarshal(body, &triple))
	assert.Equal(t, "Minimalist home product in clean studio, soft lighting, editorial style", triple.PromptReady)
	assert.Contains(t, triple.PromptTemplate, "{product.class}")
	assert.Equal(t, "blurry, low quality, distorted, text, watermark", triple.NegativePrompt)
}

func TestGeneratePromptInvalidID(t *testing.T) {
	app := setupTestApp("")

	req := httptest.NewRequest(http.MethodPost, "/prompts/generate", strings.NewReader(`{"feed_item_id": "onlyonepart"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, body := do(t, app, req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"detail": "Invalid feed_item_id format"}`, string(body))
}

func TestGeneratePromptInvalidBody(t *testing.T) {
	app := setupTestApp("")

	req := httptest.NewRequest(http.MethodPost, "/prompts/generate", strings.NewReader(`{`))
	req.Header.Set("Content-Type", "application/json")

	resp, _ := do(t, app, req)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestCreativeGenerate(t *testing.T) {
	app := setupTestApp("")

	resp, body := do(t, app, httptest.NewRequest(http.MethodPost, "/creative/generate?prompt=red+dress", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result models.CreativeResult
	require.NoError(t, json.Unmarshal(body, &result))
	assert.Equal(t, int64(12345), result.Seed)
	assert.Equal(t, "demo", result.Provider)
	assert.NotEmpty(t, result.Id)
	require.Len(t, result.Variants, 3)
	assert.Equal(t, "https://picsum.photos/seed/demo1/768/1024", result.Variants[0].Url)
	assert.Equal(t, "https://picsum.photos/seed/demo3/768/1024", result.Variants[2].Url)
}

func TestPhotoProxy(t *testing.T) {
	var hits atomic.Int32
	var seed atomic.Value
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		seed.Store(r.URL.Query().Get("seed"))
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(jpeg)
	}))
	defer upstream.Close()

	app := setupTestApp(upstream.URL + "/photo.jpg?w=400&h=600")

	resp, body := do(t, app, httptest.NewRequest(http.MethodGet, "/photo/rogov24/7", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, bytes.Equal(jpeg, body))
	assert.Equal(t, "image/jpeg", resp.Header.Get(fiber.HeaderContentType))
	assert.Equal(t, "public, max-age=3600", resp.Header.Get(fiber.HeaderCacheControl))
	assert.Equal(t, "rogov24_7", seed.Load())

	// Served from cache the second time
	resp, body = do(t, app, httptest.NewRequest(http.MethodGet, "/photo/rogov24/7", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, bytes.Equal(jpeg, body))
	assert.Equal(t, int32(1), hits.Load())
}

func TestPhotoProxyUpstreamNotFound(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer upstream.Close()

	app := setupTestApp(upstream.URL)

	resp, body := do(t, app, httptest.NewRequest(http.MethodGet, "/photo/rogov24/7", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"detail": "Demo photo not found"}`, string(body))
}

func TestPhotoProxyUpstreamDown(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := upstream.URL
	upstream.Close()

	app := setupTestApp(url)

	resp, _ := do(t, app, httptest.NewRequest(http.MethodGet, "/photo/rogov24/7", nil))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestPhotoProxyInvalidMessageID(t *testing.T) {
	app := setupTestApp("")

	resp, _ := do(t, app, httptest.NewRequest(http.MethodGet, "/photo/rogov24/latest", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestUI(t *testing.T) {
	app := setupTestApp("")

	resp, body := do(t, app, httptest.NewRequest(http.MethodGet, "/ui", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "text/html")
	assert.Contains(t, string(body), "Creative Trends MVP")
	assert.Contains(t, string(body), "/app.css")

	resp, body = do(t, app, httptest.NewRequest(http.MethodGet, "/app.css", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "text/css")
	assert.Contains(t, string(body), ".card")
}

func TestMetrics(t *testing.T) {
	app := setupTestApp("")

	resp, body := do(t, app, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "go_goroutines")
}
