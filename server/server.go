package server

import (
	"embed"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"creatrends/feeds"
	"creatrends/models"
	"creatrends/prompts"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cache"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"
)

//go:embed dist/*
var dist embed.FS

const (
	DefaultPhotoUrl   = "https://images.unsplash.com/photo-1441986300917-64674bd600d8?w=400&h=600&fit=crop"
	DefaultPlatform   = "Railway"
	photoCacheControl = "public, max-age=3600"
	photoCacheTTL     = time.Hour
)

type ServerConfig struct {

	// Platform name reported by the root endpoint
	Platform string

	// Allowed CORS origins, comma separated
	AllowOrigins string

	// Catalog and channel feed queries
	Feeds *feeds.Service

	// Prompt generation
	Prompts *prompts.Generator

	// Upstream image used by the photo proxy, the seed is appended to it
	PhotoUrl string

	// Timeout for photo proxy requests
	PhotoTimeout time.Duration

	// Client for the photo proxy, a default client is used when nil
	PhotoClient *fasthttp.Client
}

type promptRequest struct {
	FeedItemId string `json:"feed_item_id"`
}

// Returns a fiber.App instance to be used as the HTTP server
func Server(config *ServerConfig) *fiber.App {
	if config.Platform == "" {
		config.Platform = DefaultPlatform
	}
	if config.AllowOrigins == "" {
		config.AllowOrigins = "*"
	}
	if config.PhotoUrl == "" {
		config.PhotoUrl = DefaultPhotoUrl
	}
	if config.PhotoTimeout <= 0 {
		config.PhotoTimeout = 10 * time.Second
	}
	if config.PhotoClient == nil {
		config.PhotoClient = &fasthttp.Client{}
	}

	ui, err := dist.ReadFile("dist/index.html")
	if err != nil {
		log.Panicf("Embedded UI missing: %v", err)
	}

	app := fiber.New(fiber.Config{
		AppName: "Creative Trends MVP",
	})

	// Middleware to track the latency of each request
	app.Use(func(c *fiber.Ctx) error {
		// start timer
		start := time.Now()

		// next routes
		err := c.Next()

		log.WithFields(log.Fields{
			"method":  c.Method(),
			"route":   c.Route().Path,
			"status":  c.Response().StatusCode(),
			"latency": time.Since(start),
		}).Info("Request")
		return err
	})

	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(compress.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: config.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Cache-Control",
	}))

	// Cache successful photo proxy responses
	app.Use(cache.New(cache.Config{
		Next: func(c *fiber.Ctx) bool {
			if c.Method() != fiber.MethodGet {
				return true
			}
			if !strings.HasPrefix(c.Path(), "/photo/") {
				return true
			}
			// Evaluated again after the handler ran, skip storing failures
			status := c.Response().StatusCode()
			return status != fiber.StatusOK
		},
		Expiration: photoCacheTTL,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.Request().URI().String()
		},
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message":  "Creative Trends MVP",
			"status":   "working",
			"platform": config.Platform,
		})
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Get("/feed", func(c *fiber.Ctx) error {
		minViews, err := strconv.ParseInt(c.Query("min_views", strconv.Itoa(feeds.DefaultMinViews)), 10, 64)
		if err != nil {
			return detail(c, fiber.StatusUnprocessableEntity, "min_views must be an integer")
		}
		page, err := strconv.Atoi(c.Query("page", "1"))
		if err != nil {
			return detail(c, fiber.StatusUnprocessableEntity, "page must be an integer")
		}

		result, err := config.Feeds.GetFeed(c.Query("category"), minViews, page)
		if err != nil {
			if errors.Is(err, models.ErrInvalidCategory) || errors.Is(err, feeds.ErrInvalidQuery) {
				return detail(c, fiber.StatusUnprocessableEntity, err.Error())
			}
			log.WithFields(log.Fields{
				"error": err,
			}).Error("Error getting feed")
			return detail(c, fiber.StatusInternalServerError, "Error getting feed")
		}

		return c.JSON(result)
	})

	app.Get("/telegram/channels/:category", func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(feeds.DefaultLimit)))
		if err != nil {
			return detail(c, fiber.StatusUnprocessableEntity, "limit must be an integer")
		}

		result, err := config.Feeds.GetChannelPosts(c.UserContext(), c.Params("category"), limit)
		if err != nil {
			if errors.Is(err, feeds.ErrInvalidQuery) {
				return detail(c, fiber.StatusUnprocessableEntity, err.Error())
			}
			log.WithFields(log.Fields{
				"error": err,
			}).Error("Error getting channel posts")
			return detail(c, fiber.StatusInternalServerError, "Error getting channel posts")
		}

		if result.Error != "" {
			return c.JSON(fiber.Map{
				"error": result.Error,
				"posts": result.Posts,
			})
		}
		return c.JSON(result)
	})

	app.Post("/prompts/generate", func(c *fiber.Ctx) error {
		var req promptRequest
		if err := c.BodyParser(&req); err != nil {
			return detail(c, fiber.StatusUnprocessableEntity, "Invalid request body")
		}

		triple, err := config.Prompts.Generate(req.FeedItemId)
		if err != nil {
			if errors.Is(err, prompts.ErrInvalidFeedItemID) {
				return detail(c, fiber.StatusBadRequest, "Invalid feed_item_id format")
			}
			return detail(c, fiber.StatusInternalServerError, "Error generating prompt")
		}

		return c.JSON(triple)
	})

	app.Post("/creative/generate", creativeHandler)

	app.Get("/photo/:channel/:message_id", photoHandler(config))

	app.Get("/ui", func(c *fiber.Ctx) error {
		c.Type("html", "utf-8")
		return c.Send(ui)
	})

	// Static assets of the control panel
	app.Use("/", filesystem.New(filesystem.Config{
		Browse:     false,
		Root:       http.FS(dist),
		PathPrefix: "/dist",
	}))

	return app
}

func detail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"detail": message,
	})
}
