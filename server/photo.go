package server

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"
)

var (
	photoRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "creatrends_photo_proxy_requests_total",
		Help: "Photo proxy requests by result",
	}, []string{"result"})

	photoUpstreamLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "creatrends_photo_proxy_upstream_seconds",
		Help:    "Latency of upstream photo fetches",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 10), // Start at 10ms, double each bucket
	})
)

// photoUrl appends the seed for a channel message to the upstream image url
func photoUrl(base string, channel string, messageId int) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("failed to parse photo url: %w", err)
	}
	q := u.Query()
	q.Set("seed", fmt.Sprintf("%s_%d", channel, messageId))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func photoHandler(config *ServerConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		channel := c.Params("channel")
		messageId, err := strconv.Atoi(c.Params("message_id"))
		if err != nil {
			return detail(c, fiber.StatusUnprocessableEntity, "message_id must be an integer")
		}

		target, err := photoUrl(config.PhotoUrl, channel, messageId)
		if err != nil {
			photoRequests.WithLabelValues("error").Inc()
			log.WithFields(log.Fields{
				"error": err,
			}).Error("Error getting demo photo")
			return detail(c, fiber.StatusInternalServerError, "Error getting demo photo: "+err.Error())
		}

		req := fasthttp.AcquireRequest()
		defer fasthttp.ReleaseRequest(req)
		resp := fasthttp.AcquireResponse()
		defer fasthttp.ReleaseResponse(resp)

		req.SetRequestURI(target)
		req.Header.SetMethod(fasthttp.MethodGet)

		timer := prometheus.NewTimer(photoUpstreamLatency)
		err = config.PhotoClient.DoTimeout(req, resp, config.PhotoTimeout)
		timer.ObserveDuration()

		if err != nil {
			photoRequests.WithLabelValues("error").Inc()
			log.WithFields(log.Fields{
				"channel":    channel,
				"message_id": messageId,
				"error":      err,
			}).Error("Error getting demo photo")
			return detail(c, fiber.StatusInternalServerError, "Error getting demo photo: "+err.Error())
		}

		if resp.StatusCode() != fasthttp.StatusOK {
			photoRequests.WithLabelValues("not_found").Inc()
			log.WithFields(log.Fields{
				"channel":    channel,
				"message_id": messageId,
				"status":     resp.StatusCode(),
			}).Warn("Upstream photo not found")
			return detail(c, fiber.StatusNotFound, "Demo photo not found")
		}

		contentType := string(resp.Header.ContentType())
		if contentType == "" {
			contentType = "image/jpeg"
		}

		photoRequests.WithLabelValues("ok").Inc()
		c.Set(fiber.HeaderContentType, contentType)
		c.Set(fiber.HeaderCacheControl, photoCacheControl)

		// The response buffer is released on return
		return c.Status(fiber.StatusOK).Send(append([]byte(nil), resp.Body()...))
	}
}
