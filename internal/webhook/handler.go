package webhook

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

const maxBodyBytes int64 = 1 << 20 // 1 MiB

// ingestQueue accepts extracted raw messages for background processing.
type ingestQueue interface {
	Enqueue(raw json.RawMessage)
}

// Handler serves the public webhook endpoint: Meta's verification
// handshake on GET and event deliveries on POST.
type Handler struct {
	logger      *slog.Logger
	verifyToken string
	ingest      ingestQueue
}

func NewHandler(log *slog.Logger, verifyToken string, ingest ingestQueue) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		logger:      log.With(slog.String("handler", "webhook")),
		verifyToken: verifyToken,
		ingest:      ingest,
	}
}

// Register registers the webhook routes.
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/webhook", h.HandleVerify)
	e.POST("/webhook", h.HandleEvent)
}

// HandleVerify answers the webhook subscription handshake: echo the
// challenge when the mode is "subscribe" and the token matches, otherwise
// 403 with no body.
func (h *Handler) HandleVerify(c echo.Context) error {
	mode := c.QueryParam("hub.mode")
	token := c.QueryParam("hub.verify_token")
	challenge := c.QueryParam("hub.challenge")

	if mode == "subscribe" && h.verifyToken != "" && token == h.verifyToken {
		h.logger.Info("webhook verified")
		return c.String(http.StatusOK, challenge)
	}
	h.logger.Warn("webhook verification rejected", slog.String("mode", mode))
	return c.NoContent(http.StatusForbidden)
}

// HandleEvent acknowledges one webhook delivery. The ack depends only on
// receiving the body and deciding extraction; pipeline outcomes never
// change the response status, because the provider retries on non-2xx and
// every retry is a duplicate delivery.
func (h *Handler) HandleEvent(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxBodyBytes+1))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("read body: %v", err))
	}
	if int64(len(body)) > maxBodyBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, fmt.Sprintf("payload too large: max %d bytes", maxBodyBytes))
	}

	raw, ok := ExtractMessage(body)
	if !ok {
		// Status callbacks and malformed envelopes are expected traffic;
		// acknowledge so the provider does not redeliver them.
		h.logger.Debug("no message in webhook payload")
		return c.NoContent(http.StatusOK)
	}

	h.ingest.Enqueue(raw)
	return c.NoContent(http.StatusOK)
}
