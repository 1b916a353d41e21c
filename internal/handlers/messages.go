package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hookbridge/hookbridge/internal/message"
)

// messageReader is the read-side of the message store.
type messageReader interface {
	GetByWAMessageID(ctx context.Context, waMessageID string) (message.Message, error)
}

// MessagesHandler exposes stored messages for operational inspection.
type MessagesHandler struct {
	logger *slog.Logger
	store  messageReader
}

func NewMessagesHandler(log *slog.Logger, store messageReader) *MessagesHandler {
	if log == nil {
		log = slog.Default()
	}
	return &MessagesHandler{
		logger: log.With(slog.String("handler", "messages")),
		store:  store,
	}
}

func (h *MessagesHandler) Register(e *echo.Echo) {
	e.GET("/messages/:wa_message_id", h.Get)
}

func (h *MessagesHandler) Get(c echo.Context) error {
	waMessageID := c.Param("wa_message_id")
	msg, err := h.store.GetByWAMessageID(c.Request().Context(), waMessageID)
	if err != nil {
		if errors.Is(err, message.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "message not found")
		}
		h.logger.Error("get message", slog.String("wa_message_id", waMessageID), slog.Any("error", err))
		return echo.NewHTTPError(http.StatusInternalServerError, "lookup failed")
	}
	return c.JSON(http.StatusOK, msg)
}
