package handler

import (
	"capsule-labeling-be/internal/pkg/logger"
	"capsule-labeling-be/internal/pkg/serverutils"
	internalWS "capsule-labeling-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// FeedHandler streams labeling events (sessions, discoveries, commits) to
// dashboards over a websocket.
type FeedHandler struct {
	hub    *internalWS.Hub
	logger logger.ILogger
}

func NewFeedHandler(hub *internalWS.Hub, log logger.ILogger) *FeedHandler {
	return &FeedHandler{
		hub:    hub,
		logger: log,
	}
}

func (h *FeedHandler) RegisterRoutes(r fiber.Router, middleware ...fiber.Handler) {
	feed := r.Group("/labeling/v1/feed", middleware...)
	feed.Get("/", h.ServeWs)
}

// ServeWs upgrades the request and keeps the connection registered with the
// hub until the peer disconnects.
func (h *FeedHandler) ServeWs(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	annotator := serverutils.UserID(c, "anonymous")

	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("FeedHandler", "Starting feed session", map[string]interface{}{"annotator": annotator})
		internalWS.ServeWs(h.hub, conn, annotator)
		h.logger.Info("FeedHandler", "Feed session ended", map[string]interface{}{"annotator": annotator})
	})(c)
}
