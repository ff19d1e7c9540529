package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"FinSight/internal/domain/models"
	"FinSight/internal/usecase"
	xlogger "FinSight/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 45 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// StreamHandler pushes periodic quote refreshes for one instrument over a
// websocket. Quotes go through the same cache-first path as chat turns, so a
// busy stream does not multiply upstream calls.
type StreamHandler struct {
	advisor  *usecase.Advisor
	logger   *xlogger.Logger
	interval time.Duration
}

// NewStreamHandler creates the quote stream handler.
func NewStreamHandler(advisor *usecase.Advisor, logger *xlogger.Logger, interval time.Duration) *StreamHandler {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &StreamHandler{advisor: advisor, logger: logger, interval: interval}
}

// RegisterRoutes implements xhttp.Handler.
func (h *StreamHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws/quotes", h.Quotes)
}

// Quotes upgrades the connection and streams quote snapshots until the client
// disconnects.
func (h *StreamHandler) Quotes(c echo.Context) error {
	symbol := models.CanonicalSymbol(c.QueryParam("symbol"))
	if symbol == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "symbol is required")
	}
	class, err := models.ParseAssetClass(c.QueryParam("class"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	// Reader exists only to notice the close frame.
	go func() {
		defer cancel()
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ins := &models.Instrument{Symbol: symbol, Class: class}
	ticker := time.NewTicker(h.interval)
	pinger := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer pinger.Stop()

	if err := h.push(ctx, conn, ins); err != nil {
		return nil
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-pinger.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return nil
			}
		case <-ticker.C:
			if err := h.push(ctx, conn, ins); err != nil {
				return nil
			}
		}
	}
}

func (h *StreamHandler) push(ctx context.Context, conn *websocket.Conn, ins *models.Instrument) error {
	quote, err := h.advisor.Quote(ctx, ins)
	if err != nil {
		h.logger.Warn("stream quote fetch failed",
			xlogger.String("symbol", ins.Symbol),
			xlogger.Error(err),
		)
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(map[string]string{"symbol": ins.Symbol, "error": "quote unavailable"})
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(quote)
}
