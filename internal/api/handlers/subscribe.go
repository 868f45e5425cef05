package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"swcommons/internal/api/middleware"
	"swcommons/internal/live"
	"swcommons/internal/logging"
	"swcommons/internal/records"
	"swcommons/pkg/models"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// SubscribeHandler upgrades to a websocket and pushes a full snapshot of
// the collection on connect and after every change to it. Streams end when
// the client leaves or base is cancelled.
func SubscribeHandler(base context.Context, hub *live.Hub, lister live.Lister) echo.HandlerFunc {
	return func(c echo.Context) error {
		coll, err := collectionParam(c)
		if err != nil {
			return errorJSON(c, err)
		}
		opts := records.ListOptions{Category: c.QueryParam("category")}

		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			// the upgrader has already written an HTTP error
			return nil
		}
		defer conn.Close()

		logger := logging.LogWithRequestID(middleware.RequestID(c)).WithFields(map[string]interface{}{
			"collection":  string(coll),
			"remote_addr": c.RealIP(),
		})
		logger.Info("Live subscription opened")

		sub := hub.Subscribe(coll)
		defer sub.Close()

		ctx, cancel := context.WithCancel(base)
		defer cancel()
		go readPump(conn, cancel)

		err = pushLoop(ctx, conn, sub, func() models.SnapshotMessage {
			return live.Snapshot(ctx, lister, coll, opts)
		})
		logger.Info("Live subscription closed", map[string]interface{}{
			"reason": closeReason(err),
		})
		return nil
	}
}

// readPump discards client frames and cancels when the peer goes away
func readPump(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()
	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func pushLoop(ctx context.Context, conn *websocket.Conn, sub *live.Subscription, snapshot func() models.SnapshotMessage) error {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	send := func(msg interface{}) error {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(msg)
	}

	if err := send(snapshot()); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return ctx.Err()
		case _, ok := <-sub.Events():
			if !ok {
				return nil
			}
			if err := send(snapshot()); err != nil {
				return err
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		}
	}
}

func closeReason(err error) string {
	if err == nil || errors.Is(err, context.Canceled) {
		return "client disconnected"
	}
	return err.Error()
}
