package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"swcommons/internal/records"
	"swcommons/pkg/models"
)

const pongWait = 60 * time.Second

// Snapshot is one pushed state of a collection
type Snapshot struct {
	Collection models.Collection
	Records    []models.Record
	At         time.Time
	// Err is set when the server could not produce the snapshot
	Err error
}

// Subscribe opens a live subscription. The returned channel yields a full
// snapshot on connect and after every change to the collection, and is
// closed when ctx ends or the connection drops.
func (c *Client) Subscribe(ctx context.Context, coll models.Collection, opts records.ListOptions) (<-chan Snapshot, error) {
	endpoint, err := c.subscribeURL(coll, opts)
	if err != nil {
		return nil, &models.UnknownError{Op: "subscribe " + string(coll), Err: err}
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusBadRequest {
			return nil, &models.ValidationError{Collection: coll, Reason: "is not a known collection"}
		}
		return nil, &models.UnknownError{Op: "subscribe " + string(coll), Err: err}
	}
	c.logger.Debug("Live subscription opened", map[string]interface{}{"collection": string(coll)})

	out := make(chan Snapshot, 1)
	go func() {
		<-ctx.Done()
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		conn.Close()
	}()
	go c.readSnapshots(ctx, conn, coll, out)
	return out, nil
}

func (c *Client) readSnapshots(ctx context.Context, conn *websocket.Conn, coll models.Collection, out chan<- Snapshot) {
	defer close(out)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPingHandler(func(data string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(time.Second))
	})

	for {
		var msg models.SnapshotMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() == nil {
				c.logger.Debug("Live subscription ended", map[string]interface{}{
					"collection": string(coll),
					"error":      err.Error(),
				})
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(pongWait))

		snap := decodeSnapshot(msg)
		select {
		case out <- snap:
		case <-ctx.Done():
			return
		}
	}
}

func decodeSnapshot(msg models.SnapshotMessage) Snapshot {
	snap := Snapshot{Collection: msg.Collection, At: msg.At}
	if msg.Type == "error" {
		snap.Err = &models.UnknownError{Op: "snapshot " + string(msg.Collection), Err: fmt.Errorf("%s", msg.Error)}
		return snap
	}
	recs, err := decodeItems(msg.Collection, msg.Items)
	if err != nil {
		snap.Err = err
		return snap
	}
	snap.Records = recs
	return snap
}

func (c *Client) subscribeURL(coll models.Collection, opts records.ListOptions) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	switch strings.ToLower(u.Scheme) {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/api/v1/subscribe/" + url.PathEscape(string(coll))
	q := url.Values{}
	if opts.Category != "" {
		q.Set("category", opts.Category)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
