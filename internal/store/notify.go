package store

import (
	"context"
	"time"

	"swcommons/pkg/models"
)

// Publisher receives a change event after every successful mutation
type Publisher interface {
	Publish(ctx context.Context, event models.ChangeEvent)
}

// Notifying publishes change events for the wrapped gateway
type Notifying struct {
	Gateway
	publisher Publisher
}

// WithNotifier wraps g so mutations are announced to p
func WithNotifier(g Gateway, p Publisher) *Notifying {
	return &Notifying{Gateway: g, publisher: p}
}

func (n *Notifying) Insert(ctx context.Context, c models.Collection, doc models.Document) (string, error) {
	id, err := n.Gateway.Insert(ctx, c, doc)
	if err == nil {
		n.announce(ctx, c, models.ChangeInsert, id)
	}
	return id, err
}

func (n *Notifying) Patch(ctx context.Context, c models.Collection, id string, fields models.Document) error {
	err := n.Gateway.Patch(ctx, c, id, fields)
	if err == nil {
		n.announce(ctx, c, models.ChangePatch, id)
	}
	return err
}

func (n *Notifying) Delete(ctx context.Context, c models.Collection, id string) error {
	err := n.Gateway.Delete(ctx, c, id)
	if err == nil {
		n.announce(ctx, c, models.ChangeDelete, id)
	}
	return err
}

func (n *Notifying) announce(ctx context.Context, c models.Collection, op models.ChangeOp, id string) {
	n.publisher.Publish(ctx, models.ChangeEvent{Collection: c, Op: op, ID: id, At: time.Now()})
}
