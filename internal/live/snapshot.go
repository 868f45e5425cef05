package live

import (
	"context"
	"encoding/json"
	"time"

	"swcommons/internal/records"
	"swcommons/pkg/models"
)

// Lister produces the current contents of a collection
type Lister interface {
	List(ctx context.Context, c models.Collection, opts records.ListOptions) ([]models.Record, error)
}

// Snapshot builds the full-state message pushed to live subscribers.
// Query failures become an error message rather than a closed stream.
func Snapshot(ctx context.Context, l Lister, c models.Collection, opts records.ListOptions) models.SnapshotMessage {
	msg := models.SnapshotMessage{Type: "snapshot", Collection: c, At: time.Now()}
	recs, err := l.List(ctx, c, opts)
	if err == nil {
		msg.Items, err = EncodeRecords(recs)
	}
	if err != nil {
		msg.Type, msg.Error = "error", err.Error()
		msg.Items = nil
		return msg
	}
	return msg
}

// EncodeRecords marshals each record for a list or snapshot envelope
func EncodeRecords(recs []models.Record) ([]json.RawMessage, error) {
	items := make([]json.RawMessage, 0, len(recs))
	for _, rec := range recs {
		data, err := json.Marshal(rec)
		if err != nil {
			return nil, err
		}
		items = append(items, data)
	}
	return items, nil
}
