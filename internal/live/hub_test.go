package live

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swcommons/internal/logging"
	"swcommons/internal/records"
	"swcommons/internal/store"
	"swcommons/pkg/models"
)

type recordingForwarder struct {
	events []models.ChangeEvent
	err    error
}

func (f *recordingForwarder) Forward(_ context.Context, event models.ChangeEvent) error {
	f.events = append(f.events, event)
	return f.err
}

func receive(t *testing.T, sub *Subscription) models.ChangeEvent {
	t.Helper()
	select {
	case ev := <-sub.Events():
		return ev
	case <-time.After(time.Second):
		t.Fatal("no change event received")
	}
	return models.ChangeEvent{}
}

func TestHubDelivery(t *testing.T) {
	hub := NewHub(logging.Discard())
	jobs := hub.Subscribe(models.Jobs)
	defer jobs.Close()
	events := hub.Subscribe(models.Events)
	defer events.Close()

	hub.Publish(context.Background(), models.ChangeEvent{Collection: models.Jobs, Op: models.ChangeInsert, ID: "1"})

	ev := receive(t, jobs)
	assert.Equal(t, "1", ev.ID)
	assert.Equal(t, hub.Origin(), ev.Origin)

	select {
	case <-events.Events():
		t.Fatal("events subscriber notified of a jobs change")
	default:
	}
}

func TestHubCoalesces(t *testing.T) {
	hub := NewHub(logging.Discard())
	sub := hub.Subscribe(models.Theories)
	defer sub.Close()

	for i := 0; i < 5; i++ {
		hub.Publish(context.Background(), models.ChangeEvent{Collection: models.Theories, Op: models.ChangePatch})
	}
	receive(t, sub)

	select {
	case <-sub.Events():
		t.Fatal("burst was not coalesced")
	default:
	}
}

func TestSubscriptionClose(t *testing.T) {
	hub := NewHub(logging.Discard())
	sub := hub.Subscribe(models.Jobs)
	require.Equal(t, 1, hub.Subscribers(models.Jobs))

	sub.Close()
	sub.Close()
	assert.Zero(t, hub.Subscribers(models.Jobs))

	_, open := <-sub.Events()
	assert.False(t, open)

	hub.Publish(context.Background(), models.ChangeEvent{Collection: models.Jobs})
}

func TestHubForwarding(t *testing.T) {
	hub := NewHub(logging.Discard())
	fwd := &recordingForwarder{}
	hub.SetForwarder(fwd)

	hub.Publish(context.Background(), models.ChangeEvent{Collection: models.Jobs, ID: "local"})
	hub.Publish(context.Background(), models.ChangeEvent{Collection: models.Jobs, ID: "remote", Origin: "other"})
	require.Len(t, fwd.events, 1)
	assert.Equal(t, "local", fwd.events[0].ID)

	fwd.err = errors.New("redis down")
	assert.NotPanics(t, func() {
		hub.Publish(context.Background(), models.ChangeEvent{Collection: models.Jobs, ID: "again"})
	})
}

func TestRedisBridgeHandle(t *testing.T) {
	hub := NewHub(logging.Discard())
	bridge := &RedisBridge{channel: "test", hub: hub, logger: logging.Discard()}
	sub := hub.Subscribe(models.ForumPosts)
	defer sub.Close()

	own, err := json.Marshal(models.ChangeEvent{Collection: models.ForumPosts, ID: "mine", Origin: hub.Origin()})
	require.NoError(t, err)
	bridge.handle(string(own))
	bridge.handle("not json")

	select {
	case <-sub.Events():
		t.Fatal("own or malformed event was delivered")
	default:
	}

	remote, err := json.Marshal(models.ChangeEvent{Collection: models.ForumPosts, ID: "theirs", Origin: "peer"})
	require.NoError(t, err)
	bridge.handle(string(remote))
	assert.Equal(t, "theirs", receive(t, sub).ID)
}

func TestSnapshotFollowsStore(t *testing.T) {
	ctx := context.Background()
	hub := NewHub(logging.Discard())
	svc := records.NewService(store.WithNotifier(store.NewMemoryStore(), hub), nil, nil, logging.Discard())

	sub := hub.Subscribe(models.Theories)
	defer sub.Close()

	first := Snapshot(ctx, svc, models.Theories, records.ListOptions{})
	assert.Equal(t, "snapshot", first.Type)
	assert.Empty(t, first.Items)

	_, err := svc.CreateTheory(ctx, models.Theory{Name: "Systems Theory", Description: "Systems"})
	require.NoError(t, err)
	assert.Equal(t, models.ChangeInsert, receive(t, sub).Op)

	next := Snapshot(ctx, svc, models.Theories, records.ListOptions{})
	require.Len(t, next.Items, 1)
	assert.Contains(t, string(next.Items[0]), "Systems Theory")

	failed := Snapshot(ctx, svc, models.Theories, records.ListOptions{Category: "nope"})
	assert.Equal(t, "error", failed.Type)
	assert.NotEmpty(t, failed.Error)
}
