package store

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swcommons/internal/schema"
	"swcommons/pkg/models"
)

func backends(t *testing.T) map[string]Gateway {
	t.Helper()
	sqlite, err := OpenSQLite(filepath.Join(t.TempDir(), "records.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	return map[string]Gateway{
		"memory": NewMemoryStore(),
		"sqlite": sqlite,
	}
}

func theory(name string) models.Document {
	return models.Document{"name": name, "description": name + " description"}
}

func TestGatewayContract(t *testing.T) {
	ctx := context.Background()

	for name, gw := range backends(t) {
		t.Run(name, func(t *testing.T) {
			t.Run("insert then get", func(t *testing.T) {
				id, err := gw.Insert(ctx, models.Theories, theory("Systems"))
				require.NoError(t, err)
				require.NotEmpty(t, id)

				got, found, err := gw.GetByID(ctx, models.Theories, id)
				require.NoError(t, err)
				require.True(t, found)
				assert.Equal(t, id, got.ID)
				assert.Equal(t, "Systems", got.Fields["name"])
			})

			t.Run("ordering", func(t *testing.T) {
				var ids []string
				for _, title := range []string{"a", "b", "c"} {
					id, err := gw.Insert(ctx, models.Jobs, models.Document{"title": title})
					require.NoError(t, err)
					ids = append(ids, id)
				}

				asc, err := gw.QueryAll(ctx, models.Jobs, OrderInsertion)
				require.NoError(t, err)
				require.Len(t, asc, 3)
				assert.Equal(t, ids, []string{asc[0].ID, asc[1].ID, asc[2].ID})

				desc, err := gw.QueryAll(ctx, models.Jobs, OrderNewestFirst)
				require.NoError(t, err)
				assert.Equal(t, []string{ids[2], ids[1], ids[0]}, []string{desc[0].ID, desc[1].ID, desc[2].ID})
			})

			t.Run("collections are independent", func(t *testing.T) {
				id, err := gw.Insert(ctx, models.Events, models.Document{"title": "x"})
				require.NoError(t, err)

				_, found, err := gw.GetByID(ctx, models.Internships, id)
				require.NoError(t, err)
				assert.False(t, found)

				err = gw.Delete(ctx, models.Internships, id)
				var nf *models.NotFoundError
				assert.ErrorAs(t, err, &nf)
			})

			t.Run("patch sets and removes fields", func(t *testing.T) {
				id, err := gw.Insert(ctx, models.SalaryGuides, models.Document{"role": "SW", "category": "Clinical"})
				require.NoError(t, err)

				require.NoError(t, gw.Patch(ctx, models.SalaryGuides, id, models.Document{"role": "Senior SW", "category": nil}))

				got, _, err := gw.GetByID(ctx, models.SalaryGuides, id)
				require.NoError(t, err)
				assert.Equal(t, "Senior SW", got.Fields["role"])
				assert.NotContains(t, got.Fields, "category")
			})

			t.Run("patch missing id", func(t *testing.T) {
				err := gw.Patch(ctx, models.Theories, "missing", theory("x"))
				var nf *models.NotFoundError
				require.ErrorAs(t, err, &nf)
				assert.Equal(t, "missing", nf.ID)
			})

			t.Run("delete is terminal", func(t *testing.T) {
				id, err := gw.Insert(ctx, models.ForumPosts, models.Document{"title": "bye"})
				require.NoError(t, err)
				require.NoError(t, gw.Delete(ctx, models.ForumPosts, id))

				_, found, err := gw.GetByID(ctx, models.ForumPosts, id)
				require.NoError(t, err)
				assert.False(t, found)

				all, err := gw.QueryAll(ctx, models.ForumPosts, OrderInsertion)
				require.NoError(t, err)
				for _, s := range all {
					assert.NotEqual(t, id, s.ID)
				}

				var nf *models.NotFoundError
				assert.ErrorAs(t, gw.Delete(ctx, models.ForumPosts, id), &nf)
			})

			t.Run("nested lists keep order", func(t *testing.T) {
				regs := []interface{}{
					map[string]interface{}{"name": "A"},
					map[string]interface{}{"name": "B", "url": "https://b.example"},
					map[string]interface{}{"name": "C"},
				}
				id, err := gw.Insert(ctx, models.Countries, models.Document{"name": "X", "region": "Europe", "regulators": regs})
				require.NoError(t, err)

				got, _, err := gw.GetByID(ctx, models.Countries, id)
				require.NoError(t, err)
				list := got.Fields["regulators"].([]interface{})
				require.Len(t, list, 3)
				assert.Equal(t, "A", list[0].(map[string]interface{})["name"])
				assert.Equal(t, "C", list[2].(map[string]interface{})["name"])
			})

			t.Run("empty collection", func(t *testing.T) {
				all, err := gw.QueryAll(ctx, models.Qualifications, OrderInsertion)
				require.NoError(t, err)
				assert.Empty(t, all)
			})
		})
	}
}

func TestMemoryStoreIsolation(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	doc := theory("Ecological")
	id, err := s.Insert(ctx, models.Theories, doc)
	require.NoError(t, err)
	doc["name"] = "mutated by caller"

	got, _, err := s.GetByID(ctx, models.Theories, id)
	require.NoError(t, err)
	got.Fields["name"] = "mutated by reader"

	again, _, err := s.GetByID(ctx, models.Theories, id)
	require.NoError(t, err)
	assert.Equal(t, "Ecological", again.Fields["name"])
}

func TestValidatingGateway(t *testing.T) {
	ctx := context.Background()
	base := NewMemoryStore()
	gw := WithSchema(base, schema.NewRegistry())

	_, err := gw.Insert(ctx, models.LicensureInfos, models.Document{"category": "Exam", "content": "c", "type": "table"})
	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "type", ve.Field)

	all, err := base.QueryAll(ctx, models.LicensureInfos, OrderInsertion)
	require.NoError(t, err)
	assert.Empty(t, all, "rejected insert must not reach the store")

	id, err := gw.Insert(ctx, models.LicensureInfos, models.Document{"category": "Exam", "content": "c", "type": "list"})
	require.NoError(t, err)

	err = gw.Patch(ctx, models.LicensureInfos, id, models.Document{"type": "table"})
	require.ErrorAs(t, err, &ve)

	got, _, err := base.GetByID(ctx, models.LicensureInfos, id)
	require.NoError(t, err)
	assert.Equal(t, "list", got.Fields["type"])
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.ChangeEvent
}

func (p *recordingPublisher) Publish(_ context.Context, e models.ChangeEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func TestNotifyingGateway(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	gw := WithNotifier(NewMemoryStore(), pub)

	id, err := gw.Insert(ctx, models.Theories, theory("Strengths"))
	require.NoError(t, err)
	require.NoError(t, gw.Patch(ctx, models.Theories, id, models.Document{"description": "d"}))
	require.NoError(t, gw.Delete(ctx, models.Theories, id))
	assert.Error(t, gw.Delete(ctx, models.Theories, id))

	require.Len(t, pub.events, 3)
	assert.Equal(t, models.ChangeInsert, pub.events[0].Op)
	assert.Equal(t, models.ChangePatch, pub.events[1].Op)
	assert.Equal(t, models.ChangeDelete, pub.events[2].Op)
	assert.Equal(t, id, pub.events[2].ID)
}
