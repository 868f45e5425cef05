package views

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swcommons/internal/logging"
	"swcommons/internal/logging/adapters"
	"swcommons/internal/logging/types"
	"swcommons/internal/records"
	"swcommons/internal/render"
	"swcommons/internal/schema"
	"swcommons/internal/store"
	"swcommons/pkg/models"
)

func TestMain(m *testing.M) {
	logging.SetGlobalLogger(logging.NewMultiLogger())
	os.Exit(m.Run())
}

type fileResolver struct{}

func (fileResolver) ResolveURL(_ context.Context, storageID string) (string, error) {
	return "https://files.example/" + storageID, nil
}

func newBackend(t *testing.T) *records.Service {
	t.Helper()
	return records.NewService(store.NewMemoryStore(), nil, fileResolver{}, logging.Discard())
}

func entity(t *testing.T, c models.Collection) *schema.EntityDefinition {
	t.Helper()
	def, err := schema.Default().Entity(c)
	require.NoError(t, err)
	return def
}

func create(t *testing.T, b Backend, rec models.Record) models.Ref {
	t.Helper()
	ref, err := b.Create(context.Background(), rec)
	require.NoError(t, err)
	return ref
}

func titles(recs []models.Record) []string {
	out := make([]string, len(recs))
	for i, rec := range recs {
		doc, _ := models.ToDocument(rec)
		for _, key := range []string{"title", "name", "role"} {
			if s, ok := doc[key].(string); ok {
				out[i] = s
				break
			}
		}
	}
	return out
}

func TestAdminFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console", "state.toml")

	flag, err := LoadAdminFlag(path)
	require.NoError(t, err)
	assert.False(t, flag.Enabled())

	require.NoError(t, flag.Set(true))
	assert.True(t, flag.Enabled())

	reloaded, err := LoadAdminFlag(path)
	require.NoError(t, err)
	assert.True(t, reloaded.Enabled())

	on, err := reloaded.Toggle()
	require.NoError(t, err)
	assert.False(t, on)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "admin_mode = false")

	_, err = LoadAdminFlag(" ")
	assert.Error(t, err)
}

func TestListViewFilters(t *testing.T) {
	backend := newBackend(t)
	for _, job := range []*models.Job{
		{Title: "Case Manager", Organization: "City", Location: "Austin, TX", Type: "Full-time", Description: "x", PostedAt: "2024-06-01"},
		{Title: "Youth Worker", Organization: "Shelter", Location: "Dublin", Type: "Part-time", Description: "x", PostedAt: "2024-06-02"},
		{Title: "Hospice Social Worker", Organization: "Care", Location: "Austin, TX", Type: "Full-time", Description: "x", PostedAt: "2024-06-03"},
	} {
		create(t, backend, job)
	}

	view := NewListView(entity(t, models.Jobs), backend, Static(false))
	require.NoError(t, view.Load(context.Background()))

	assert.Equal(t, []string{"Hospice Social Worker", "Youth Worker", "Case Manager"}, titles(view.Visible()))
	assert.Equal(t, []string{"Full-time", "Part-time"}, view.CategoryOptions())

	tests := []struct {
		name     string
		search   string
		category string
		want     []string
	}{
		{name: "empty search shows all", want: []string{"Hospice Social Worker", "Youth Worker", "Case Manager"}},
		{name: "title substring ignores case", search: "WORKER", want: []string{"Hospice Social Worker", "Youth Worker"}},
		{name: "location is searched", search: "austin", want: []string{"Hospice Social Worker", "Case Manager"}},
		{name: "category equality", category: "Part-time", want: []string{"Youth Worker"}},
		{name: "search and category", search: "austin", category: "Full-time", want: []string{"Hospice Social Worker", "Case Manager"}},
		{name: "organization is not searched", search: "Shelter", want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view.SetSearch(tt.search)
			require.NoError(t, view.SetCategory(tt.category))
			assert.Equal(t, tt.want, titles(view.Visible()))
			if len(tt.want) == 0 {
				assert.Equal(t, NoMatches, view.Placeholder())
			} else {
				assert.Empty(t, view.Placeholder())
			}
		})
	}
}

func TestCategoryOptionsFollowData(t *testing.T) {
	backend := newBackend(t)
	view := NewListView(entity(t, models.SalaryGuides), backend, Static(true))
	require.NoError(t, view.Load(context.Background()))
	assert.Empty(t, view.CategoryOptions())
	assert.False(t, view.Searchable())

	create(t, backend, &models.SalaryGuide{Role: "Caseworker", ExperienceLevel: "Mid Level", Range: "$50k"})
	require.NoError(t, view.Load(context.Background()))
	assert.Equal(t, []string{"Mid Level"}, view.CategoryOptions())

	theories := NewListView(entity(t, models.Theories), backend, Static(true))
	assert.Error(t, theories.SetCategory("anything"))
}

func TestForumCategoryQuery(t *testing.T) {
	backend := newBackend(t)
	for i, category := range []string{"General Discussion", "Case Consultation", "General Discussion"} {
		create(t, backend, &models.ForumPost{
			Category: category, Title: []string{"first", "second", "third"}[i], Content: "x", Author: "Sam", PostedAt: "2024-06-01",
		})
	}

	view := NewListView(entity(t, models.ForumPosts), backend, Static(false))
	require.NoError(t, view.SetCategory("General Discussion"))
	assert.Equal(t, "General Discussion", view.ListOptions().Category)
	require.NoError(t, view.Load(context.Background()))

	assert.Equal(t, []string{"third", "first"}, titles(view.Visible()))
	assert.Contains(t, view.CategoryOptions(), "Case Consultation")
}

func TestCountrySearchReachesRegulators(t *testing.T) {
	backend := newBackend(t)
	create(t, backend, &models.Country{Name: "Ireland", Region: "Europe", Regulators: []models.Regulator{{Name: "CORU"}}})
	create(t, backend, &models.Country{Name: "Kenya", Region: "Africa", Regulators: []models.Regulator{}})

	view := NewListView(entity(t, models.Countries), backend, Static(false))
	require.NoError(t, view.Load(context.Background()))

	view.SetSearch("coru")
	assert.Equal(t, []string{"Ireland"}, titles(view.Visible()))
	view.SetSearch("")
	require.NoError(t, view.SetCategory("Africa"))
	assert.Equal(t, []string{"Kenya"}, titles(view.Visible()))
}

func TestEditCancelDiscardsDraft(t *testing.T) {
	ctx := context.Background()
	backend := newBackend(t)
	ref := create(t, backend, &models.Theory{Name: "Systems Theory", Description: "Original"})

	view := NewListView(entity(t, models.Theories), backend, Static(true))
	other := NewListView(entity(t, models.Theories), backend, Static(false))
	require.NoError(t, view.Load(ctx))
	require.NoError(t, other.Load(ctx))

	rec, ok := view.Find(ref.String())
	require.True(t, ok)
	require.NoError(t, view.Edit(rec))
	require.NoError(t, view.Editor().Set("description", "Changed"))
	assert.Equal(t, "Changed", view.Editor().Draft()["description"])

	view.Editor().Cancel()
	assert.False(t, view.Editor().Editing())

	stored, err := backend.Get(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, "Original", stored.(*models.Theory).Description)
	require.NoError(t, other.Load(ctx))
	assert.Equal(t, "Original", other.Visible()[0].(*models.Theory).Description)
}

func TestEditorHoldsOneDraft(t *testing.T) {
	backend := newBackend(t)
	first := create(t, backend, &models.Theory{Name: "Systems", Description: "a"})
	second := create(t, backend, &models.Theory{Name: "Strengths", Description: "b"})

	view := NewListView(entity(t, models.Theories), backend, Static(true))
	require.NoError(t, view.Load(context.Background()))
	a, _ := view.Find(first.String())
	b, _ := view.Find(second.String())

	require.NoError(t, view.Edit(a))
	require.NoError(t, view.Editor().Set("name", "Systems Theory"))
	assert.ErrorIs(t, view.Edit(b), models.ErrEditInProgress)
	assert.Equal(t, first, view.Editor().Target())
	assert.Equal(t, "Systems Theory", view.Editor().Draft()["name"])

	editor := NewEditor(entity(t, models.Theories), backend)
	assert.ErrorIs(t, editor.Set("name", "x"), models.ErrNotEditing)
	assert.ErrorIs(t, editor.Save(context.Background()), models.ErrNotEditing)
}

func TestEditSaveFailureKeepsDraft(t *testing.T) {
	ctx := context.Background()
	backend := newBackend(t)
	ref := create(t, backend, &models.Event{Title: "Webinar", Date: "2024-07-01", Location: "Online", Description: "x", Type: "webinar"})

	view := NewListView(entity(t, models.Events), backend, Static(true))
	require.NoError(t, view.Load(ctx))
	rec, _ := view.Find(ref.String())
	require.NoError(t, view.Edit(rec))
	require.NoError(t, view.Editor().Set("type", "party"))

	err := view.Save(ctx)
	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.True(t, view.Editor().Editing())
	assert.Equal(t, "party", view.Editor().Draft()["type"])

	require.NoError(t, view.Editor().Set("type", "in-person"))
	require.NoError(t, view.Save(ctx))
	assert.False(t, view.Editor().Editing())
	assert.Equal(t, "in-person", view.Visible()[0].(*models.Event).Type)
}

func TestEditRegulators(t *testing.T) {
	ctx := context.Background()
	backend := newBackend(t)
	ref := create(t, backend, &models.Country{Name: "United Kingdom", Region: "Europe", Regulators: []models.Regulator{
		{Name: "A"}, {Name: "B", URL: models.StringPtr("https://b.example")}, {Name: "C"},
	}})

	stored, err := backend.Get(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, regulatorNames(stored))

	editor := NewEditor(entity(t, models.Countries), backend)
	require.NoError(t, editor.Begin(stored))
	require.NoError(t, editor.RemoveEntry("regulators", 1))
	require.NoError(t, editor.AddEntry("regulators"))
	require.NoError(t, editor.SetEntry("regulators", 2, "name", "D"))
	require.NoError(t, editor.SetEntry("regulators", 0, "url", "  "))
	assert.Error(t, editor.SetEntry("regulators", 5, "name", "x"))
	assert.Error(t, editor.SetEntry("regulators", 0, "phone", "x"))
	assert.Error(t, editor.Set("regulators", "x"))

	unchanged, err := backend.Get(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, regulatorNames(unchanged))

	require.NoError(t, editor.Save(ctx))
	updated, err := backend.Get(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C", "D"}, regulatorNames(updated))
	assert.Nil(t, updated.(*models.Country).Regulators[0].URL)

	require.NoError(t, editor.Begin(updated))
	for i := 0; i < 3; i++ {
		require.NoError(t, editor.RemoveEntry("regulators", 0))
	}
	require.NoError(t, editor.Save(ctx))
	emptied, err := backend.Get(ctx, ref)
	require.NoError(t, err)
	assert.Empty(t, regulatorNames(emptied))
}

func regulatorNames(rec models.Record) []string {
	var out []string
	for _, r := range rec.(*models.Country).Regulators {
		out = append(out, r.Name)
	}
	return out
}

func TestMutationsNeedAdmin(t *testing.T) {
	ctx := context.Background()
	backend := newBackend(t)
	ref := create(t, backend, &models.Theory{Name: "Systems", Description: "a"})

	view := NewListView(entity(t, models.Theories), backend, Static(false))
	require.NoError(t, view.Load(ctx))
	rec, _ := view.Find(ref.String())
	assert.False(t, view.CanMutate())
	assert.ErrorIs(t, view.Edit(rec), ErrAdminMode)
	_, err := view.Delete(ctx, ref, nil)
	assert.ErrorIs(t, err, ErrAdminMode)

	admin := NewListView(entity(t, models.Theories), backend, Static(true))
	require.NoError(t, admin.Load(ctx))
	deleted, err := admin.Delete(ctx, ref, func() bool { return false })
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Len(t, admin.Visible(), 1)

	deleted, err = admin.Delete(ctx, ref, nil)
	require.NoError(t, err)
	assert.False(t, deleted)
	_, err = backend.Get(ctx, ref)
	require.NoError(t, err)

	deleted, err = admin.Delete(ctx, ref, func() bool { return true })
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Empty(t, admin.Visible())
}

func TestStaleDeleteReloads(t *testing.T) {
	ctx := context.Background()
	backend := newBackend(t)
	ref := create(t, backend, &models.Theory{Name: "Systems", Description: "a"})

	view := NewListView(entity(t, models.Theories), backend, Static(true))
	require.NoError(t, view.Load(ctx))
	require.NoError(t, backend.Delete(ctx, ref))
	assert.Len(t, view.Visible(), 1)

	_, err := view.Delete(ctx, ref, func() bool { return true })
	var nf *models.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Empty(t, view.Visible())
}

type fakeFiles struct {
	destErr     error
	transferErr error
	received    string
	transfers   int
}

func (f *fakeFiles) GenerateUploadURL(context.Context) (models.UploadDestination, error) {
	if f.destErr != nil {
		return models.UploadDestination{}, f.destErr
	}
	return models.UploadDestination{UploadURL: "http://upload.example/t", StorageID: "obj-1", Method: "PUT"}, nil
}

func (f *fakeFiles) Transfer(_ context.Context, dest models.UploadDestination, _ string, body io.Reader) (string, error) {
	if f.transferErr != nil {
		return "", f.transferErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.received = string(data)
	f.transfers++
	return dest.StorageID, nil
}

func newForm(t *testing.T, backend Backend, files FileStore) *Form {
	t.Helper()
	form := NewForm(schema.Default(), backend, files, Static(true), logging.Discard())
	form.now = func() time.Time { return time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC) }
	return form
}

func TestFormJobDefaults(t *testing.T) {
	ctx := context.Background()
	backend := newBackend(t)
	form := newForm(t, backend, nil)

	require.NoError(t, form.SelectKind("job"))
	assert.Equal(t, "Full-time", form.Value("type"))
	assert.NotContains(t, form.Slots(), "postedAt")
	for slot, value := range map[string]string{
		"title": "Case Manager", "organization": "City Services", "location": "Austin, TX", "description": "...",
	} {
		require.NoError(t, form.Set(slot, value))
	}

	sub, err := form.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/jobs", sub.Redirect)
	assert.Empty(t, form.Value("title"))
	assert.Equal(t, "Full-time", form.Value("type"))

	rec, err := backend.Get(ctx, sub.Ref)
	require.NoError(t, err)
	job := rec.(*models.Job)
	assert.Equal(t, "2024-06-01", job.PostedAt)
	assert.Equal(t, "Full-time", job.Type)
	assert.Nil(t, job.Salary)
}

func TestFormKindSwitch(t *testing.T) {
	form := newForm(t, newBackend(t), nil)
	require.NoError(t, form.SelectKind("job"))
	require.NoError(t, form.Set("title", "Outreach"))
	require.NoError(t, form.Set("organization", "Shelter"))

	require.NoError(t, form.SelectKind("event"))
	assert.Equal(t, "Outreach", form.Value("title"))
	assert.Empty(t, form.Value("organization"))
	assert.Empty(t, form.Value("type"))
	assert.Equal(t, "webinar", form.Value("eventType"))

	var ve *models.ValidationError
	assert.ErrorAs(t, form.Set("organization", "x"), &ve)
	assert.ErrorAs(t, form.SelectKind("nope"), &ve)
}

func TestFormKindSwitchChecksCountry(t *testing.T) {
	form := newForm(t, newBackend(t), nil)
	require.NoError(t, form.SelectKind("job"))
	require.NoError(t, form.Set("title", "Case Manager"))

	require.NoError(t, form.SelectKind("country"))
	assert.Empty(t, form.Value("title"))
	assert.Equal(t, "Europe", form.Value("region"))

	require.NoError(t, form.SelectKind("job"))
	require.NoError(t, form.Set("title", "Kenya"))
	require.NoError(t, form.SelectKind("country"))
	assert.Equal(t, "Kenya", form.Value("title"))
	assert.Equal(t, "Africa", form.Value("region"))
}

func TestFormSlotMapping(t *testing.T) {
	ctx := context.Background()
	backend := newBackend(t)
	form := newForm(t, backend, nil)

	require.NoError(t, form.SelectKind("salary"))
	require.NoError(t, form.Set("title", "Caseworker"))
	require.NoError(t, form.Set("salary", "$40k - $50k"))
	require.NoError(t, form.Set("focus", "Clinical"))
	sub, err := form.Submit(ctx)
	require.NoError(t, err)
	rec, err := backend.Get(ctx, sub.Ref)
	require.NoError(t, err)
	guide := rec.(*models.SalaryGuide)
	assert.Equal(t, "Caseworker", guide.Role)
	assert.Equal(t, "$40k - $50k", guide.Range)
	assert.Equal(t, "Entry Level", guide.ExperienceLevel)
	assert.Equal(t, "Clinical", models.Deref(guide.Category))

	require.NoError(t, form.SelectKind("ethics"))
	require.NoError(t, form.Set("title", "Confidentiality"))
	require.NoError(t, form.Set("description", "Protect client information."))
	sub, err = form.Submit(ctx)
	require.NoError(t, err)
	rec, err = backend.Get(ctx, sub.Ref)
	require.NoError(t, err)
	assert.Equal(t, "General", models.Deref(rec.(*models.EthicsGuideline).Category))
	assert.Equal(t, "/ethics", sub.Redirect)
}

func TestFormCountry(t *testing.T) {
	ctx := context.Background()
	backend := newBackend(t)
	form := newForm(t, backend, nil)

	require.NoError(t, form.SelectKind("country"))
	assert.Equal(t, "Europe", form.Value("region"))
	assert.Len(t, form.Entries(), 1)

	var ve *models.ValidationError
	assert.ErrorAs(t, form.Set("title", "Atlantis"), &ve)
	require.NoError(t, form.Set("title", "Kenya"))
	assert.Equal(t, "Africa", form.Value("region"))

	require.NoError(t, form.RemoveEntry(0))
	assert.Len(t, form.Entries(), 1)
	require.NoError(t, form.SetEntry(0, "name", "KASW"))
	require.NoError(t, form.SetEntry(0, "url", " "))
	require.NoError(t, form.AddEntry())
	require.NoError(t, form.AddEntry())
	require.NoError(t, form.SetEntry(2, "name", "Council"))
	require.NoError(t, form.SetEntry(2, "url", "https://council.example"))
	assert.ErrorAs(t, form.SetEntry(9, "name", "x"), &ve)

	sub, err := form.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/regulated-countries", sub.Redirect)

	rec, err := backend.Get(ctx, sub.Ref)
	require.NoError(t, err)
	country := rec.(*models.Country)
	assert.Equal(t, "Kenya", country.Name)
	assert.Equal(t, "Africa", country.Region)
	assert.Equal(t, []string{"KASW", "Council"}, regulatorNames(country))
	assert.Nil(t, country.Regulators[0].URL)
	assert.Equal(t, "https://council.example", models.Deref(country.Regulators[1].URL))
}

func TestFormUpload(t *testing.T) {
	ctx := context.Background()
	backend := newBackend(t)
	files := &fakeFiles{}
	form := newForm(t, backend, files)

	require.NoError(t, form.SelectKind("research"))
	require.NoError(t, form.Set("title", "Outcomes"))
	require.NoError(t, form.Set("author", "A. Author"))
	require.NoError(t, form.Set("description", "Abstract"))
	require.NoError(t, form.Attach(&Attachment{Name: "paper.pdf", ContentType: "application/pdf", Body: strings.NewReader("pdf")}))

	sub, err := form.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, "pdf", files.received)

	rec, err := backend.Get(ctx, sub.Ref)
	require.NoError(t, err)
	paper := rec.(*models.Research)
	assert.Equal(t, "2024", paper.Year)
	assert.Equal(t, "Research Paper", paper.Type)
	assert.Equal(t, "obj-1", models.Deref(paper.FileStorageID))
	assert.Equal(t, "https://files.example/obj-1", models.Deref(paper.FileURL))

	require.NoError(t, form.SelectKind("theory"))
	var ve *models.ValidationError
	assert.ErrorAs(t, form.Attach(&Attachment{Body: strings.NewReader("x")}), &ve)
}

func TestFormFailedUploadCreatesNothing(t *testing.T) {
	ctx := context.Background()
	backend := newBackend(t)

	for name, files := range map[string]*fakeFiles{
		"transfer":    {transferErr: errors.New("connection reset")},
		"destination": {destErr: errors.New("storage offline")},
	} {
		t.Run(name, func(t *testing.T) {
			form := newForm(t, backend, files)
			require.NoError(t, form.SelectKind("research"))
			require.NoError(t, form.Set("title", "Outcomes"))
			require.NoError(t, form.Set("author", "A. Author"))
			require.NoError(t, form.Set("description", "Abstract"))
			require.NoError(t, form.Attach(&Attachment{ContentType: "application/pdf", Body: strings.NewReader("pdf")}))

			_, err := form.Submit(ctx)
			var te *models.TransferError
			require.ErrorAs(t, err, &te)
			assert.Equal(t, "Outcomes", form.Value("title"))

			list, err := backend.List(ctx, models.ResearchPapers, records.ListOptions{})
			require.NoError(t, err)
			assert.Empty(t, list)
		})
	}
}

func TestFormRejectedSubmissionKeepsValues(t *testing.T) {
	ctx := context.Background()
	backend := newBackend(t)
	files := &fakeFiles{}
	logger := logging.NewMultiLogger()
	mem := adapters.NewMemoryAdapter("test", 0)
	require.NoError(t, logger.AddAdapter(mem))
	form := NewForm(schema.Default(), backend, files, Static(true), logger)

	require.NoError(t, form.SelectKind("reading"))
	require.NoError(t, form.Set("title", "Practice Wisdom"))
	require.NoError(t, form.Attach(&Attachment{ContentType: "application/pdf", Body: strings.NewReader("pdf")}))

	_, err := form.Submit(ctx)
	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Practice Wisdom", form.Value("title"))

	var orphan *types.LogEntry
	for _, entry := range mem.Entries() {
		if entry.Level == types.WarnLevel {
			e := entry
			orphan = &e
		}
	}
	require.NotNil(t, orphan)
	assert.Equal(t, "obj-1", orphan.Fields["storage_id"])

	locked := NewForm(schema.Default(), backend, files, Static(false), logging.Discard())
	_, err = locked.Submit(ctx)
	assert.ErrorIs(t, err, ErrAdminMode)
}

func TestFormResubmitReusesUpload(t *testing.T) {
	ctx := context.Background()
	backend := newBackend(t)
	files := &fakeFiles{}
	form := newForm(t, backend, files)

	require.NoError(t, form.SelectKind("reading"))
	require.NoError(t, form.Set("title", "Practice Wisdom"))
	require.NoError(t, form.Attach(&Attachment{ContentType: "application/pdf", Body: strings.NewReader("pdf-bytes")}))

	_, err := form.Submit(ctx)
	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "pdf-bytes", files.received)

	require.NoError(t, form.Set("author", "D. Okafor"))
	require.NoError(t, form.Set("year", "2021"))
	require.NoError(t, form.Set("description", "Reflective practice"))
	sub, err := form.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, files.transfers)
	assert.Equal(t, "pdf-bytes", files.received)

	rec, err := backend.Get(ctx, sub.Ref)
	require.NoError(t, err)
	assert.Equal(t, "obj-1", models.Deref(rec.(*models.Reading).FileStorageID))

	require.NoError(t, form.SelectKind("reading"))
	require.NoError(t, form.Set("title", "Second Book"))
	require.NoError(t, form.Attach(&Attachment{ContentType: "application/pdf", Body: strings.NewReader("other")}))
	_, err = form.Submit(ctx)
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, 2, files.transfers)
	assert.Equal(t, "other", files.received)
}

func TestDetailView(t *testing.T) {
	ctx := context.Background()
	backend := newBackend(t)
	def := entity(t, models.ResearchPapers)

	missing, err := NewDetailView(def, backend, "https://swcommons.example/", "gone")
	require.NoError(t, err)
	assert.Equal(t, DetailLoading, missing.State())
	require.NoError(t, missing.Load(ctx))
	assert.Equal(t, DetailNotFound, missing.State())
	assert.Equal(t, "/research", missing.ReturnRoute())

	ref := create(t, backend, &models.Research{Title: "Outcomes", Author: "A", Year: "2023", Type: "Policy Brief", Description: "x"})
	found, err := NewDetailView(def, backend, "https://swcommons.example/", ref.String())
	require.NoError(t, err)
	require.NoError(t, found.Load(ctx))
	assert.Equal(t, DetailFound, found.State())
	_, ok := found.DownloadURL()
	assert.False(t, ok)
	assert.Equal(t, FileUnavailable, found.FileStatus())
	assert.Equal(t, "https://swcommons.example/research/"+ref.String(), found.CanonicalURL())

	link, err := found.Share(nil)
	require.NoError(t, err)
	assert.Equal(t, found.CanonicalURL(), link)

	withFile := create(t, backend, &models.Reading{Title: "Book", Author: "B", Year: "2020", Description: "x", FileStorageID: models.StringPtr("obj-9")})
	reading, err := NewDetailView(entity(t, models.Readings), backend, "https://swcommons.example", withFile.String())
	require.NoError(t, err)
	require.NoError(t, reading.Load(ctx))
	assert.Equal(t, "https://files.example/obj-9", reading.FileStatus())

	_, err = NewDetailView(entity(t, models.Theories), backend, "", "x")
	assert.Error(t, err)
}

type sharer struct {
	err   error
	title *string
}

func (s sharer) Share(title, _, _ string) error {
	if s.title != nil {
		*s.title = title
	}
	return s.err
}

func TestShareBlogPost(t *testing.T) {
	def := entity(t, models.BlogPosts)
	post := &models.BlogPost{Title: "Burnout & Care", Excerpt: "Looking **after** ourselves", Content: "x", Date: "2024-06-01"}

	shared, err := ShareBlogPost(nil, "https://swcommons.example", def, post)
	require.NoError(t, err)
	assert.Equal(t, ShareMailto, shared.Method)
	assert.True(t, strings.HasPrefix(shared.Link, "mailto:?subject=Social%20Work%20Files%3A%20Burnout%20%26%20Care&body=Looking%20after%20ourselves%0A%0ARead%20more%20at%3A%20https%3A%2F%2Fswcommons.example%2Fblog%23"))

	shared, err = ShareBlogPost(sharer{err: ErrShareUnsupported}, "https://swcommons.example", def, post)
	require.NoError(t, err)
	assert.Equal(t, ShareMailto, shared.Method)

	var title string
	shared, err = ShareBlogPost(sharer{title: &title}, "https://swcommons.example", def, post)
	require.NoError(t, err)
	assert.Equal(t, ShareNative, shared.Method)
	assert.Equal(t, "Social Work Files: Burnout & Care", title)
	assert.Equal(t, "https://swcommons.example/blog#"+render.Slug(post.Title), shared.Link)

	_, err = ShareBlogPost(sharer{err: errors.New("dismissed")}, "https://swcommons.example", def, post)
	assert.Error(t, err)
}
