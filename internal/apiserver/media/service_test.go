package media

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedding-planner/internal/apiserver/httpx/httpxtest"
	"wedding-planner/internal/shared/apperr"
	"wedding-planner/internal/shared/assets"
	"wedding-planner/internal/shared/model"
	"wedding-planner/internal/shared/storage/memstore"
)

type fixture struct {
	store *memstore.Store
	disk  *assets.Disk
	svc   *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	disk, err := assets.NewDisk(t.TempDir())
	require.NoError(t, err)
	store := memstore.New()

	svc := NewService(store, assets.NewCleaner(disk))
	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return &fixture{store: store, disk: disk, svc: svc}
}

func (f *fixture) element(t *testing.T) *model.Element {
	t.Helper()
	e := &model.Element{ID: model.NewID(), Name: "Hall", Image: "/uploads/hall.png", CategoryID: model.NewID(), CreatedAt: time.Now()}
	require.NoError(t, f.store.CreateElement(context.Background(), e))
	return e
}

func (f *fixture) mediaFiles(t *testing.T) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(f.disk.Root(), assets.MediaDir))
	require.NoError(t, err)
	return entries
}

func clip(name string) *assets.Upload {
	return &assets.Upload{Name: name, Size: 5, ContentType: "video/mp4", Body: strings.NewReader("video")}
}

func TestUpload(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e := f.element(t)

	m, err := f.svc.Upload(ctx, e.ID, "video", clip("first dance.mp4"))
	require.NoError(t, err)
	assert.Equal(t, e.ID, m.ElementID)
	assert.Equal(t, model.MediaVideo, m.Type)
	assert.Equal(t, "first dance.mp4", m.OriginalName)
	assert.True(t, strings.HasPrefix(m.Path, "/uploads/media/"))
	assert.True(t, strings.HasSuffix(m.Path, m.Filename))

	ok, err := f.disk.Exists(ctx, m.Path)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUpload_UnknownElementLeavesNoFile(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Upload(context.Background(), model.NewID(), "photo", clip("x.mp4"))
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, "Element not found", apperr.Message(err))
	assert.Empty(t, f.mediaFiles(t))
}

func TestUpload_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e := f.element(t)

	tests := []struct {
		name      string
		elementID string
		kind      string
		file      *assets.Upload
		msg       string
	}{
		{"no element", "", "photo", clip("a.mp4"), "Element ID and media type are required"},
		{"no type", e.ID, "", clip("a.mp4"), "Element ID and media type are required"},
		{"no file", e.ID, "photo", nil, "Media file is required"},
		{"bad type", e.ID, "audio", clip("a.mp4"), "Media type must be photo or video"},
		{"bad id", "123", "photo", clip("a.mp4"), "Invalid element ID"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Upload(ctx, tt.elementID, tt.kind, tt.file)
			assert.ErrorIs(t, err, apperr.ErrValidation)
			assert.Equal(t, tt.msg, apperr.Message(err))
		})
	}
	assert.Empty(t, f.mediaFiles(t))
}

func TestListByElement_NewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e := f.element(t)

	first, err := f.svc.Upload(ctx, e.ID, "photo", clip("1.mp4"))
	require.NoError(t, err)
	second, err := f.svc.Upload(ctx, e.ID, "photo", clip("2.mp4"))
	require.NoError(t, err)

	list, err := f.svc.ListByElement(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)

	empty, err := f.svc.ListByElement(ctx, model.NewID())
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e := f.element(t)
	m, err := f.svc.Upload(ctx, e.ID, "photo", clip("1.mp4"))
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, m.ID))
	assert.Empty(t, f.mediaFiles(t))

	err = f.svc.Delete(ctx, m.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, "Media not found", apperr.Message(err))
}

func TestDelete_MissingFileStillRemovesRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e := f.element(t)
	m, err := f.svc.Upload(ctx, e.ID, "photo", clip("1.mp4"))
	require.NoError(t, err)
	require.NoError(t, f.disk.Remove(ctx, m.Path))

	require.NoError(t, f.svc.Delete(ctx, m.ID))
	got, _ := f.store.GetMedia(ctx, m.ID)
	assert.Nil(t, got)
}

func TestHandler(t *testing.T) {
	f := newFixture(t)
	mux := http.NewServeMux()
	NewHandler(f.svc, httpxtest.Gate{}, assets.DefaultMediaPolicy).RegisterRoutes(mux)
	e := f.element(t)

	video := httpxtest.File{Field: "media", Name: "clip.mov", ContentType: "video/quicktime", Content: []byte("mov")}

	body, ct := httpxtest.Multipart(t, map[string]string{"elementId": e.ID, "type": "video"}, video)
	rec := httpxtest.Do(mux, http.MethodPost, "/api/media", "", body, ct)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	body, ct = httpxtest.Multipart(t, map[string]string{"elementId": model.NewID(), "type": "video"}, video)
	rec = httpxtest.Do(mux, http.MethodPost, "/api/media", httpxtest.ClientToken, body, ct)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	body, ct = httpxtest.Multipart(t, map[string]string{"elementId": e.ID, "type": "video"},
		httpxtest.File{Field: "media", Name: "notes.pdf", ContentType: "application/pdf", Content: []byte("pdf")})
	rec = httpxtest.Do(mux, http.MethodPost, "/api/media", httpxtest.ClientToken, body, ct)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Only images and videos are allowed", httpxtest.Decode[map[string]string](t, rec)["msg"])

	body, ct = httpxtest.Multipart(t, map[string]string{"elementId": e.ID, "type": "video"}, video)
	rec = httpxtest.Do(mux, http.MethodPost, "/api/media", httpxtest.ClientToken, body, ct)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := httpxtest.Decode[model.Media](t, rec)

	rec = httpxtest.Do(mux, http.MethodGet, "/api/media/element/"+e.ID, "", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := httpxtest.Decode[[]model.Media](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	rec = httpxtest.Do(mux, http.MethodDelete, "/api/media/"+created.ID, httpxtest.ClientToken, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Media deleted successfully", httpxtest.Decode[map[string]string](t, rec)["msg"])
}
