package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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
	return &fixture{
		store: store,
		disk:  disk,
		svc:   NewService(store, assets.NewCleaner(disk, model.DefaultAvatarPath, model.DefaultAdminAvatarPath)),
	}
}

func image(name string) *assets.Upload {
	return &assets.Upload{Name: name, Size: 3, ContentType: "image/jpeg", Body: strings.NewReader("img")}
}

func (f *fixture) exists(t *testing.T, path string) bool {
	t.Helper()
	ok, err := f.disk.Exists(context.Background(), path)
	require.NoError(t, err)
	return ok
}

func (f *fixture) category(t *testing.T, name string) *model.Category {
	t.Helper()
	c, err := f.svc.CreateCategory(context.Background(), name, image(strings.ToLower(name)+".jpg"))
	require.NoError(t, err)
	return c
}

func (f *fixture) element(t *testing.T, categoryID, name string) *model.Element {
	t.Helper()
	e, err := f.svc.CreateElement(context.Background(), ElementInput{
		Name: name, Address: "1 Main St", Price: "1500", Description: "nice",
		CategoryID: categoryID, Image: image(strings.ToLower(name) + ".jpg"),
	})
	require.NoError(t, err)
	return e
}

func TestDeleteCategory_CascadesElementsAndFiles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	venues := f.category(t, "Venues")
	hall := f.element(t, venues.ID, "Hall")
	garden := f.element(t, venues.ID, "Garden")
	other := f.category(t, "Music")
	band := f.element(t, other.ID, "Band")

	deleted, err := f.svc.DeleteCategory(ctx, venues.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	left, err := f.svc.ListElementsByCategory(ctx, venues.ID)
	require.NoError(t, err)
	assert.Empty(t, left)
	assert.False(t, f.exists(t, venues.Image))
	assert.False(t, f.exists(t, hall.Image))
	assert.False(t, f.exists(t, garden.Image))

	// 其他分类不受影响
	assert.True(t, f.exists(t, band.Image))
	got, _ := f.store.GetElement(ctx, band.ID)
	assert.NotNil(t, got)

	_, err = f.svc.DeleteCategory(ctx, venues.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDeleteCategory_MissingImageFileIsNotAnError(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	venues := f.category(t, "Venues")
	hall := f.element(t, venues.ID, "Hall")

	key, err := assets.KeyFromPublicPath(hall.Image)
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(f.disk.Root(), key)))

	_, err = f.svc.DeleteCategory(ctx, venues.ID)
	assert.NoError(t, err)
}

func TestDeleteCategory_InvalidID(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.DeleteCategory(context.Background(), "not-an-id")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "Invalid category ID", apperr.Message(err))
}

func TestCreateCategory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateCategory(ctx, "   ", image("a.jpg"))
	assert.Equal(t, "Category name is required", apperr.Message(err))
	_, err = f.svc.CreateCategory(ctx, "Venues", nil)
	assert.Equal(t, "Category image is required", apperr.Message(err))

	c, err := f.svc.CreateCategory(ctx, "  Venues ", image("a.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "Venues", c.Name)
	assert.True(t, strings.HasPrefix(c.Image, "/uploads/"))
	assert.True(t, f.exists(t, c.Image))
}

func TestCreateCategory_DuplicateNameRemovesUpload(t *testing.T) {
	f := newFixture(t)
	f.category(t, "Venues")

	entries, _ := os.ReadDir(f.disk.Root())
	before := len(entries)

	_, err := f.svc.CreateCategory(context.Background(), "Venues", image("dup.jpg"))
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.Equal(t, "Category name already exists", apperr.Message(err))

	entries, _ = os.ReadDir(f.disk.Root())
	assert.Len(t, entries, before)
}

func TestUpdateCategory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.category(t, "Venues")
	f.category(t, "Music")

	updated, err := f.svc.UpdateCategory(ctx, c.ID, "Places", image("new.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "Places", updated.Name)
	assert.NotEqual(t, c.Image, updated.Image)
	assert.False(t, f.exists(t, c.Image))
	assert.True(t, f.exists(t, updated.Image))

	// 名称冲突时保留原图，删除新上传的文件
	_, err = f.svc.UpdateCategory(ctx, c.ID, "Music", image("other.jpg"))
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.True(t, f.exists(t, updated.Image))

	// 只改名
	renamed, err := f.svc.UpdateCategory(ctx, c.ID, "Halls", nil)
	require.NoError(t, err)
	assert.Equal(t, updated.Image, renamed.Image)

	_, err = f.svc.UpdateCategory(ctx, model.NewID(), "x", nil)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCreateElement_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.category(t, "Venues")

	tests := []struct {
		name string
		in   ElementInput
		msg  string
	}{
		{"missing field", ElementInput{Name: "Hall", Price: "1", Description: "d", CategoryID: c.ID, Image: image("a.jpg")}, "All fields are required"},
		{"missing image", ElementInput{Name: "Hall", Address: "a", Price: "1", Description: "d", CategoryID: c.ID}, "Element image is required"},
		{"bad category", ElementInput{Name: "Hall", Address: "a", Price: "1", Description: "d", CategoryID: "xyz", Image: image("a.jpg")}, "Invalid category ID"},
		{"bad price", ElementInput{Name: "Hall", Address: "a", Price: "cheap", Description: "d", CategoryID: c.ID, Image: image("a.jpg")}, "Price must be a non-negative number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateElement(ctx, tt.in)
			assert.ErrorIs(t, err, apperr.ErrValidation)
			assert.Equal(t, tt.msg, apperr.Message(err))
		})
	}
}

func TestCreateElement_UnknownCategoryAccepted(t *testing.T) {
	f := newFixture(t)
	e := f.element(t, model.NewID(), "Hall")
	assert.Equal(t, 1500.0, e.Price)
	assert.False(t, e.IsRecommended)
}

func TestUpdateElement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.category(t, "Venues")
	e := f.element(t, c.ID, "Hall")

	updated, err := f.svc.UpdateElement(ctx, e.ID, ElementInput{Price: "2000", Image: image("new.jpg")})
	require.NoError(t, err)
	assert.Equal(t, 2000.0, updated.Price)
	assert.Equal(t, "Hall", updated.Name)
	assert.Equal(t, c.ID, updated.CategoryID)
	assert.False(t, f.exists(t, e.Image))
	assert.True(t, f.exists(t, updated.Image))

	_, err = f.svc.UpdateElement(ctx, model.NewID(), ElementInput{Name: "x"})
	assert.Equal(t, "Element not found", apperr.Message(err))
}

func TestDeleteElement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e := f.element(t, model.NewID(), "Hall")

	require.NoError(t, f.svc.DeleteElement(ctx, e.ID))
	assert.False(t, f.exists(t, e.Image))

	err := f.svc.DeleteElement(ctx, e.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRecommendations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.category(t, "Venues")
	e := f.element(t, c.ID, "Hall")
	f.element(t, c.ID, "Garden")

	toggled, err := f.svc.ToggleRecommendation(ctx, e.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsRecommended)

	list, err := f.svc.ListRecommended(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, e.ID, list[0].ID)
	assert.Equal(t, "Venues", list[0].CategoryName)

	toggled, err = f.svc.ToggleRecommendation(ctx, e.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsRecommended)

	list, err = f.svc.ListRecommended(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

// failingCleanupStore 删除总是失败的资源存储
type failingCleanupStore struct {
	assets.Store
}

func (failingCleanupStore) Remove(context.Context, string) error {
	return errors.New("disk is read-only")
}

func TestDeleteElement_CleanupFailureDoesNotFailRequest(t *testing.T) {
	disk, err := assets.NewDisk(t.TempDir())
	require.NoError(t, err)
	store := memstore.New()

	var failures []string
	cleaner := assets.NewCleaner(failingCleanupStore{disk})
	cleaner.OnFailure(func(path string, _ error) { failures = append(failures, path) })
	svc := NewService(store, cleaner)
	ctx := context.Background()

	e, err := svc.CreateElement(ctx, ElementInput{
		Name: "Hall", Address: "a", Price: "1", Description: "d",
		CategoryID: model.NewID(), Image: image("a.jpg"),
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteElement(ctx, e.ID))
	assert.Equal(t, []string{e.Image}, failures)
	got, _ := store.GetElement(ctx, e.ID)
	assert.Nil(t, got)
}
