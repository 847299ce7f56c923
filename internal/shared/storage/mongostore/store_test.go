package mongostore

import (
	"context"
	"os"
	"testing"
	"time"

	"wedding-planner/internal/shared/model"
	"wedding-planner/internal/shared/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testStore 创建测试用 Store，使用独立数据库避免污染
func testStore(t *testing.T) *Store {
	t.Helper()

	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	s, err := NewStore(uri, "wedding_planner_test")
	if err != nil {
		t.Skipf("MongoDB not available: %v", err)
	}

	ctx := context.Background()
	require.NoError(t, s.db.Drop(ctx))
	require.NoError(t, s.ensureIndexes(ctx))

	t.Cleanup(func() {
		s.db.Drop(context.Background())
		s.Close()
	})

	return s
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func TestUserCRUD(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	user := &model.User{
		ID:           model.NewID(),
		Name:         "Ana",
		Email:        "a@x.com",
		Phone:        "555",
		ProfileImage: model.DefaultAvatarPath,
		PasswordHash: "hash",
		Role:         model.RoleClient,
		CreatedAt:    now(),
	}
	require.NoError(t, s.CreateUser(ctx, user))

	dup := *user
	dup.ID = model.NewID()
	assert.ErrorIs(t, s.CreateUser(ctx, &dup), storage.ErrDuplicate)

	got, err := s.GetUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "hash", got.PasswordHash)

	missing, err := s.GetUserByID(ctx, model.NewID())
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, s.UpdateUserPassword(ctx, user.ID, "hash2"))
	require.NoError(t, s.UpdateUserProfileImage(ctx, user.ID, "/uploads/new.png"))
	got, _ = s.GetUserByID(ctx, user.ID)
	assert.Equal(t, "hash2", got.PasswordHash)
	assert.Equal(t, "/uploads/new.png", got.ProfileImage)

	assert.ErrorIs(t, s.UpdateUserPassword(ctx, model.NewID(), "x"), storage.ErrNotFound)
}

func TestCountUsersByMonth(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	dates := []time.Time{
		time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 3, 5, 0, 0, 0, 0, time.UTC), // 早于 since
	}
	for i, d := range dates {
		require.NoError(t, s.CreateUser(ctx, &model.User{
			ID: model.NewID(), Email: string(rune('a'+i)) + "@x.com", Role: model.RoleClient, CreatedAt: d,
		}))
	}

	counts, err := s.CountUsersByMonth(ctx, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, []model.MonthlyCount{
		{Year: 2025, Month: 1, Count: 2},
		{Year: 2025, Month: 3, Count: 1},
	}, counts)
}

func TestAdminSingleton(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	first := &model.Admin{ID: model.NewID(), Email: "admin@x.com", Role: model.RoleAdmin, CreatedAt: now()}
	require.NoError(t, s.CreateAdmin(ctx, first))

	second := &model.Admin{ID: model.NewID(), Email: "other@x.com", Role: model.RoleAdmin, CreatedAt: now()}
	assert.ErrorIs(t, s.CreateAdmin(ctx, second), storage.ErrDuplicate)

	got, err := s.GetAdmin(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, first.ID, got.ID)

	// 邮箱唯一性按集合独立
	require.NoError(t, s.CreateUser(ctx, &model.User{ID: model.NewID(), Email: "admin@x.com", Role: model.RoleClient}))
}

func TestCategoryAndElementCRUD(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	cat := &model.Category{ID: model.NewID(), Name: "Venues", Image: "/uploads/v.png", CreatedAt: now()}
	require.NoError(t, s.CreateCategory(ctx, cat))
	assert.ErrorIs(t, s.CreateCategory(ctx, &model.Category{ID: model.NewID(), Name: "Venues"}), storage.ErrDuplicate)

	older := &model.Element{ID: model.NewID(), Name: "Hall", CategoryID: cat.ID, CreatedAt: now().Add(-time.Hour)}
	newer := &model.Element{ID: model.NewID(), Name: "Garden", CategoryID: cat.ID, IsRecommended: true, CreatedAt: now()}
	require.NoError(t, s.CreateElement(ctx, older))
	require.NoError(t, s.CreateElement(ctx, newer))

	list, err := s.ListElementsByCategory(ctx, cat.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Garden", list[0].Name)

	rec, err := s.ListRecommendedElements(ctx)
	require.NoError(t, err)
	require.Len(t, rec, 1)
	assert.Equal(t, newer.ID, rec[0].ID)

	older.IsRecommended = true
	older.Price = 99.5
	require.NoError(t, s.UpdateElement(ctx, older))
	got, _ := s.GetElement(ctx, older.ID)
	assert.True(t, got.IsRecommended)
	assert.Equal(t, 99.5, got.Price)

	require.NoError(t, s.DeleteElement(ctx, older.ID))
	assert.ErrorIs(t, s.DeleteElement(ctx, older.ID), storage.ErrNotFound)

	cat.Name = "Halls"
	require.NoError(t, s.UpdateCategory(ctx, cat))
	cats, err := s.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, "Halls", cats[0].Name)

	require.NoError(t, s.DeleteCategory(ctx, cat.ID))
	assert.ErrorIs(t, s.DeleteCategory(ctx, cat.ID), storage.ErrNotFound)
}

func TestMediaCRUD(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	elementID := model.NewID()
	m1 := &model.Media{ID: model.NewID(), ElementID: elementID, Path: "/uploads/media/1.png", Type: model.MediaPhoto, UploadedAt: now().Add(-time.Minute)}
	m2 := &model.Media{ID: model.NewID(), ElementID: elementID, Path: "/uploads/media/2.mp4", Type: model.MediaVideo, UploadedAt: now()}
	require.NoError(t, s.CreateMedia(ctx, m1))
	require.NoError(t, s.CreateMedia(ctx, m2))

	list, err := s.ListMediaByElement(ctx, elementID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, m2.ID, list[0].ID)

	require.NoError(t, s.DeleteMedia(ctx, m1.ID))
	got, err := s.GetMedia(ctx, m1.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestScheduleUniqueness(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	elementID := model.NewID()
	day := time.Date(2025, 6, 1, 15, 0, 0, 0, time.UTC)

	first := &model.Schedule{ID: model.NewID(), ElementID: elementID, MarkedDate: model.NormalizeDate(day), CreatedAt: now()}
	require.NoError(t, s.CreateSchedule(ctx, first))

	second := &model.Schedule{ID: model.NewID(), ElementID: elementID, MarkedDate: model.NormalizeDate(day), CreatedAt: now()}
	assert.ErrorIs(t, s.CreateSchedule(ctx, second), storage.ErrDuplicate)

	found, err := s.FindSchedule(ctx, elementID, day)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, first.ID, found.ID)

	require.NoError(t, s.DeleteScheduleByDate(ctx, elementID, day))
	assert.ErrorIs(t, s.DeleteScheduleByDate(ctx, elementID, day), storage.ErrNotFound)
}
