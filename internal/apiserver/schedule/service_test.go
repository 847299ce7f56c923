package schedule

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedding-planner/internal/apiserver/httpx/httpxtest"
	"wedding-planner/internal/shared/apperr"
	"wedding-planner/internal/shared/model"
	"wedding-planner/internal/shared/storage"
	"wedding-planner/internal/shared/storage/memstore"
)

func TestToggle_AddedThenRemoved(t *testing.T) {
	svc := NewService(memstore.New())
	ctx := context.Background()
	element := model.NewID()

	res, err := svc.Toggle(ctx, element, "2025-06-14")
	require.NoError(t, err)
	assert.Equal(t, ActionAdded, res.Action)
	assert.Equal(t, time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC), res.MarkedDate)

	// 同一天的不同时刻归一化到同一个标记
	res, err = svc.Toggle(ctx, element, "2025-06-14T18:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, ActionRemoved, res.Action)

	dates, err := svc.ListMarks(ctx, element)
	require.NoError(t, err)
	assert.Empty(t, dates)
}

func TestToggle_Validation(t *testing.T) {
	svc := NewService(memstore.New())
	ctx := context.Background()

	tests := []struct {
		name, element, date, msg string
	}{
		{"missing element", "", "2025-01-01", "Element ID and date are required"},
		{"missing date", model.NewID(), " ", "Element ID and date are required"},
		{"bad id", "abc", "2025-01-01", "Invalid element ID format"},
		{"bad date", model.NewID(), "next friday", "Invalid date format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Toggle(ctx, tt.element, tt.date)
			assert.ErrorIs(t, err, apperr.ErrValidation)
			assert.Equal(t, tt.msg, apperr.Message(err))
		})
	}
}

func TestListMarks_SortedAscending(t *testing.T) {
	svc := NewService(memstore.New())
	ctx := context.Background()
	element := model.NewID()

	for _, d := range []string{"2025-08-01", "2025-01-15", "2025-03-02"} {
		_, err := svc.Toggle(ctx, element, d)
		require.NoError(t, err)
	}
	_, err := svc.Toggle(ctx, model.NewID(), "2025-02-02")
	require.NoError(t, err)

	dates, err := svc.ListMarks(ctx, element)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-01-15", "2025-03-02", "2025-08-01"}, dates)

	_, err = svc.ListMarks(ctx, "bogus")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestUnmark(t *testing.T) {
	store := memstore.New()
	svc := NewService(store)
	ctx := context.Background()
	element := model.NewID()

	err := svc.Unmark(ctx, element, "2025-06-14")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, "Date not marked", apperr.Message(err))

	for _, d := range []string{"2025-06-14", "2025-06-15"} {
		_, err := svc.Toggle(ctx, element, d)
		require.NoError(t, err)
	}
	require.NoError(t, svc.Unmark(ctx, element, "2025-06-14"))

	dates, err := svc.ListMarks(ctx, element)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-06-15"}, dates)
}

// racingStore 模拟另一个请求在读与写之间抢先插入同一标记
type racingStore struct {
	storage.ScheduleStore
	races int
}

func (s *racingStore) CreateSchedule(ctx context.Context, sc *model.Schedule) error {
	if s.races > 0 {
		s.races--
		winner := *sc
		winner.ID = model.NewID()
		if err := s.ScheduleStore.CreateSchedule(ctx, &winner); err != nil {
			return err
		}
	}
	return s.ScheduleStore.CreateSchedule(ctx, sc)
}

func TestToggle_DuplicateRetriedAsAlreadyMarked(t *testing.T) {
	store := &racingStore{ScheduleStore: memstore.New(), races: 1}
	svc := NewService(store)
	ctx := context.Background()
	element := model.NewID()

	res, err := svc.Toggle(ctx, element, "2025-06-14")
	require.NoError(t, err)
	assert.Equal(t, ActionRemoved, res.Action)

	dates, err := svc.ListMarks(ctx, element)
	require.NoError(t, err)
	assert.Empty(t, dates)
}

// duplicateStore 插入总是冲突、查询总是未命中
type duplicateStore struct {
	storage.ScheduleStore
}

func (duplicateStore) FindSchedule(context.Context, string, time.Time) (*model.Schedule, error) {
	return nil, nil
}

func (duplicateStore) CreateSchedule(context.Context, *model.Schedule) error {
	return storage.ErrDuplicate
}

func TestToggle_PersistentConflict(t *testing.T) {
	svc := NewService(duplicateStore{memstore.New()})
	_, err := svc.Toggle(context.Background(), model.NewID(), "2025-06-14")
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestHandler(t *testing.T) {
	mux := http.NewServeMux()
	NewHandler(NewService(memstore.New()), httpxtest.Gate{}).RegisterRoutes(mux)
	element := model.NewID()

	body, ct := httpxtest.JSON(t, map[string]string{"elementId": element, "date": "2025-06-14"})
	rec := httpxtest.Do(mux, http.MethodPost, "/api/schedules", "", body, ct)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	body, ct = httpxtest.JSON(t, map[string]string{"elementId": element, "date": "2025-06-14"})
	rec = httpxtest.Do(mux, http.MethodPost, "/api/schedules", httpxtest.ClientToken, body, ct)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	out := httpxtest.Decode[map[string]string](t, rec)
	assert.Equal(t, "added", out["action"])
	assert.Equal(t, "2025-06-14T00:00:00Z", out["markedDate"])

	rec = httpxtest.Do(mux, http.MethodGet, "/api/schedules/"+element, httpxtest.ClientToken, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"2025-06-14"}, httpxtest.Decode[map[string][]string](t, rec)["markedDates"])

	rec = httpxtest.Do(mux, http.MethodGet, "/api/schedules/not-an-id", httpxtest.ClientToken, nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid element ID format", httpxtest.Decode[map[string]string](t, rec)["error"])

	body, ct = httpxtest.JSON(t, map[string]string{"elementId": element, "date": "2025-06-14"})
	rec = httpxtest.Do(mux, http.MethodPost, "/api/schedules/unmark", httpxtest.ClientToken, body, ct)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Date unmarked successfully", httpxtest.Decode[map[string]string](t, rec)["message"])

	body, ct = httpxtest.JSON(t, map[string]string{"elementId": element, "date": "2025-06-14"})
	rec = httpxtest.Do(mux, http.MethodPost, "/api/schedules/unmark", httpxtest.ClientToken, body, ct)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Date not marked", httpxtest.Decode[map[string]string](t, rec)["error"])

	body, ct = httpxtest.JSON(t, map[string]string{"elementId": element, "date": "2025-06-14"})
	rec = httpxtest.Do(mux, http.MethodPost, "/api/schedules", httpxtest.ClientToken, body, ct)
	require.Equal(t, http.StatusCreated, rec.Code)
	body, ct = httpxtest.JSON(t, map[string]string{"elementId": element, "date": "2025-06-14"})
	rec = httpxtest.Do(mux, http.MethodPost, "/api/schedules", httpxtest.ClientToken, body, ct)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "removed", httpxtest.Decode[map[string]string](t, rec)["action"])
}
