// Package schedule 条目日期标记：切换、列表、取消
package schedule

import (
	"context"
	"errors"
	"strings"
	"time"

	"wedding-planner/internal/shared/apperr"
	"wedding-planner/internal/shared/model"
	"wedding-planner/internal/shared/storage"
)

// Action 切换结果
type Action string

const (
	ActionAdded   Action = "added"
	ActionRemoved Action = "removed"
)

// ToggleResult 切换结果与归一化后的日期
type ToggleResult struct {
	Action     Action    `json:"action"`
	MarkedDate time.Time `json:"markedDate"`
}

var (
	errMissingFields = apperr.Validation("Element ID and date are required")
	errInvalidID     = apperr.Validation("Invalid element ID format")
	errInvalidDate   = apperr.Validation("Invalid date format")
	errNotMarked     = apperr.NotFound("Date not marked")
)

// Service 日期标记服务
//
// (elementId, date) 唯一性由存储层唯一索引保证；并发切换的失败方
// 收到 ErrDuplicate 后按"已标记"重新执行一次切换。
type Service struct {
	store storage.ScheduleStore
	now   func() time.Time
}

// NewService 创建日期标记服务
func NewService(store storage.ScheduleStore) *Service {
	return &Service{store: store, now: time.Now}
}

func parseKey(elementID, date string) (string, time.Time, error) {
	elementID = strings.TrimSpace(elementID)
	date = strings.TrimSpace(date)
	if elementID == "" || date == "" {
		return "", time.Time{}, errMissingFields
	}
	if !model.ValidID(elementID) {
		return "", time.Time{}, errInvalidID
	}
	day, err := model.ParseDate(date)
	if err != nil {
		return "", time.Time{}, errInvalidDate
	}
	return elementID, day, nil
}

// Toggle 已标记则取消，未标记则标记
func (s *Service) Toggle(ctx context.Context, elementID, date string) (*ToggleResult, error) {
	elementID, day, err := parseKey(elementID, date)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < 2; attempt++ {
		action, err := s.toggleOnce(ctx, elementID, day)
		if err == nil {
			return &ToggleResult{Action: action, MarkedDate: day}, nil
		}
		if !errors.Is(err, storage.ErrDuplicate) && !errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.Storage("toggle schedule", err)
		}
	}
	return nil, apperr.Conflict("Date was modified concurrently, please retry")
}

// toggleOnce 读后写；竞争失败时返回 ErrDuplicate（插入）或 ErrNotFound（删除）
func (s *Service) toggleOnce(ctx context.Context, elementID string, day time.Time) (Action, error) {
	existing, err := s.store.FindSchedule(ctx, elementID, day)
	if err != nil {
		return "", err
	}
	if existing != nil {
		if err := s.store.DeleteSchedule(ctx, existing.ID); err != nil {
			return "", err
		}
		return ActionRemoved, nil
	}

	err = s.store.CreateSchedule(ctx, &model.Schedule{
		ID:         model.NewID(),
		ElementID:  elementID,
		MarkedDate: day,
		CreatedAt:  s.now().UTC(),
	})
	if err != nil {
		return "", err
	}
	return ActionAdded, nil
}

// ListMarks 条目的已标记日期（YYYY-MM-DD，升序）
func (s *Service) ListMarks(ctx context.Context, elementID string) ([]string, error) {
	if !model.ValidID(elementID) {
		return nil, errInvalidID
	}
	schedules, err := s.store.ListSchedulesByElement(ctx, elementID)
	if err != nil {
		return nil, apperr.Storage("list schedules", err)
	}
	dates := make([]string, 0, len(schedules))
	for _, sc := range schedules {
		dates = append(dates, model.FormatDate(sc.MarkedDate))
	}
	return dates, nil
}

// Unmark 显式取消标记；未标记时返回 NotFound
func (s *Service) Unmark(ctx context.Context, elementID, date string) error {
	elementID, day, err := parseKey(elementID, date)
	if err != nil {
		return err
	}
	if err := s.store.DeleteScheduleByDate(ctx, elementID, day); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return errNotMarked
		}
		return apperr.Storage("unmark date", err)
	}
	return nil
}
