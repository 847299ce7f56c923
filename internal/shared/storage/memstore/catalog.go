package memstore

import (
	"context"
	"sort"
	"time"

	"wedding-planner/internal/shared/model"
	"wedding-planner/internal/shared/storage"
)

// ============================================================================
// CategoryStore
// ============================================================================

func (s *Store) CreateCategory(_ context.Context, category *model.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[category.ID]; ok {
		return storage.ErrDuplicate
	}
	if s.categoryNameTaken(category.Name, "") {
		return storage.ErrDuplicate
	}
	s.categories[category.ID] = *category
	return nil
}

func (s *Store) GetCategory(_ context.Context, id string) (*model.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.categories[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (s *Store) ListCategories(_ context.Context) ([]*model.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]*model.Category, 0, len(s.categories))
	for _, c := range s.categories {
		list = append(list, &c)
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (s *Store) UpdateCategory(_ context.Context, category *model.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.categories[category.ID]
	if !ok {
		return storage.ErrNotFound
	}
	if s.categoryNameTaken(category.Name, category.ID) {
		return storage.ErrDuplicate
	}
	existing.Name = category.Name
	existing.Image = category.Image
	s.categories[category.ID] = existing
	return nil
}

func (s *Store) DeleteCategory(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.categories, id)
	return nil
}

func (s *Store) categoryNameTaken(name, exceptID string) bool {
	for _, c := range s.categories {
		if c.Name == name && c.ID != exceptID {
			return true
		}
	}
	return false
}

// ============================================================================
// ElementStore
// ============================================================================

func (s *Store) CreateElement(_ context.Context, element *model.Element) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.elements[element.ID]; ok {
		return storage.ErrDuplicate
	}
	e := *element
	e.CategoryName = ""
	s.elements[e.ID] = e
	return nil
}

func (s *Store) GetElement(_ context.Context, id string) (*model.Element, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.elements[id]; ok {
		return &e, nil
	}
	return nil, nil
}

func (s *Store) ListElementsByCategory(_ context.Context, categoryID string) ([]*model.Element, error) {
	return s.filterElements(func(e *model.Element) bool { return e.CategoryID == categoryID }), nil
}

func (s *Store) ListRecommendedElements(_ context.Context) ([]*model.Element, error) {
	return s.filterElements(func(e *model.Element) bool { return e.IsRecommended }), nil
}

func (s *Store) filterElements(keep func(*model.Element) bool) []*model.Element {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := []*model.Element{}
	for _, e := range s.elements {
		if keep(&e) {
			list = append(list, &e)
		}
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list
}

func (s *Store) UpdateElement(_ context.Context, element *model.Element) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.elements[element.ID]; !ok {
		return storage.ErrNotFound
	}
	e := *element
	e.CategoryName = ""
	s.elements[e.ID] = e
	return nil
}

func (s *Store) DeleteElement(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.elements[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.elements, id)
	return nil
}

// ============================================================================
// MediaStore
// ============================================================================

func (s *Store) CreateMedia(_ context.Context, media *model.Media) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.media[media.ID]; ok {
		return storage.ErrDuplicate
	}
	s.media[media.ID] = *media
	return nil
}

func (s *Store) GetMedia(_ context.Context, id string) (*model.Media, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if m, ok := s.media[id]; ok {
		return &m, nil
	}
	return nil, nil
}

func (s *Store) ListMediaByElement(_ context.Context, elementID string) ([]*model.Media, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := []*model.Media{}
	for _, m := range s.media {
		if m.ElementID == elementID {
			list = append(list, &m)
		}
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].UploadedAt.After(list[j].UploadedAt) })
	return list, nil
}

func (s *Store) DeleteMedia(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.media[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.media, id)
	return nil
}

// ============================================================================
// ScheduleStore
// ============================================================================

func (s *Store) CreateSchedule(_ context.Context, schedule *model.Schedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc := *schedule
	sc.MarkedDate = model.NormalizeDate(sc.MarkedDate)
	if _, ok := s.schedules[sc.ID]; ok {
		return storage.ErrDuplicate
	}
	if s.findScheduleLocked(sc.ElementID, sc.MarkedDate) != nil {
		return storage.ErrDuplicate
	}
	s.schedules[sc.ID] = sc
	return nil
}

func (s *Store) FindSchedule(_ context.Context, elementID string, date time.Time) (*model.Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findScheduleLocked(elementID, model.NormalizeDate(date)), nil
}

func (s *Store) findScheduleLocked(elementID string, day time.Time) *model.Schedule {
	for _, sc := range s.schedules {
		if sc.ElementID == elementID && sc.MarkedDate.Equal(day) {
			return &sc
		}
	}
	return nil
}

func (s *Store) ListSchedulesByElement(_ context.Context, elementID string) ([]*model.Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := []*model.Schedule{}
	for _, sc := range s.schedules {
		if sc.ElementID == elementID {
			list = append(list, &sc)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].MarkedDate.Before(list[j].MarkedDate) })
	return list, nil
}

func (s *Store) DeleteSchedule(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.schedules[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.schedules, id)
	return nil
}

func (s *Store) DeleteScheduleByDate(_ context.Context, elementID string, date time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc := s.findScheduleLocked(elementID, model.NormalizeDate(date))
	if sc == nil {
		return storage.ErrNotFound
	}
	delete(s.schedules, sc.ID)
	return nil
}
