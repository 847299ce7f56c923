// Package memstore 内存版 PersistentStore
//
// 与 mongostore 保持相同的唯一性语义（users.email、admins.email、单一管理员、
// categories.name、(element_id, marked_date)），用于开发模式和单元测试。
// 所有读写都复制记录，调用方修改返回值不会影响存储内容。
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"wedding-planner/internal/shared/model"
	"wedding-planner/internal/shared/storage"
)

// Store 内存存储
type Store struct {
	mu         sync.RWMutex
	users      map[string]model.User
	admins     map[string]model.Admin
	categories map[string]model.Category
	elements   map[string]model.Element
	media      map[string]model.Media
	schedules  map[string]model.Schedule
}

var _ storage.PersistentStore = (*Store)(nil)

// New 创建空的内存存储
func New() *Store {
	return &Store{
		users:      make(map[string]model.User),
		admins:     make(map[string]model.Admin),
		categories: make(map[string]model.Category),
		elements:   make(map[string]model.Element),
		media:      make(map[string]model.Media),
		schedules:  make(map[string]model.Schedule),
	}
}

// Close 无操作
func (s *Store) Close() error { return nil }

// ============================================================================
// UserStore
// ============================================================================

func (s *Store) CreateUser(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; ok {
		return storage.ErrDuplicate
	}
	for _, u := range s.users {
		if u.Email == user.Email {
			return storage.ErrDuplicate
		}
	}
	s.users[user.ID] = *user
	return nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (s *Store) GetUserByID(_ context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (s *Store) UpdateUserPassword(_ context.Context, id, passwordHash string) error {
	return s.updateUser(id, func(u *model.User) { u.PasswordHash = passwordHash })
}

func (s *Store) UpdateUserProfileImage(_ context.Context, id, path string) error {
	return s.updateUser(id, func(u *model.User) { u.ProfileImage = path })
}

func (s *Store) updateUser(id string, fn func(*model.User)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	fn(&u)
	s.users[id] = u
	return nil
}

func (s *Store) CountUsersByMonth(_ context.Context, since time.Time) ([]model.MonthlyCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type ym struct{ year, month int }
	buckets := make(map[ym]int)
	for _, u := range s.users {
		if u.CreatedAt.Before(since) {
			continue
		}
		c := u.CreatedAt.UTC()
		buckets[ym{c.Year(), int(c.Month())}]++
	}

	counts := make([]model.MonthlyCount, 0, len(buckets))
	for k, n := range buckets {
		counts = append(counts, model.MonthlyCount{Year: k.year, Month: k.month, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Year != counts[j].Year {
			return counts[i].Year < counts[j].Year
		}
		return counts[i].Month < counts[j].Month
	})
	return counts, nil
}

// ============================================================================
// AdminStore
// ============================================================================

func (s *Store) CreateAdmin(_ context.Context, admin *model.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.admins {
		if a.ID == admin.ID || a.Email == admin.Email || a.Role == admin.Role {
			return storage.ErrDuplicate
		}
	}
	s.admins[admin.ID] = *admin
	return nil
}

func (s *Store) GetAdmin(_ context.Context) (*model.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.admins {
		if a.Role == model.RoleAdmin {
			return &a, nil
		}
	}
	return nil, nil
}

func (s *Store) GetAdminByEmail(_ context.Context, email string) (*model.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.admins {
		if a.Email == email {
			return &a, nil
		}
	}
	return nil, nil
}

func (s *Store) GetAdminByID(_ context.Context, id string) (*model.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if a, ok := s.admins[id]; ok {
		return &a, nil
	}
	return nil, nil
}

func (s *Store) UpdateAdminPassword(_ context.Context, id, passwordHash string) error {
	return s.updateAdmin(id, func(a *model.Admin) { a.PasswordHash = passwordHash })
}

func (s *Store) UpdateAdminProfileImage(_ context.Context, id, path string) error {
	return s.updateAdmin(id, func(a *model.Admin) { a.ProfileImage = path })
}

func (s *Store) updateAdmin(id string, fn func(*model.Admin)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.admins[id]
	if !ok {
		return storage.ErrNotFound
	}
	fn(&a)
	s.admins[id] = a
	return nil
}
