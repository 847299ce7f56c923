// Package storage 定义持久化存储层抽象接口
//
// 调用方只依赖接口，具体实现在子包中：mongostore/（MongoDB）、memstore/（内存）。
// 各业务包再按需声明更窄的接口，便于测试替换。
package storage

import (
	"context"
	"time"

	"wedding-planner/internal/shared/model"
)

// UserStore 普通用户集合
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	UpdateUserPassword(ctx context.Context, id, passwordHash string) error
	UpdateUserProfileImage(ctx context.Context, id, path string) error
	CountUsersByMonth(ctx context.Context, since time.Time) ([]model.MonthlyCount, error)
}

// AdminStore 管理员集合
//
// CreateAdmin 在已存在 role=admin 记录时返回 ErrDuplicate。
type AdminStore interface {
	CreateAdmin(ctx context.Context, admin *model.Admin) error
	GetAdmin(ctx context.Context) (*model.Admin, error)
	GetAdminByEmail(ctx context.Context, email string) (*model.Admin, error)
	GetAdminByID(ctx context.Context, id string) (*model.Admin, error)
	UpdateAdminPassword(ctx context.Context, id, passwordHash string) error
	UpdateAdminProfileImage(ctx context.Context, id, path string) error
}

// CategoryStore 分类集合
type CategoryStore interface {
	CreateCategory(ctx context.Context, category *model.Category) error
	GetCategory(ctx context.Context, id string) (*model.Category, error)
	ListCategories(ctx context.Context) ([]*model.Category, error)
	UpdateCategory(ctx context.Context, category *model.Category) error
	DeleteCategory(ctx context.Context, id string) error
}

// ElementStore 条目集合
type ElementStore interface {
	CreateElement(ctx context.Context, element *model.Element) error
	GetElement(ctx context.Context, id string) (*model.Element, error)
	ListElementsByCategory(ctx context.Context, categoryID string) ([]*model.Element, error)
	ListRecommendedElements(ctx context.Context) ([]*model.Element, error)
	UpdateElement(ctx context.Context, element *model.Element) error
	DeleteElement(ctx context.Context, id string) error
}

// MediaStore 媒体附件集合
type MediaStore interface {
	CreateMedia(ctx context.Context, media *model.Media) error
	GetMedia(ctx context.Context, id string) (*model.Media, error)
	ListMediaByElement(ctx context.Context, elementID string) ([]*model.Media, error)
	DeleteMedia(ctx context.Context, id string) error
}

// ScheduleStore 日期标记集合，(element_id, marked_date) 唯一
type ScheduleStore interface {
	CreateSchedule(ctx context.Context, schedule *model.Schedule) error
	FindSchedule(ctx context.Context, elementID string, date time.Time) (*model.Schedule, error)
	ListSchedulesByElement(ctx context.Context, elementID string) ([]*model.Schedule, error)
	DeleteSchedule(ctx context.Context, id string) error
	DeleteScheduleByDate(ctx context.Context, elementID string, date time.Time) error
}

// PersistentStore 持久化存储完整接口
type PersistentStore interface {
	UserStore
	AdminStore
	CategoryStore
	ElementStore
	MediaStore
	ScheduleStore

	Close() error
}
