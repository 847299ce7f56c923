package auth

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"wedding-planner/internal/shared/apperr"
	"wedding-planner/internal/shared/assets"
	"wedding-planner/internal/shared/model"
	"wedding-planner/internal/shared/storage"
)

const (
	minPasswordLength = 6
	maxPasswordLength = 72 // bcrypt 上限，按字节计
)

// AccountStore 账号操作所需的存储
type AccountStore interface {
	CredentialStore
	CreateUser(ctx context.Context, user *model.User) error
	UpdateUserPassword(ctx context.Context, id, passwordHash string) error
	UpdateUserProfileImage(ctx context.Context, id, path string) error
	CountUsersByMonth(ctx context.Context, since time.Time) ([]model.MonthlyCount, error)
	CreateAdmin(ctx context.Context, admin *model.Admin) error
	GetAdmin(ctx context.Context) (*model.Admin, error)
	UpdateAdminPassword(ctx context.Context, id, passwordHash string) error
	UpdateAdminProfileImage(ctx context.Context, id, path string) error
}

// Accounts 注册、头像、密码、统计与管理员引导
type Accounts struct {
	store   AccountStore
	files   assets.Store
	cleaner *assets.Cleaner
	now     func() time.Time
}

// NewAccounts 创建账号服务
func NewAccounts(store AccountStore, cleaner *assets.Cleaner) *Accounts {
	return &Accounts{store: store, files: cleaner.Store(), cleaner: cleaner, now: time.Now}
}

// Registration 注册请求
type Registration struct {
	Name         string
	Email        string
	Password     string
	Phone        string
	ProfileImage *assets.Upload // 可选
}

// Register 注册普通用户，角色固定为 client
func (a *Accounts) Register(ctx context.Context, reg Registration) (*model.User, error) {
	reg.Name = strings.TrimSpace(reg.Name)
	reg.Email = strings.TrimSpace(reg.Email)
	reg.Phone = strings.TrimSpace(reg.Phone)
	if reg.Name == "" || reg.Email == "" || reg.Password == "" || reg.Phone == "" {
		return nil, apperr.Validation("Name, email, password and phone are required")
	}
	if err := checkPasswordLength(reg.Password); err != nil {
		return nil, err
	}

	// 两个集合中任一存在该邮箱都拒绝注册
	if err := a.checkEmailAvailable(ctx, reg.Email); err != nil {
		return nil, err
	}

	hash, err := HashPassword(reg.Password)
	if err != nil {
		return nil, apperr.Storage("hash password", err)
	}

	user := &model.User{
		ID:           model.NewID(),
		Name:         reg.Name,
		Email:        reg.Email,
		Phone:        reg.Phone,
		ProfileImage: model.DefaultAvatarPath,
		PasswordHash: hash,
		Role:         model.RoleClient,
		CreatedAt:    a.now().UTC(),
	}

	if reg.ProfileImage != nil {
		stored, err := a.files.Save(ctx, "", reg.ProfileImage)
		if err != nil {
			return nil, apperr.Storage("save profile image", err)
		}
		user.ProfileImage = stored.Path
	}

	if err := a.store.CreateUser(ctx, user); err != nil {
		if reg.ProfileImage != nil {
			a.cleaner.Remove(ctx, user.ProfileImage)
		}
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, apperr.Conflict("User already exists")
		}
		return nil, apperr.Storage("create user", err)
	}

	log.Printf("[auth] Registered user: %s (%s)", user.Email, user.ID)
	return user, nil
}

func (a *Accounts) checkEmailAvailable(ctx context.Context, email string) error {
	user, err := a.store.GetUserByEmail(ctx, email)
	if err != nil {
		return apperr.Storage("lookup user by email", err)
	}
	if user != nil {
		return apperr.Conflict("User already exists")
	}
	admin, err := a.store.GetAdminByEmail(ctx, email)
	if err != nil {
		return apperr.Storage("lookup admin by email", err)
	}
	if admin != nil {
		return apperr.Conflict("User already exists")
	}
	return nil
}

// UpdateProfileImage 替换头像；未提供文件时原样返回当前头像
// 旧头像（非默认）在记录更新成功后尽力删除
func (a *Accounts) UpdateProfileImage(ctx context.Context, p *model.Principal, upload *assets.Upload) (string, error) {
	if err := RequireAuthenticated(p); err != nil {
		return "", err
	}
	if upload == nil {
		return p.ProfileImage, nil
	}

	stored, err := a.files.Save(ctx, "", upload)
	if err != nil {
		return "", apperr.Storage("save profile image", err)
	}

	if p.Kind == model.PrincipalAdmin {
		err = a.store.UpdateAdminProfileImage(ctx, p.ID, stored.Path)
	} else {
		err = a.store.UpdateUserProfileImage(ctx, p.ID, stored.Path)
	}
	if err != nil {
		a.cleaner.Remove(ctx, stored.Path)
		if errors.Is(err, storage.ErrNotFound) {
			return "", apperr.NotFound("User not found")
		}
		return "", apperr.Storage("update profile image", err)
	}

	a.cleaner.Remove(ctx, p.ProfileImage)
	return stored.Path, nil
}

// ChangePassword 为任一类型主体设置新密码
func (a *Accounts) ChangePassword(ctx context.Context, p *model.Principal, newPassword string) error {
	if err := RequireAuthenticated(p); err != nil {
		return err
	}
	if newPassword == "" {
		return apperr.Validation("New password is required")
	}
	if err := checkPasswordLength(newPassword); err != nil {
		return err
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return apperr.Storage("hash password", err)
	}

	if p.Kind == model.PrincipalAdmin {
		err = a.store.UpdateAdminPassword(ctx, p.ID, hash)
	} else {
		err = a.store.UpdateUserPassword(ctx, p.ID, hash)
	}
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.NotFound("User not found")
	}
	if err != nil {
		return apperr.Storage("update password", err)
	}
	return nil
}

func checkPasswordLength(password string) error {
	if len(password) < minPasswordLength {
		return apperr.Validation("Password must be at least 6 characters")
	}
	if len(password) > maxPasswordLength {
		return apperr.Validation("Password must be at most 72 bytes")
	}
	return nil
}

// UserStats 最近 12 个月（含当月）的注册数，按时间升序，无注册的月份补 0
func (a *Accounts) UserStats(ctx context.Context) ([]model.MonthlyCount, error) {
	now := a.now().UTC()
	start := time.Date(now.Year(), now.Month()-11, 1, 0, 0, 0, 0, time.UTC)

	counts, err := a.store.CountUsersByMonth(ctx, start)
	if err != nil {
		return nil, apperr.Storage("count users by month", err)
	}

	byMonth := make(map[[2]int]int, len(counts))
	for _, c := range counts {
		byMonth[[2]int{c.Year, c.Month}] = c.Count
	}

	months := make([]model.MonthlyCount, 0, 12)
	for i := 0; i < 12; i++ {
		m := start.AddDate(0, i, 0)
		months = append(months, model.MonthlyCount{
			Year:  m.Year(),
			Month: int(m.Month()),
			Count: byMonth[[2]int{m.Year(), int(m.Month())}],
		})
	}
	return months, nil
}

// AdminSeed 管理员初始化参数
type AdminSeed struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// CreateAdmin 创建管理员；已存在管理员时返回 Conflict
func (a *Accounts) CreateAdmin(ctx context.Context, seed AdminSeed) (*model.Admin, error) {
	if seed.Email == "" || seed.Password == "" {
		return nil, apperr.Validation("Admin email and password are required")
	}
	hash, err := HashPassword(seed.Password)
	if err != nil {
		return nil, apperr.Storage("hash admin password", err)
	}

	admin := &model.Admin{
		ID:           model.NewID(),
		Name:         seed.Name,
		Email:        seed.Email,
		Phone:        seed.Phone,
		ProfileImage: model.DefaultAdminAvatarPath,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		CreatedAt:    a.now().UTC(),
	}
	if err := a.store.CreateAdmin(ctx, admin); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, apperr.Conflict("Only one admin user allowed")
		}
		return nil, apperr.Storage("create admin", err)
	}
	return admin, nil
}

// EnsureAdmin 进程启动时调用；管理员已存在则不做任何修改
func (a *Accounts) EnsureAdmin(ctx context.Context, seed AdminSeed) (*model.Admin, error) {
	existing, err := a.store.GetAdmin(ctx)
	if err != nil {
		return nil, apperr.Storage("check admin", err)
	}
	if existing != nil {
		log.Printf("[auth] Admin already exists: %s (%s)", existing.Email, existing.ID)
		return existing, nil
	}

	admin, err := a.CreateAdmin(ctx, seed)
	if errors.Is(err, apperr.ErrConflict) {
		// 并发启动的另一个实例先创建了管理员
		return a.store.GetAdmin(ctx)
	}
	if err != nil {
		return nil, err
	}
	log.Printf("[auth] Created admin: %s (%s)", admin.Email, admin.ID)
	return admin, nil
}
