package auth

import (
	"context"
	"log"
	"strings"

	"wedding-planner/internal/shared/apperr"
	"wedding-planner/internal/shared/model"
)

// CredentialStore 身份解析所需的两个主体集合
type CredentialStore interface {
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetAdminByEmail(ctx context.Context, email string) (*model.Admin, error)
	GetAdminByID(ctx context.Context, id string) (*model.Admin, error)
}

var (
	// ErrInvalidCredentials 邮箱不存在与密码错误返回同一错误
	ErrInvalidCredentials = apperr.Unauthenticated("Invalid credentials")

	// ErrNotAuthenticated 令牌缺失、无效、过期或主体已不存在
	ErrNotAuthenticated = apperr.Unauthenticated("Please authenticate")
)

// Resolver 在 users 与 admins 两个集合上解析唯一主体
//
// 查找顺序固定：先 users，后 admins。
type Resolver struct {
	store CredentialStore
	cfg   Config
}

// NewResolver 创建身份解析器
func NewResolver(store CredentialStore, cfg Config) *Resolver {
	return &Resolver{store: store, cfg: cfg}
}

// ResolveByCredentials 邮箱密码登录
func (r *Resolver) ResolveByCredentials(ctx context.Context, email, password string) (*model.Principal, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := r.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Storage("lookup user by email", err)
	}
	if user != nil {
		return r.checkPassword(user.Principal(), password)
	}

	admin, err := r.store.GetAdminByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Storage("lookup admin by email", err)
	}
	if admin != nil {
		return r.checkPassword(admin.Principal(), password)
	}
	return nil, ErrInvalidCredentials
}

// ResolveAdminByCredentials 仅在 admins 集合中校验
func (r *Resolver) ResolveAdminByCredentials(ctx context.Context, email, password string) (*model.Principal, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	admin, err := r.store.GetAdminByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Storage("lookup admin by email", err)
	}
	if admin == nil {
		return nil, ErrInvalidCredentials
	}
	return r.checkPassword(admin.Principal(), password)
}

func (r *Resolver) checkPassword(p *model.Principal, password string) (*model.Principal, error) {
	if !CheckPassword(password, p.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return p, nil
}

// ResolveByToken 校验令牌并按其中的主体 ID 查找
func (r *Resolver) ResolveByToken(ctx context.Context, token string) (*model.Principal, error) {
	if token == "" {
		return nil, ErrNotAuthenticated
	}
	claims, err := ParseToken(r.cfg, token)
	if err != nil {
		log.Printf("[auth] token rejected: %v", err)
		return nil, ErrNotAuthenticated
	}

	p, err := r.ResolveByID(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotAuthenticated
	}
	return p, nil
}

// ResolveByID 按 ID 查找主体；两个集合都没有时返回 (nil, nil)
func (r *Resolver) ResolveByID(ctx context.Context, id string) (*model.Principal, error) {
	user, err := r.store.GetUserByID(ctx, id)
	if err != nil {
		return nil, apperr.Storage("lookup user by id", err)
	}
	if user != nil {
		return user.Principal(), nil
	}

	admin, err := r.store.GetAdminByID(ctx, id)
	if err != nil {
		return nil, apperr.Storage("lookup admin by id", err)
	}
	if admin != nil {
		return admin.Principal(), nil
	}
	return nil, nil
}

// IssueToken 为主体签发访问令牌
func (r *Resolver) IssueToken(principalID string) (string, error) {
	token, err := GenerateAccessToken(r.cfg, principalID)
	if err != nil {
		return "", apperr.Storage("sign token", err)
	}
	return token, nil
}
