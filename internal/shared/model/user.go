package model

import "time"

// Role 主体角色，创建后不可变
type Role string

const (
	RoleClient Role = "client"
	RoleAdmin  Role = "admin"
)

// 默认头像（不会被资源清理删除）
const (
	DefaultAvatarPath      = "/uploads/default-avatar.png"
	DefaultAdminAvatarPath = "/uploads/default-admin.png"
)

// User 普通用户（users 集合）
type User struct {
	ID           string    `json:"_id" bson:"_id"`
	Name         string    `json:"name" bson:"name"`
	Email        string    `json:"email" bson:"email"`
	Phone        string    `json:"phone" bson:"phone"`
	ProfileImage string    `json:"profileImage" bson:"profile_image"`
	PasswordHash string    `json:"-" bson:"password_hash"` // never expose in JSON
	Role         Role      `json:"role" bson:"role"`
	CreatedAt    time.Time `json:"createdAt" bson:"created_at"`
}

// Admin 管理员（admins 集合，全局至多一条 role=admin 记录）
type Admin struct {
	ID           string    `json:"_id" bson:"_id"`
	Name         string    `json:"name" bson:"name"`
	Email        string    `json:"email" bson:"email"`
	Phone        string    `json:"phone" bson:"phone"`
	ProfileImage string    `json:"profileImage" bson:"profile_image"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Role         Role      `json:"role" bson:"role"`
	CreatedAt    time.Time `json:"createdAt" bson:"created_at"`
}

// PrincipalKind 主体来源集合
type PrincipalKind string

const (
	PrincipalUser  PrincipalKind = "user"
	PrincipalAdmin PrincipalKind = "admin"
)

// Principal 已认证主体
//
// 下游代码只依赖 ID 与 Role，不关心主体来自哪个集合；
// Kind 仅供需要回写记录的账号操作（改密码、换头像）使用。
type Principal struct {
	ID           string        `json:"_id"`
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	Phone        string        `json:"phone"`
	ProfileImage string        `json:"profileImage"`
	Role         Role          `json:"role"`
	CreatedAt    time.Time     `json:"createdAt"`
	Kind         PrincipalKind `json:"-"`
	PasswordHash string        `json:"-"`
}

// IsAdmin 角色是否为管理员
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// Principal 转换为认证主体
func (u *User) Principal() *Principal {
	return &Principal{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Phone:        u.Phone,
		ProfileImage: u.ProfileImage,
		Role:         u.Role,
		CreatedAt:    u.CreatedAt,
		Kind:         PrincipalUser,
		PasswordHash: u.PasswordHash,
	}
}

// Principal 转换为认证主体
func (a *Admin) Principal() *Principal {
	return &Principal{
		ID:           a.ID,
		Name:         a.Name,
		Email:        a.Email,
		Phone:        a.Phone,
		ProfileImage: a.ProfileImage,
		Role:         a.Role,
		CreatedAt:    a.CreatedAt,
		Kind:         PrincipalAdmin,
		PasswordHash: a.PasswordHash,
	}
}

// MonthlyCount 按月注册数
type MonthlyCount struct {
	Year  int `json:"year" bson:"year"`
	Month int `json:"month" bson:"month"`
	Count int `json:"count" bson:"count"`
}
