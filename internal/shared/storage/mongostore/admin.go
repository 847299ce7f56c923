package mongostore

import (
	"context"

	"wedding-planner/internal/shared/model"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ============================================================================
// AdminStore
// ============================================================================

// CreateAdmin 插入管理员；admins.role 唯一索引拒绝第二个 admin
func (s *Store) CreateAdmin(ctx context.Context, admin *model.Admin) error {
	return insertOne(ctx, s.col(ColAdmins), admin)
}

func (s *Store) GetAdmin(ctx context.Context) (*model.Admin, error) {
	return findOne[model.Admin](ctx, s.col(ColAdmins), bson.D{{Key: "role", Value: model.RoleAdmin}})
}

func (s *Store) GetAdminByEmail(ctx context.Context, email string) (*model.Admin, error) {
	return findOne[model.Admin](ctx, s.col(ColAdmins), bson.D{{Key: "email", Value: email}})
}

func (s *Store) GetAdminByID(ctx context.Context, id string) (*model.Admin, error) {
	return findOne[model.Admin](ctx, s.col(ColAdmins), byID(id))
}

func (s *Store) UpdateAdminPassword(ctx context.Context, id, passwordHash string) error {
	return setFields(ctx, s.col(ColAdmins), id, bson.D{{Key: "password_hash", Value: passwordHash}})
}

func (s *Store) UpdateAdminProfileImage(ctx context.Context, id, path string) error {
	return setFields(ctx, s.col(ColAdmins), id, bson.D{{Key: "profile_image", Value: path}})
}
