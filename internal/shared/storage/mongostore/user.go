package mongostore

import (
	"context"
	"time"

	"wedding-planner/internal/shared/model"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// ============================================================================
// UserStore
// ============================================================================

func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	return insertOne(ctx, s.col(ColUsers), user)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return findOne[model.User](ctx, s.col(ColUsers), bson.D{{Key: "email", Value: email}})
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return findOne[model.User](ctx, s.col(ColUsers), byID(id))
}

func (s *Store) UpdateUserPassword(ctx context.Context, id, passwordHash string) error {
	return setFields(ctx, s.col(ColUsers), id, bson.D{{Key: "password_hash", Value: passwordHash}})
}

func (s *Store) UpdateUserProfileImage(ctx context.Context, id, path string) error {
	return setFields(ctx, s.col(ColUsers), id, bson.D{{Key: "profile_image", Value: path}})
}

// CountUsersByMonth 按 UTC 年月聚合 since 之后的注册数，升序
func (s *Store) CountUsersByMonth(ctx context.Context, since time.Time) ([]model.MonthlyCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "created_at", Value: bson.D{{Key: "$gte", Value: since}}}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{
				{Key: "year", Value: bson.D{{Key: "$year", Value: "$created_at"}}},
				{Key: "month", Value: bson.D{{Key: "$month", Value: "$created_at"}}},
			}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id.year", Value: 1}, {Key: "_id.month", Value: 1}}}},
	}

	cursor, err := s.col(ColUsers).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, wrapError(err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID struct {
			Year  int `bson:"year"`
			Month int `bson:"month"`
		} `bson:"_id"`
		Count int `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	counts := make([]model.MonthlyCount, 0, len(rows))
	for _, r := range rows {
		counts = append(counts, model.MonthlyCount{Year: r.ID.Year, Month: r.ID.Month, Count: r.Count})
	}
	return counts, nil
}
