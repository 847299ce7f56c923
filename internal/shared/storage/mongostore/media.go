package mongostore

import (
	"context"

	"wedding-planner/internal/shared/model"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ============================================================================
// MediaStore
// ============================================================================

func (s *Store) CreateMedia(ctx context.Context, media *model.Media) error {
	return insertOne(ctx, s.col(ColMedia), media)
}

func (s *Store) GetMedia(ctx context.Context, id string) (*model.Media, error) {
	return findOne[model.Media](ctx, s.col(ColMedia), byID(id))
}

func (s *Store) ListMediaByElement(ctx context.Context, elementID string) ([]*model.Media, error) {
	filter := bson.D{{Key: "element_id", Value: elementID}}
	return findMany[model.Media](ctx, s.col(ColMedia), filter, newestFirst("uploaded_at"))
}

func (s *Store) DeleteMedia(ctx context.Context, id string) error {
	return deleteOne(ctx, s.col(ColMedia), byID(id))
}
