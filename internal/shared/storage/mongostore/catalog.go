package mongostore

import (
	"context"

	"wedding-planner/internal/shared/model"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ============================================================================
// CategoryStore
// ============================================================================

func (s *Store) CreateCategory(ctx context.Context, category *model.Category) error {
	return insertOne(ctx, s.col(ColCategories), category)
}

func (s *Store) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	return findOne[model.Category](ctx, s.col(ColCategories), byID(id))
}

func (s *Store) ListCategories(ctx context.Context) ([]*model.Category, error) {
	return findMany[model.Category](ctx, s.col(ColCategories), bson.D{}, newestFirst("created_at"))
}

func (s *Store) UpdateCategory(ctx context.Context, category *model.Category) error {
	return setFields(ctx, s.col(ColCategories), category.ID, bson.D{
		{Key: "name", Value: category.Name},
		{Key: "image", Value: category.Image},
	})
}

func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	return deleteOne(ctx, s.col(ColCategories), byID(id))
}

// ============================================================================
// ElementStore
// ============================================================================

func (s *Store) CreateElement(ctx context.Context, element *model.Element) error {
	return insertOne(ctx, s.col(ColElements), element)
}

func (s *Store) GetElement(ctx context.Context, id string) (*model.Element, error) {
	return findOne[model.Element](ctx, s.col(ColElements), byID(id))
}

func (s *Store) ListElementsByCategory(ctx context.Context, categoryID string) ([]*model.Element, error) {
	filter := bson.D{{Key: "category_id", Value: categoryID}}
	return findMany[model.Element](ctx, s.col(ColElements), filter, newestFirst("created_at"))
}

func (s *Store) ListRecommendedElements(ctx context.Context) ([]*model.Element, error) {
	filter := bson.D{{Key: "is_recommended", Value: true}}
	return findMany[model.Element](ctx, s.col(ColElements), filter, newestFirst("created_at"))
}

func (s *Store) UpdateElement(ctx context.Context, element *model.Element) error {
	return replaceOne(ctx, s.col(ColElements), element.ID, element)
}

func (s *Store) DeleteElement(ctx context.Context, id string) error {
	return deleteOne(ctx, s.col(ColElements), byID(id))
}
