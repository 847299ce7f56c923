package mongostore

import (
	"context"
	"time"

	"wedding-planner/internal/shared/model"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ============================================================================
// ScheduleStore
// ============================================================================

// CreateSchedule 依赖 (element_id, marked_date) 唯一索引，竞争失败方得到 ErrDuplicate
func (s *Store) CreateSchedule(ctx context.Context, schedule *model.Schedule) error {
	return insertOne(ctx, s.col(ColSchedules), schedule)
}

func (s *Store) FindSchedule(ctx context.Context, elementID string, date time.Time) (*model.Schedule, error) {
	return findOne[model.Schedule](ctx, s.col(ColSchedules), scheduleKey(elementID, date))
}

func (s *Store) ListSchedulesByElement(ctx context.Context, elementID string) ([]*model.Schedule, error) {
	filter := bson.D{{Key: "element_id", Value: elementID}}
	opts := options.Find().SetSort(bson.D{{Key: "marked_date", Value: 1}})
	return findMany[model.Schedule](ctx, s.col(ColSchedules), filter, opts)
}

func (s *Store) DeleteSchedule(ctx context.Context, id string) error {
	return deleteOne(ctx, s.col(ColSchedules), byID(id))
}

func (s *Store) DeleteScheduleByDate(ctx context.Context, elementID string, date time.Time) error {
	return deleteOne(ctx, s.col(ColSchedules), scheduleKey(elementID, date))
}

func scheduleKey(elementID string, date time.Time) bson.D {
	return bson.D{
		{Key: "element_id", Value: elementID},
		{Key: "marked_date", Value: model.NormalizeDate(date)},
	}
}
