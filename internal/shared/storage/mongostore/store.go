// Package mongostore 实现基于 MongoDB 的 PersistentStore
//
// 使用 mongo-go-driver v2，通过 bson tag 实现 model 结构体的序列化/反序列化。
// 唯一性约束全部由索引承担（见 ensureIndexes），驱动层把重复键错误
// 统一转换为 storage.ErrDuplicate。
package mongostore

import (
	"context"
	"fmt"
	"log"
	"time"

	"wedding-planner/internal/shared/storage"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Collection 名称常量
const (
	ColUsers      = "users"
	ColAdmins     = "admins"
	ColCategories = "categories"
	ColElements   = "elements"
	ColMedia      = "media"
	ColSchedules  = "schedules"
)

// Store 实现 storage.PersistentStore 接口的 MongoDB 驱动
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ storage.PersistentStore = (*Store)(nil)

// NewStore 创建 MongoDB 存储实例
//
// uri: MongoDB 连接 URI，如 "mongodb://localhost:27017"
// dbName: 数据库名称，如 "wedding_planner"
func NewStore(uri, dbName string) (*Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongostore: connect failed: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongostore: ping failed: %w", err)
	}

	s := &Store{client: client, db: client.Database(dbName)}

	// 唯一索引是不变量的一部分，创建失败直接报错
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongostore: ensure indexes: %w", err)
	}

	log.Printf("[mongostore] Connected to database %s", dbName)
	return s, nil
}

// Close 关闭 MongoDB 连接
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *Store) col(name string) *mongo.Collection {
	return s.db.Collection(name)
}

// ensureIndexes 创建所有必要的索引
func (s *Store) ensureIndexes(ctx context.Context) error {
	type idx struct {
		col    string
		keys   bson.D
		unique bool
	}

	indexes := []idx{
		// 邮箱唯一性按集合各自约束
		{ColUsers, bson.D{{Key: "email", Value: 1}}, true},
		{ColUsers, bson.D{{Key: "created_at", Value: -1}}, false},
		{ColAdmins, bson.D{{Key: "email", Value: 1}}, true},
		// 所有管理员记录 role 都是 "admin"，唯一索引保证至多一个
		{ColAdmins, bson.D{{Key: "role", Value: 1}}, true},

		{ColCategories, bson.D{{Key: "name", Value: 1}}, true},
		{ColCategories, bson.D{{Key: "created_at", Value: -1}}, false},

		{ColElements, bson.D{{Key: "category_id", Value: 1}, {Key: "created_at", Value: -1}}, false},
		{ColElements, bson.D{{Key: "is_recommended", Value: 1}}, false},

		{ColMedia, bson.D{{Key: "element_id", Value: 1}, {Key: "uploaded_at", Value: -1}}, false},

		{ColSchedules, bson.D{{Key: "element_id", Value: 1}, {Key: "marked_date", Value: 1}}, true},
	}

	for _, i := range indexes {
		model := mongo.IndexModel{Keys: i.keys}
		if i.unique {
			model.Options = options.Index().SetUnique(true)
		}
		if _, err := s.col(i.col).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("create index on %s: %w", i.col, err)
		}
	}

	return nil
}
