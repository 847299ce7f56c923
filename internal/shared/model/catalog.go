package model

import "time"

// Category 分类，独占其下所有 Element
type Category struct {
	ID        string    `json:"_id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Image     string    `json:"image" bson:"image"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}

// Element 分类下的条目
//
// CategoryID 仅在创建时要求格式合法，之后不再校验引用。
type Element struct {
	ID            string    `json:"_id" bson:"_id"`
	Name          string    `json:"name" bson:"name"`
	Address       string    `json:"address" bson:"address"`
	Price         float64   `json:"price" bson:"price"`
	Description   string    `json:"description" bson:"description"`
	Image         string    `json:"image" bson:"image"`
	CategoryID    string    `json:"category" bson:"category_id"`
	IsRecommended bool      `json:"isRecommended" bson:"is_recommended"`
	CreatedAt     time.Time `json:"createdAt" bson:"created_at"`

	// 推荐列表中附带的分类名称，不落库
	CategoryName string `json:"-" bson:"-"`
}
