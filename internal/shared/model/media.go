package model

import "time"

// MediaKind 媒体类型
type MediaKind string

const (
	MediaPhoto MediaKind = "photo"
	MediaVideo MediaKind = "video"
)

// Valid 是否为已知媒体类型
func (k MediaKind) Valid() bool {
	return k == MediaPhoto || k == MediaVideo
}

// Media 条目的媒体附件
//
// 与 Element 之间只有 elementId 引用，删除 Element 不会级联删除附件。
type Media struct {
	ID           string    `json:"_id" bson:"_id"`
	ElementID    string    `json:"elementId" bson:"element_id"`
	Filename     string    `json:"filename" bson:"filename"`
	OriginalName string    `json:"originalName" bson:"original_name"`
	Path         string    `json:"path" bson:"path"`
	Type         MediaKind `json:"type" bson:"type"`
	UploadedAt   time.Time `json:"uploadedAt" bson:"uploaded_at"`
}
