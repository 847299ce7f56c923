package model

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout 日期字符串格式
const DateLayout = "2006-01-02"

// Schedule 条目的已标记日期，(ElementID, MarkedDate) 唯一
type Schedule struct {
	ID         string    `json:"_id" bson:"_id"`
	ElementID  string    `json:"elementId" bson:"element_id"`
	MarkedDate time.Time `json:"markedDate" bson:"marked_date"`
	CreatedAt  time.Time `json:"createdAt" bson:"created_at"`
}

// NormalizeDate 截断到 UTC 零点
func NormalizeDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate 解析 YYYY-MM-DD 或 RFC3339 时间并归一化到 UTC 零点
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return NormalizeDate(t), nil
}

// FormatDate 格式化为 YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}
