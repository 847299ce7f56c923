package model

import "go.mongodb.org/mongo-driver/v2/bson"

// NewID 生成新的记录 ID（ObjectID 十六进制串）
func NewID() string {
	return bson.NewObjectID().Hex()
}

// ValidID 是否为合法的记录 ID
func ValidID(id string) bool {
	_, err := bson.ObjectIDFromHex(id)
	return err == nil
}
