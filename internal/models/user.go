package models

import "time"

// User 用户，注册后不可修改，也没有删除入口
type User struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"` // UUID v4
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

func (User) TableName() string {
	return "users"
}
