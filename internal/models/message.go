package models

import "time"

// Message 群消息，创建后不可修改，只随群组一起删除
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	GroupID   uint      `gorm:"not null;index:idx_messages_group_created,priority:1" json:"group_id"`
	UserID    string    `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"index:idx_messages_group_created,priority:2" json:"created_at"`

	User  *User  `gorm:"foreignKey:UserID" json:"-"`
	Group *Group `gorm:"foreignKey:GroupID" json:"-"`
}

func (Message) TableName() string {
	return "messages"
}
