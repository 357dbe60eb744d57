package models

import "time"

// Group 群组，由创建者 (CreatedBy) 独占所有权
// 删除群组时级联删除其消息与成员关系
type Group struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	CreatedBy string    `gorm:"type:varchar(36);not null;index" json:"created_by"`
	CreatedAt time.Time `json:"created_at"`

	Owner *User `gorm:"foreignKey:CreatedBy" json:"-"`
}

func (Group) TableName() string {
	return "groups"
}
