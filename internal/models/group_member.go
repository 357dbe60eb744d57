package models

import "time"

// GroupMember 成员关系，(user_id, group_id) 为联合主键
type GroupMember struct {
	UserID   string    `gorm:"primaryKey;type:varchar(36);autoIncrement:false" json:"user_id"`
	GroupID  uint      `gorm:"primaryKey;autoIncrement:false;index" json:"group_id"`
	JoinedAt time.Time `gorm:"not null" json:"joined_at"`

	User  *User  `gorm:"foreignKey:UserID" json:"-"`
	Group *Group `gorm:"foreignKey:GroupID" json:"-"`
}

func (GroupMember) TableName() string {
	return "group_members"
}
