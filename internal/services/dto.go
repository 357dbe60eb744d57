package services

import (
	"github.com/Gopher0727/GroupChat/internal/models"
)

// TimeLayout 响应中时间字段的格式
const TimeLayout = "2006-01-02 15:04:05"

// UserDTO 用户数据传输对象
type UserDTO struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	CreatedAt string `json:"created_at"`
}

// GroupDTO 群组数据传输对象
type GroupDTO struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	CreatedBy string `json:"created_by"`
	CreatedAt string `json:"created_at"`
}

// MessageDTO 发送消息后的返回
type MessageDTO struct {
	ID        uint   `json:"id"`
	UserID    string `json:"user_id"`
	GroupID   uint   `json:"group_id"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// AuthorDTO 消息列表中的作者信息
type AuthorDTO struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// GroupMessageDTO 消息列表中的一条消息
type GroupMessageDTO struct {
	ID        uint      `json:"id"`
	Content   string    `json:"content"`
	CreatedAt string    `json:"created_at"`
	User      AuthorDTO `json:"user"`
}

type GroupList struct {
	Groups     []GroupDTO      `json:"groups"`
	Pagination GroupPagination `json:"pagination"`
}

type MessageList struct {
	GroupID    uint              `json:"group_id"`
	Messages   []GroupMessageDTO `json:"messages"`
	Pagination MessagePagination `json:"pagination"`
}

func toUserDTO(u *models.User) *UserDTO {
	return &UserDTO{
		ID:        u.ID,
		Username:  u.Username,
		CreatedAt: u.CreatedAt.Format(TimeLayout),
	}
}

func toGroupDTO(g models.Group) GroupDTO {
	return GroupDTO{
		ID:        g.ID,
		Name:      g.Name,
		CreatedBy: g.CreatedBy,
		CreatedAt: g.CreatedAt.Format(TimeLayout),
	}
}

func toMessageDTO(m *models.Message) *MessageDTO {
	return &MessageDTO{
		ID:        m.ID,
		UserID:    m.UserID,
		GroupID:   m.GroupID,
		Content:   m.Content,
		CreatedAt: m.CreatedAt.Format(TimeLayout),
	}
}

func toGroupMessageDTO(m models.Message) GroupMessageDTO {
	author := AuthorDTO{ID: m.UserID}
	if m.User != nil {
		author.Username = m.User.Username
	}
	return GroupMessageDTO{
		ID:        m.ID,
		Content:   m.Content,
		CreatedAt: m.CreatedAt.Format(TimeLayout),
		User:      author,
	}
}
