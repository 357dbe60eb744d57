package handlers

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Gopher0727/GroupChat/internal/services"
	logger "github.com/Gopher0727/GroupChat/middleware/log"
)

// MessageHandler 消息处理器
type MessageHandler struct {
	messageService *services.MessageService
	log            *logger.Logger
}

// NewMessageHandler 创建消息处理器实例
func NewMessageHandler(messageService *services.MessageService, log *logger.Logger) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		log:            log.Named("handlers.message"),
	}
}

type PostMessageRequest struct {
	UserID  string      `json:"user_id" form:"user_id"`
	GroupID BodyGroupID `json:"group_id" form:"group_id"`
	Content string      `json:"content" form:"content"`
}

// BodyGroupID 请求体中的群组 ID，接受数字或数字字符串 ("5")
// 缺省、null、空串视为未提供；其他无法解析的值标记为非法，由处理器返回 400
type BodyGroupID struct {
	ID      uint
	Invalid bool
}

func (g *BodyGroupID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*g = BodyGroupID{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		s, err := strconv.Unquote(string(data))
		if err != nil {
			*g = BodyGroupID{Invalid: true}
			return nil
		}
		return g.UnmarshalParam(s)
	}
	return g.UnmarshalParam(string(data))
}

// UnmarshalParam 用于表单绑定
func (g *BodyGroupID) UnmarshalParam(param string) error {
	param = strings.TrimSpace(param)
	if param == "" {
		*g = BodyGroupID{}
		return nil
	}
	id, err := strconv.ParseUint(param, 10, strconv.IntSize)
	if err != nil {
		*g = BodyGroupID{Invalid: true}
		return nil
	}
	*g = BodyGroupID{ID: uint(id)}
	return nil
}

// Post 发送消息
func (h *MessageHandler) Post(c *gin.Context) {
	var req PostMessageRequest
	if !bindBody(c, &req) {
		return
	}

	if req.GroupID.Invalid {
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidGroupIDMessage})
		return
	}

	msg, err := h.messageService.Post(c.Request.Context(), req.GroupID.ID, req.UserID, req.Content)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// ListByGroup 获取群消息，user_id 在查询参数中
func (h *MessageHandler) ListByGroup(c *gin.Context) {
	groupID, ok := groupIDParam(c)
	if !ok {
		return
	}

	list, err := h.messageService.ListByGroup(c.Request.Context(), groupID, c.Query("user_id"), pageQuery(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
