package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gopher0727/GroupChat/internal/services"
	logger "github.com/Gopher0727/GroupChat/middleware/log"
)

// GroupHandler 群组处理器
type GroupHandler struct {
	groupService *services.GroupService
	log          *logger.Logger
}

// NewGroupHandler 创建群组处理器实例
func NewGroupHandler(groupService *services.GroupService, log *logger.Logger) *GroupHandler {
	return &GroupHandler{
		groupService: groupService,
		log:          log.Named("handlers.group"),
	}
}

type CreateGroupRequest struct {
	Name   string `json:"name" form:"name"`
	UserID string `json:"user_id" form:"user_id"`
}

type JoinGroupRequest struct {
	UserID string `json:"user_id" form:"user_id"`
}

type RemoveMemberRequest struct {
	UserID  string `json:"user_id" form:"user_id"`   // 被移除的用户
	OwnerID string `json:"owner_id" form:"owner_id"` // 发起请求的群主
}

type DeleteGroupRequest struct {
	UserID string `json:"user_id" form:"user_id"`
}

// Create 创建群组
func (h *GroupHandler) Create(c *gin.Context) {
	var req CreateGroupRequest
	if !bindBody(c, &req) {
		return
	}

	group, err := h.groupService.Create(c.Request.Context(), req.Name, req.UserID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, group)
}

// List 分页获取群组列表
func (h *GroupHandler) List(c *gin.Context) {
	list, err := h.groupService.List(c.Request.Context(), pageQuery(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Join 加入群组
func (h *GroupHandler) Join(c *gin.Context) {
	groupID, ok := groupIDParam(c)
	if !ok {
		return
	}
	var req JoinGroupRequest
	if !bindBody(c, &req) {
		return
	}

	res, err := h.groupService.Join(c.Request.Context(), groupID, req.UserID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	message := "User joined the group successfully"
	if res.AlreadyMember {
		message = "User is already a member of this group"
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  message,
		"user_id":  req.UserID,
		"group_id": groupID,
	})
}

// RemoveMember 群主移除成员
func (h *GroupHandler) RemoveMember(c *gin.Context) {
	groupID, ok := groupIDParam(c)
	if !ok {
		return
	}
	var req RemoveMemberRequest
	if !bindBody(c, &req) {
		return
	}

	if err := h.groupService.RemoveMember(c.Request.Context(), groupID, req.UserID, req.OwnerID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User removed from the group successfully"})
}

// Delete 群主删除群组
func (h *GroupHandler) Delete(c *gin.Context) {
	groupID, ok := groupIDParam(c)
	if !ok {
		return
	}
	var req DeleteGroupRequest
	if !bindBody(c, &req) {
		return
	}

	if err := h.groupService.Delete(c.Request.Context(), groupID, req.UserID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Group deleted successfully"})
}
