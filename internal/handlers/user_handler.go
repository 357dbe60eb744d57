package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gopher0727/GroupChat/internal/services"
	logger "github.com/Gopher0727/GroupChat/middleware/log"
)

// UserHandler 用户处理器
type UserHandler struct {
	userService *services.UserService
	log         *logger.Logger
}

// NewUserHandler 创建用户处理器实例
func NewUserHandler(userService *services.UserService, log *logger.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		log:         log.Named("handlers.user"),
	}
}

type CreateUserRequest struct {
	Username string `json:"username" form:"username"`
}

// Create 注册用户
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if !bindBody(c, &req) {
		return
	}

	user, err := h.userService.Register(c.Request.Context(), req.Username)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Get 根据 ID 获取用户
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.userService.Fetch(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
