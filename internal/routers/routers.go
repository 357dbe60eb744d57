package routers

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Gopher0727/GroupChat/internal/api"
	"github.com/Gopher0727/GroupChat/internal/handlers"
	"github.com/Gopher0727/GroupChat/internal/middlewares"
	"github.com/Gopher0727/GroupChat/internal/utils"
)

// Handlers 路由需要的全部处理器
type Handlers struct {
	User    *handlers.UserHandler
	Group   *handlers.GroupHandler
	Message *handlers.MessageHandler
	Health  *handlers.HealthHandler
}

// SetupRoutes 设置所有路由
// pool 为 nil 时请求在 gin 的 goroutine 中直接处理
func SetupRoutes(r *gin.Engine, mw *api.MiddlewareManager, pool *utils.WorkerPool, h Handlers) {
	r.Use(mw.RequestLogger(), mw.Recovery())

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowCredentials = true
	config.AllowHeaders = []string{"X-Requested-With", "Content-Type", "Accept", "Origin", "Authorization", api.RequestIDHeader}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	config.ExposeHeaders = []string{api.RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"}
	r.Use(cors.New(config))

	// 健康检查不计入限流，也不进入协程池
	r.GET("/", h.Health.Root)
	r.GET("/health", h.Health.Health)

	// 全局限流中间件
	r.Use(mw.RateLimit())

	// 异步处理中间件，将请求放入 Worker Pool 中排队执行
	r.Use(middlewares.AsyncMiddleware(pool))

	RegisterUserRoutes(r, h.User)
	RegisterGroupRoutes(r, h.Group, h.Message)
	RegisterMessageRoutes(r, h.Message)
}

func RegisterUserRoutes(r *gin.Engine, userHandler *handlers.UserHandler) {
	userGroup := r.Group("/users")
	{
		userGroup.POST("", userHandler.Create) // 注册
		userGroup.GET("/:id", userHandler.Get) // 获取用户
	}
}

func RegisterGroupRoutes(r *gin.Engine, groupHandler *handlers.GroupHandler, messageHandler *handlers.MessageHandler) {
	groupGroup := r.Group("/groups")
	{
		groupGroup.POST("", groupHandler.Create) // 创建群组
		groupGroup.GET("", groupHandler.List)    // 群组列表

		// 成员管理
		groupGroup.POST("/:id/join", groupHandler.Join)             // 加入群组
		groupGroup.DELETE("/:id/members", groupHandler.RemoveMember) // 群主移除成员
		groupGroup.DELETE("/:id", groupHandler.Delete)               // 群主删除群组

		groupGroup.GET("/:id/messages", messageHandler.ListByGroup) // 获取群消息
	}
}

func RegisterMessageRoutes(r *gin.Engine, messageHandler *handlers.MessageHandler) {
	r.POST("/messages", messageHandler.Post) // 发送消息
}
