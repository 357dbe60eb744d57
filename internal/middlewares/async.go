package middlewares

import (
	"github.com/gin-gonic/gin"

	"github.com/Gopher0727/GroupChat/internal/utils"
)

// AsyncMiddleware 将请求的后续处理链提交到协程池中执行
// 协程池限制同时处理的请求数，队列满时请求排队而不是被拒绝
// 调用方 goroutine 阻塞等待，对客户端仍是同步的请求-响应
func AsyncMiddleware(pool *utils.WorkerPool) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 未启用协程池时同步执行
		if pool == nil {
			c.Next()
			return
		}

		done := make(chan struct{})
		var recovered any

		// 同一时间只有 worker 在操作 c，当前 goroutine 阻塞在 <-done
		task := func() {
			defer close(done)
			defer func() {
				recovered = recover()
			}()
			c.Next()
		}

		// 协程池已停止 (进程退出中) 时降级为同步执行
		if !pool.Submit(task) {
			c.Next()
			return
		}
		<-done

		// 在请求 goroutine 中重新抛出，交给 Recovery 中间件处理
		if recovered != nil {
			panic(recovered)
		}
	}
}
