package utils

import (
	"sync"

	"go.uber.org/zap"

	logger "github.com/Gopher0727/GroupChat/middleware/log"
)

// WorkerPool 固定数量的协程从有界队列中取任务执行
type WorkerPool struct {
	jobs      chan func()
	workerNum int
	log       *logger.Logger

	wg sync.WaitGroup
	// mu 保证 Stop 关闭队列时没有 Submit 正在写入
	mu      sync.RWMutex
	stopped bool
}

// NewWorkerPool 创建一个新的协程池，需要调用 Start 后才会执行任务
func NewWorkerPool(workerNum, queueSize int, log *logger.Logger) *WorkerPool {
	if workerNum < 1 {
		workerNum = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	return &WorkerPool{
		jobs:      make(chan func(), queueSize),
		workerNum: workerNum,
		log:       log.Named("worker_pool"),
	}
}

// Start 启动协程池
func (p *WorkerPool) Start() {
	for i := 0; i < p.workerNum; i++ {
		p.wg.Add(1)
		go p.work(i)
	}
	p.log.Info("worker pool started", zap.Int("workers", p.workerNum), zap.Int("queue_size", cap(p.jobs)))
}

// work 队列关闭后仍会执行完剩余任务再退出
func (p *WorkerPool) work(workerID int) {
	defer p.wg.Done()
	for job := range p.jobs {
		p.run(workerID, job)
	}
}

// run 单个任务 panic 不会导致 worker 退出
func (p *WorkerPool) run(workerID int, job func()) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("job panicked", zap.Int("worker", workerID), zap.Any("panic", r))
		}
	}()
	job()
}

// Submit 提交任务到协程池
// 队列已满时阻塞等待空位，协程池已停止时返回 false。返回 true 的任务保证会被执行
func (p *WorkerPool) Submit(job func()) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return false
	}
	p.jobs <- job
	return true
}

// Stop 停止接收新任务，等待队列中已提交的任务执行完毕后返回
func (p *WorkerPool) Stop() {
	p.mu.Lock()
	if !p.stopped {
		p.stopped = true
		close(p.jobs)
	}
	p.mu.Unlock()

	p.wg.Wait()
	p.log.Info("worker pool stopped")
}
