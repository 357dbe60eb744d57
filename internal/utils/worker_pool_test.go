package utils

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	logger "github.com/Gopher0727/GroupChat/middleware/log"
)

func TestWorkerPoolRunsJobs(t *testing.T) {
	pool := NewWorkerPool(4, 16, logger.NewNop())
	pool.Start()
	defer pool.Stop()

	var (
		wg    sync.WaitGroup
		count atomic.Int64
	)
	for range 100 {
		wg.Add(1)
		require.True(t, pool.Submit(func() {
			defer wg.Done()
			count.Add(1)
		}))
	}
	wg.Wait()
	assert.EqualValues(t, 100, count.Load())
}

func TestWorkerPoolSurvivesPanics(t *testing.T) {
	pool := NewWorkerPool(1, 1, logger.NewNop())
	pool.Start()
	defer pool.Stop()

	pool.Submit(func() { panic("boom") })

	done := make(chan struct{})
	pool.Submit(func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not recover from panic")
	}
}

func TestWorkerPoolStop(t *testing.T) {
	pool := NewWorkerPool(0, 0, logger.NewNop())
	assert.Equal(t, 1, pool.workerNum)
	pool.Start()

	pool.Stop()
	pool.Stop() // 重复调用安全

	assert.False(t, pool.Submit(func() {}))
}

func TestWorkerPoolStopRunsQueuedJobs(t *testing.T) {
	pool := NewWorkerPool(1, 8, logger.NewNop())
	pool.Start()

	release := make(chan struct{})
	started := make(chan struct{})
	require.True(t, pool.Submit(func() {
		close(started)
		<-release
	}))
	<-started

	// worker 被占用，以下任务都留在队列中
	var count atomic.Int64
	for range 5 {
		require.True(t, pool.Submit(func() { count.Add(1) }))
	}

	stopped := make(chan struct{})
	go func() {
		pool.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while a job was still running")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
	assert.EqualValues(t, 5, count.Load())
	assert.False(t, pool.Submit(func() {}))
}

func TestWorkerPoolSubmitRacingStop(t *testing.T) {
	pool := NewWorkerPool(2, 4, logger.NewNop())
	pool.Start()

	var (
		wg        sync.WaitGroup
		accepted  atomic.Int64
		completed atomic.Int64
	)
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if pool.Submit(func() { completed.Add(1) }) {
				accepted.Add(1)
			}
		}()
	}
	pool.Stop()
	wg.Wait()

	// 被接受的任务一个都不会丢
	assert.Equal(t, accepted.Load(), completed.Load())
}
