package resource

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// ErrMemoryLimitExceeded is returned when the memory budget would be exceeded.
var ErrMemoryLimitExceeded = errors.New("resource: memory limit exceeded")

// Config holds resource limits.
type Config struct {
	// MemoryLimitBytes is the hard limit for arena-backed memory.
	// If 0, usage is tracked but not limited.
	MemoryLimitBytes int64

	// SpillLimitBytesPerSec caps spill serialization throughput.
	// If 0, unlimited.
	SpillLimitBytesPerSec int64
}

// Controller tracks and limits memory and spill bandwidth. A nil
// *Controller is a valid no-op controller.
type Controller struct {
	cfg Config

	memSem  *semaphore.Weighted // nil if unlimited
	memUsed atomic.Int64

	spillLimiter *rate.Limiter
}

// NewController creates a controller for the given limits.
func NewController(cfg Config) *Controller {
	c := &Controller{cfg: cfg}
	if cfg.MemoryLimitBytes > 0 {
		c.memSem = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}
	if cfg.SpillLimitBytesPerSec > 0 {
		c.spillLimiter = rate.NewLimiter(rate.Limit(cfg.SpillLimitBytesPerSec), int(cfg.SpillLimitBytesPerSec))
	}
	return c
}

// AcquireMemory reserves bytes against the memory budget. Non-blocking:
// callers decide whether to spill, retry, or fail on ErrMemoryLimitExceeded.
func (c *Controller) AcquireMemory(bytes int64) error {
	if c == nil || bytes <= 0 {
		return nil
	}
	if c.memSem != nil {
		if !c.memSem.TryAcquire(bytes) {
			return ErrMemoryLimitExceeded
		}
	}
	c.memUsed.Add(bytes)
	return nil
}

// ReleaseMemory returns reserved bytes to the budget.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil || bytes <= 0 {
		return
	}
	if c.memSem != nil {
		c.memSem.Release(bytes)
	}
	c.memUsed.Add(-bytes)
}

// MemoryUsage returns the currently reserved bytes.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.memUsed.Load()
}

// MemoryLimit returns the configured memory limit (0 if unlimited).
func (c *Controller) MemoryLimit() int64 {
	if c == nil {
		return 0
	}
	return c.cfg.MemoryLimitBytes
}

// AcquireSpill waits until the spill throttle admits the given byte count.
func (c *Controller) AcquireSpill(ctx context.Context, bytes int) error {
	if c == nil || c.spillLimiter == nil {
		return nil
	}
	return c.spillLimiter.WaitN(ctx, bytes)
}

// TryAcquireSpill attempts to admit bytes through the spill throttle
// without blocking.
func (c *Controller) TryAcquireSpill(bytes int) bool {
	if c == nil || c.spillLimiter == nil {
		return true
	}
	return c.spillLimiter.AllowN(time.Now(), bytes)
}
