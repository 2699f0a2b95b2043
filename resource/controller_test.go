package resource

import (
	"testing"
)

func TestController_MemoryLimit(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 1000})

	if err := c.AcquireMemory(600); err != nil {
		t.Fatalf("first acquire failed: %v", err)
	}
	if err := c.AcquireMemory(600); err == nil {
		t.Fatal("expected ErrMemoryLimitExceeded")
	}
	if c.MemoryUsage() != 600 {
		t.Errorf("expected usage 600, got %d", c.MemoryUsage())
	}

	c.ReleaseMemory(600)
	if c.MemoryUsage() != 0 {
		t.Errorf("expected usage 0, got %d", c.MemoryUsage())
	}
	if err := c.AcquireMemory(1000); err != nil {
		t.Errorf("acquire after release failed: %v", err)
	}
}

func TestController_Unlimited(t *testing.T) {
	c := NewController(Config{})
	if err := c.AcquireMemory(1 << 40); err != nil {
		t.Fatalf("unlimited controller refused memory: %v", err)
	}
	if c.MemoryUsage() != 1<<40 {
		t.Errorf("expected usage tracked, got %d", c.MemoryUsage())
	}
}

func TestController_Nil(t *testing.T) {
	var c *Controller
	if err := c.AcquireMemory(100); err != nil {
		t.Errorf("nil controller should accept: %v", err)
	}
	c.ReleaseMemory(100)
	if c.MemoryUsage() != 0 {
		t.Error("nil controller should report zero usage")
	}
	if !c.TryAcquireSpill(1 << 30) {
		t.Error("nil controller should admit spill")
	}
}

func TestController_SpillThrottle(t *testing.T) {
	c := NewController(Config{SpillLimitBytesPerSec: 1024})

	// The burst bucket admits up to one second of bandwidth immediately.
	if !c.TryAcquireSpill(1024) {
		t.Fatal("burst acquisition should succeed")
	}
	if c.TryAcquireSpill(1024) {
		t.Error("second immediate acquisition should be throttled")
	}
}
