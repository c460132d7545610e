package download

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncer_FiresOnceForBurst(t *testing.T) {
	var fired atomic.Int32
	d := NewDebouncer(func() { fired.Add(1) }, 5*time.Millisecond, time.Hour)
	d.Start()
	t.Cleanup(d.Stop)

	for i := 0; i < 20; i++ {
		d.Moved()
	}

	assert.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, 5*time.Millisecond)
	// Further movement within the cooldown does not fire.
	d.Moved()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(1), fired.Load())
}

func TestDebouncer_FiresAgainAfterCooldown(t *testing.T) {
	var fired atomic.Int32
	d := NewDebouncer(func() { fired.Add(1) }, 5*time.Millisecond, 20*time.Millisecond)
	d.Start()
	t.Cleanup(d.Stop)

	d.Moved()
	assert.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, 5*time.Millisecond)
	d.Moved()
	assert.Eventually(t, func() bool { return fired.Load() == 2 }, time.Second, 5*time.Millisecond)
}

func TestDebouncer_NoMoveNoFire(t *testing.T) {
	var fired atomic.Int32
	d := NewDebouncer(func() { fired.Add(1) }, 5*time.Millisecond, 5*time.Millisecond)
	d.Start()

	time.Sleep(30 * time.Millisecond)
	d.Stop()

	assert.Zero(t, fired.Load())
}

func TestDebouncer_Stop(t *testing.T) {
	var fired atomic.Int32
	d := NewDebouncer(func() { fired.Add(1) }, 5*time.Millisecond, 5*time.Millisecond)
	d.Start()
	assert.True(t, d.Running())

	d.Stop()
	d.Stop()
	d.Moved()
	time.Sleep(20 * time.Millisecond)

	assert.False(t, d.Running())
	assert.Zero(t, fired.Load())
}

func TestDebouncer_StopBeforeStart(t *testing.T) {
	d := NewDebouncer(func() {}, 0, 0)

	d.Stop()
	d.Start()

	assert.False(t, d.Running())
}

func TestNewDebouncer_Defaults(t *testing.T) {
	d := NewDebouncer(func() {}, 0, -1)

	assert.Equal(t, DefaultTick, d.tick)
	assert.Equal(t, DefaultCooldown, d.cooldown)
}
