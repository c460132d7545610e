package download

import (
	"sync"
	"sync/atomic"
	"time"
)

// Default debouncer timing.
const (
	DefaultTick     = 100 * time.Millisecond
	DefaultCooldown = 2 * time.Second
)

// Debouncer coalesces bursts of viewport movement into single downloads.
// Every tick it checks whether the view moved and at least cooldown has passed
// since the last fire; if so it fires once and clears the moved flag.
//
// A Debouncer runs until Stop and cannot be restarted.
type Debouncer struct {
	lastFire time.Time
	fire     func()
	now      func() time.Time
	stop     chan struct{}
	done     chan struct{}
	tick     time.Duration
	cooldown time.Duration
	start    sync.Once
	halt     sync.Once
	moved    atomic.Bool
	running  atomic.Bool
}

// NewDebouncer creates a debouncer calling fire. Zero durations use the defaults.
func NewDebouncer(fire func(), tick, cooldown time.Duration) *Debouncer {
	if tick <= 0 {
		tick = DefaultTick
	}
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Debouncer{
		fire:     fire,
		now:      time.Now,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		tick:     tick,
		cooldown: cooldown,
	}
}

// Start launches the background loop. Subsequent calls do nothing.
func (d *Debouncer) Start() {
	d.start.Do(func() {
		d.running.Store(true)
		go d.loop()
	})
}

// Moved records that the viewport changed.
func (d *Debouncer) Moved() {
	d.moved.Store(true)
}

// Running reports whether the loop is active.
func (d *Debouncer) Running() bool {
	return d.running.Load()
}

// Stop ends the loop and waits for it. A stopped debouncer never fires again.
func (d *Debouncer) Stop() {
	d.halt.Do(func() {
		close(d.stop)
		d.start.Do(func() { close(d.done) })
		<-d.done
		d.running.Store(false)
	})
}

func (d *Debouncer) loop() {
	defer close(d.done)

	ticker := time.NewTicker(d.tick)
	defer ticker.Stop()

	for {
		select {
		case <-d.stop:
			return
		case <-ticker.C:
			now := d.now()
			if d.moved.Load() && now.Sub(d.lastFire) >= d.cooldown {
				d.lastFire = now
				d.moved.Store(false)
				d.fire()
			}
		}
	}
}
