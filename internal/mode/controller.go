package mode

import (
	"sync"

	"github.com/osmnl/pdok-report/internal/domain"
)

// Controller keeps exactly one mode attached to the pointer source.
type Controller struct {
	source  domain.PointerSource
	current Mode
	env     Env
	mu      sync.Mutex
}

// NewController creates a controller with select mode attached.
func NewController(source domain.PointerSource, env Env) *Controller {
	c := &Controller{source: source, env: env}
	c.attach(NewSelect(env))
	return c
}

func (c *Controller) attach(m Mode) {
	c.current = m
	if c.source != nil {
		c.source.AddPointerListener(m)
	}
}

func (c *Controller) detach() {
	if c.current == nil {
		return
	}
	if c.source != nil {
		c.source.RemovePointerListener(c.current)
	}
	c.current.Reset()
	c.current = nil
}

// Switch activates the mode of kind k. Switching to the active kind does nothing.
func (c *Controller) Switch(k Kind) Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != nil && c.current.Kind() == k {
		return c.current
	}
	c.detach()
	switch k {
	case KindJoin:
		c.attach(NewJoin(c.env))
	default:
		c.attach(NewSelect(c.env))
	}
	c.env.Store.Invalidate()
	return c.current
}

// Current returns the active mode, or nil after Close.
func (c *Controller) Current() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Link returns the join link while join mode is active.
func (c *Controller) Link() (Link, bool) {
	if j, ok := c.Current().(*Join); ok {
		return j.Link()
	}
	return Link{}, false
}

// Close detaches the active mode.
func (c *Controller) Close() {
	c.mu.Lock()
	c.detach()
	c.mu.Unlock()
}
