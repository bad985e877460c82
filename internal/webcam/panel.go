package webcam

import (
	"time"

	"github.com/i474232898/ski-tracker/internal/mountain"
)

// Panel is the webcam viewer state for one dashboard: the selected mountain,
// the active camera and its retry counter. It is owned by a single caller
// and not safe for concurrent use.
type Panel struct {
	resolver *Resolver
	force    bool

	mountain   mountain.Key
	cameras    []Entry
	index      int
	retries    map[int]RetryState
	selectedAt time.Time
}

// PanelOption customises a Panel.
type PanelOption func(*Panel)

// WithForcedTimestamp cache-busts every camera regardless of its own flag.
func WithForcedTimestamp() PanelOption {
	return func(p *Panel) { p.force = true }
}

// WithCameras replaces the catalog cameras for the selected mountain.
func WithCameras(cams []Entry) PanelOption {
	return func(p *Panel) { p.cameras = append([]Entry(nil), cams...) }
}

// NewPanel selects key at now.
func NewPanel(r *Resolver, key mountain.Key, now time.Time, opts ...PanelOption) *Panel {
	p := &Panel{resolver: r}
	p.SelectMountain(key, now)
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SelectMountain switches mountains. The camera index, every retry counter
// and the cache-busting stamp start over.
func (p *Panel) SelectMountain(key mountain.Key, now time.Time) {
	p.mountain = key
	p.cameras = For(key)
	p.index = 0
	p.retries = make(map[int]RetryState)
	p.selectedAt = now
}

// Mountain returns the selected mountain.
func (p *Panel) Mountain() mountain.Key {
	return p.mountain
}

// Len returns the number of cameras.
func (p *Panel) Len() int {
	return len(p.cameras)
}

// Index returns the active camera position.
func (p *Panel) Index() int {
	return p.index
}

// Next moves to the following camera, wrapping around.
func (p *Panel) Next() {
	p.move(1)
}

// Prev moves to the preceding camera, wrapping around.
func (p *Panel) Prev() {
	p.move(-1)
}

// Select jumps to camera i, wrapped into range.
func (p *Panel) Select(i int) {
	p.move(i - p.index)
}

func (p *Panel) move(delta int) {
	n := len(p.cameras)
	if n == 0 {
		return
	}
	p.index = ((p.index+delta)%n + n) % n
	p.retries[p.index] = NewRetryState()
}

// Current returns the active camera.
func (p *Panel) Current() (Entry, bool) {
	if len(p.cameras) == 0 {
		return Entry{}, false
	}
	e := p.cameras[p.index]
	if p.force {
		e.CacheBust = true
	}
	return e, true
}

// Retry returns the active camera's retry state.
func (p *Panel) Retry() RetryState {
	if s, ok := p.retries[p.index]; ok {
		return s
	}
	return NewRetryState()
}

// OnImageError records a failed load. Only grid cameras retry against older
// slots; a broken static image stays broken.
func (p *Panel) OnImageError() RetryState {
	cur, ok := p.Current()
	if !ok || !cur.IsDynamic() {
		return p.Retry()
	}
	next := p.Retry().OnLoadFailure()
	p.retries[p.index] = next
	return next
}

// CurrentURL resolves the active camera's URL at now.
func (p *Panel) CurrentURL(now time.Time) (string, bool) {
	cur, ok := p.Current()
	if !ok {
		return "", false
	}
	return p.resolver.Resolve(cur, p.Retry().AttemptCount, now, p.selectedAt), true
}
