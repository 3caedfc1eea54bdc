package client

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	tdsmodels "gitlab.com/sensegrid1/tds.dashboard_server/src/production/TDS.Models"
)

// State is the dashboard session state
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Snapshot is an immutable view of the poller state. Records carry the
// last successful fetch even while Loading or Failed, so previously
// displayed data stays visible across refreshes.
type Snapshot struct {
	State     State
	Records   []tdsmodels.DeviceData
	Err       string
	DeviceID  string
	UpdatedAt time.Time
}

// Poller drives the dashboard polling loop: a fixed-interval tick plus
// on-demand refreshes, re-fetching either the global latest feed or one
// device's feed. Overlapping fetches are allowed; each carries a
// monotonically increasing sequence number and completions older than
// the last applied one are dropped.
type Poller struct {
	client   *APIClient
	interval time.Duration

	// OnUpdate, if set before Run, is invoked after every applied
	// state transition
	OnUpdate func(Snapshot)

	seq atomic.Uint64

	mu       sync.Mutex
	snap     Snapshot
	applied  uint64
	deviceID string

	kick chan struct{}
}

// NewPoller creates a poller. Interval is the fixed polling cadence.
func NewPoller(client *APIClient, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Poller{
		client:   client,
		interval: interval,
		snap:     Snapshot{State: StateIdle},
		kick:     make(chan struct{}, 1),
	}
}

// Snapshot returns the current state
func (p *Poller) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snap
}

// Refresh requests an immediate re-fetch of the current target
func (p *Poller) Refresh() {
	select {
	case p.kick <- struct{}{}:
	default:
	}
}

// SetDevice switches the polling target to one device's feed; the
// selection persists across subsequent ticks. An empty id returns to
// the latest-across-all-devices feed.
func (p *Poller) SetDevice(deviceID string) {
	p.mu.Lock()
	p.deviceID = deviceID
	p.snap.DeviceID = deviceID
	p.mu.Unlock()
	p.Refresh()
}

// Run starts the polling loop and blocks until ctx is canceled. Fetches
// run in their own goroutines, so a slow response never delays the next
// tick.
func (p *Poller) Run(ctx context.Context) {
	p.launch(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.launch(ctx)
		case <-p.kick:
			p.launch(ctx)
		}
	}
}

func (p *Poller) launch(ctx context.Context) {
	seq := p.seq.Add(1)

	p.mu.Lock()
	deviceID := p.deviceID
	p.snap.State = StateLoading
	snap := p.snap
	p.mu.Unlock()
	p.notify(snap)

	go p.fetch(ctx, seq, deviceID)
}

func (p *Poller) fetch(ctx context.Context, seq uint64, deviceID string) {
	var records []tdsmodels.DeviceData
	var err error

	if deviceID != "" {
		records, err = p.client.GetByDevice(ctx, deviceID)
	} else {
		records, err = p.client.GetLatest(ctx)
	}

	p.mu.Lock()
	if seq < p.applied {
		// A newer fetch already landed; drop this response.
		p.mu.Unlock()
		return
	}
	p.applied = seq

	if err != nil {
		p.snap.State = StateFailed
		p.snap.Err = err.Error()
	} else {
		p.snap.State = StateReady
		p.snap.Err = ""
		p.snap.Records = records
		p.snap.UpdatedAt = time.Now()
	}
	snap := p.snap
	p.mu.Unlock()

	p.notify(snap)
}

func (p *Poller) notify(snap Snapshot) {
	if p.OnUpdate != nil {
		p.OnUpdate(snap)
	}
}
