package planner

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"route-planner/internal/domain"
	"route-planner/internal/ports"
)

const (
	// Queries shorter than this never trigger a search.
	minQueryLen = 3

	// Default quiescence interval before a typed query auto-searches.
	defaultAutoDelay = 1500 * time.Millisecond
)

// User-facing error strings. Raw upstream errors go to the log only.
const (
	searchFailedMsg  = "search failed"
	reverseFailedMsg = "could not resolve address"
)

// slotRuntime is the per-slot request bookkeeping: the armed debounce
// timer, the cancel handle of the in-flight request, the last query
// that fetched successfully (dedup) and a generation counter checked at
// commit time so a superseded or cancelled request can never write.
type slotRuntime struct {
	timer     *time.Timer
	cancel    context.CancelFunc
	lastQuery string
	gen       uint64
}

// Coordinator mediates all endpoint transitions, guaranteeing at most
// one scheduled auto-search and one in-flight request per slot. All
// state it owns is instance-scoped, so independent coordinators can
// coexist in tests.
type Coordinator struct {
	geocoder ports.Geocoder

	mu        sync.Mutex
	endpoints [2]Endpoint
	preferNew bool
	distance  int
	algorithm domain.Algorithm
	delay     time.Duration
	rt        [2]slotRuntime
	version   uint64
	updates   chan struct{}
}

func NewCoordinator(geocoder ports.Geocoder) *Coordinator {
	return &Coordinator{
		geocoder:  geocoder,
		preferNew: true,
		distance:  5000,
		algorithm: domain.AlgorithmDFS,
		delay:     defaultAutoDelay,
		updates:   make(chan struct{}, 1),
	}
}

// Snapshot is an immutable copy of the coordinator state. Version
// increases on every visible change, for cheap re-render detection.
type Snapshot struct {
	Start          Endpoint
	End            Endpoint
	PreferNew      bool
	DistanceMeters int
	Algorithm      domain.Algorithm
	Version        uint64
}

func (s Snapshot) Slot(slot Slot) Endpoint {
	if slot == End {
		return s.End
	}
	return s.Start
}

func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		Start:          c.endpoints[Start].clone(),
		End:            c.endpoints[End].clone(),
		PreferNew:      c.preferNew,
		DistanceMeters: c.distance,
		Algorithm:      c.algorithm,
		Version:        c.version,
	}
}

// Updates returns a coalesced notification channel: at least one
// receive is pending after any state change.
func (c *Coordinator) Updates() <-chan struct{} {
	return c.updates
}

func (c *Coordinator) notifyLocked() {
	c.version++
	select {
	case c.updates <- struct{}{}:
	default:
	}
}

// SetQuery stores the text verbatim and, for a slot in search method,
// re-arms the auto-search timer. Re-arming replaces, never stacks.
// Short queries cancel the pending timer and do nothing further.
func (c *Coordinator) SetQuery(slot Slot, q string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.endpoints[slot].Query = q
	c.notifyLocked()

	if c.endpoints[slot].Method != MethodSearch {
		return
	}

	c.stopTimerLocked(slot)

	if utf8.RuneCountInString(strings.TrimSpace(q)) < minQueryLen {
		return
	}

	c.rt[slot].timer = time.AfterFunc(c.delay, func() {
		c.Geocode(slot)
	})
}

// Geocode runs a forward search for the slot's current query. It is
// idempotent re-entry safe: a pending timer is cancelled first, short
// and already-fetched queries are skipped, and any previous in-flight
// request for the slot is aborted. Blocks until the search settles;
// call it from a goroutine when non-blocking behavior is needed (the
// debounce timer already does).
func (c *Coordinator) Geocode(slot Slot) {
	c.mu.Lock()
	c.stopTimerLocked(slot)

	q := strings.TrimSpace(c.endpoints[slot].Query)
	if utf8.RuneCountInString(q) < minQueryLen {
		c.mu.Unlock()
		return
	}
	if q == c.rt[slot].lastQuery {
		c.mu.Unlock()
		return
	}

	ctx, gen := c.beginRequestLocked(slot)
	ep := &c.endpoints[slot]
	ep.Loading = true
	ep.Err = ""
	ep.Results = nil
	c.notifyLocked()
	c.mu.Unlock()

	items, err := c.geocoder.Search(ctx, q)

	c.mu.Lock()
	defer c.mu.Unlock()

	// Commit check: a request superseded or cancelled after the call
	// returned must not write anything.
	if c.rt[slot].gen != gen || ctx.Err() != nil {
		return
	}
	c.releaseLocked(slot)

	ep = &c.endpoints[slot]
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Printf("geocode failed: slot=%s q=%q err=%v", slot, q, err)
		ep.Loading = false
		ep.Err = searchFailedMsg
		c.notifyLocked()
		return
	}

	c.rt[slot].lastQuery = q
	ep.Results = items
	ep.Loading = false
	c.notifyLocked()
}

// PickResult commits a search candidate: coordinates and label are
// taken verbatim, the candidate list clears, and the label is recorded
// as last-fetched so the now-settled query text cannot re-fire a
// redundant search.
func (c *Coordinator) PickResult(slot Slot, item domain.GeocodeResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rt[slot].lastQuery = item.Label

	ep := &c.endpoints[slot]
	ep.Method = MethodSearch
	ep.Query = item.Label
	p := item.Point()
	ep.Coords = &p
	ep.AwaitingClick = false
	ep.Results = nil

	c.stopTimerLocked(slot)
	c.abortLocked(slot)
	c.notifyLocked()
}

// RequestMapPick switches the slot to pin method and arms the
// map-click wait. The sibling slot is left alone: mutual exclusion of
// pending picks is the map layer's contract, and it must clear the
// other slot first.
func (c *Coordinator) RequestMapPick(slot Slot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ep := &c.endpoints[slot]
	ep.Method = MethodPin
	ep.AwaitingClick = true
	c.notifyLocked()
}

// ClearMapPick disarms a pending map pick without touching the rest of
// the slot state.
func (c *Coordinator) ClearMapPick(slot Slot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.endpoints[slot].AwaitingClick {
		return
	}
	c.endpoints[slot].AwaitingClick = false
	c.notifyLocked()
}

// CommitMapClick routes a map click to the slot awaiting one (start
// wins ties), else to a slot in pin method, else to start. The clicked
// point is committed with a provisional "lat,lng" label, then reverse
// geocoding replaces it asynchronously. Returns the chosen slot.
func (c *Coordinator) CommitMapClick(p domain.Point) Slot {
	c.mu.Lock()

	slot := Start
	switch {
	case c.endpoints[Start].AwaitingClick:
		slot = Start
	case c.endpoints[End].AwaitingClick:
		slot = End
	case c.endpoints[Start].Method == MethodPin:
		slot = Start
	case c.endpoints[End].Method == MethodPin:
		slot = End
	}

	ep := &c.endpoints[slot]
	cp := p
	ep.Coords = &cp
	ep.AwaitingClick = false
	ep.Query = p.String()
	c.notifyLocked()
	c.mu.Unlock()

	go c.ReverseGeocode(slot)
	return slot
}

// ReverseGeocode resolves the slot's committed coordinate to a label,
// with the same in-flight-cancellation discipline as Geocode. On
// success the label replaces the query text and the coordinate is
// normalized to the response; on failure the provisional text stays
// and the error field is set.
func (c *Coordinator) ReverseGeocode(slot Slot) {
	c.mu.Lock()
	coords := c.endpoints[slot].Coords
	if coords == nil {
		c.mu.Unlock()
		return
	}
	p := *coords

	c.stopTimerLocked(slot)
	ctx, gen := c.beginRequestLocked(slot)
	ep := &c.endpoints[slot]
	ep.Loading = true
	ep.Err = ""
	ep.Results = nil
	c.notifyLocked()
	c.mu.Unlock()

	item, err := c.geocoder.Reverse(ctx, p)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.rt[slot].gen != gen || ctx.Err() != nil {
		return
	}
	c.releaseLocked(slot)

	ep = &c.endpoints[slot]
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Printf("reverse geocode failed: slot=%s point=%s err=%v", slot, p, err)
		ep.Loading = false
		ep.Err = reverseFailedMsg
		c.notifyLocked()
		return
	}

	c.rt[slot].lastQuery = item.Label
	np := item.Point()
	ep.Loading = false
	ep.Err = ""
	ep.Query = item.Label
	ep.Coords = &np
	ep.Results = nil
	c.notifyLocked()
}

// CancelAll clears pending timers and aborts in-flight requests for
// the given slots, or for both when none are named. Intended for
// teardown so no stale response can mutate state afterwards.
func (c *Coordinator) CancelAll(slots ...Slot) {
	if len(slots) == 0 {
		slots = []Slot{Start, End}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, slot := range slots {
		c.stopTimerLocked(slot)
		c.abortLocked(slot)
	}
}

// SetAutoDelay adjusts the debounce interval for subsequent SetQuery
// calls. Negative values clamp to zero.
func (c *Coordinator) SetAutoDelay(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if d < 0 {
		d = 0
	}
	c.delay = d
}

func (c *Coordinator) SetPreferNew(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.preferNew = v
	c.notifyLocked()
}

func (c *Coordinator) SetAlgorithm(a domain.Algorithm) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.algorithm = a
	c.notifyLocked()
}

// SetDistance stores the requested route length in meters. Range
// clamping is the UI control's job.
func (c *Coordinator) SetDistance(meters int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.distance = meters
	c.notifyLocked()
}

// Close aborts everything in flight. The coordinator stays usable, but
// callers treat Close as teardown.
func (c *Coordinator) Close() {
	c.CancelAll()
}

func (c *Coordinator) stopTimerLocked(slot Slot) {
	if t := c.rt[slot].timer; t != nil {
		t.Stop()
		c.rt[slot].timer = nil
	}
}

// abortLocked cancels the in-flight request and bumps the generation
// counter so its late commit is rejected even if the request ignores
// cancellation.
func (c *Coordinator) abortLocked(slot Slot) {
	if cancel := c.rt[slot].cancel; cancel != nil {
		cancel()
		c.rt[slot].cancel = nil
	}
	c.rt[slot].gen++
}

// releaseLocked frees the cancel handle of a request that has settled
// and committed; the generation counter stays untouched.
func (c *Coordinator) releaseLocked(slot Slot) {
	if cancel := c.rt[slot].cancel; cancel != nil {
		cancel()
		c.rt[slot].cancel = nil
	}
}

func (c *Coordinator) beginRequestLocked(slot Slot) (context.Context, uint64) {
	if cancel := c.rt[slot].cancel; cancel != nil {
		cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.rt[slot].cancel = cancel
	c.rt[slot].gen++
	return ctx, c.rt[slot].gen
}
