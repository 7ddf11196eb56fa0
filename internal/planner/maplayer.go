package planner

import (
	"sync"

	"route-planner/internal/domain"
)

// MapLayer adapts raw map pointer events to coordinator transitions.
// It owns the ephemeral pick-preview position, which never enters the
// durable store, and it is the caller responsible for the pending-pick
// mutual exclusion contract: arming a pick on one slot clears the
// sibling's first.
type MapLayer struct {
	coord *Coordinator

	mu   sync.Mutex
	temp *domain.Point
}

func NewMapLayer(coord *Coordinator) *MapLayer {
	return &MapLayer{coord: coord}
}

// ArmPick starts waiting for a map click to set the slot.
func (m *MapLayer) ArmPick(slot Slot) {
	m.coord.ClearMapPick(slot.sibling())
	m.coord.RequestMapPick(slot)
}

// Selecting reports which slot, if any, is awaiting a map click.
// Start wins when both are armed, which the ArmPick contract prevents.
func (m *MapLayer) Selecting() (Slot, bool) {
	snap := m.coord.Snapshot()
	if snap.Start.AwaitingClick {
		return Start, true
	}
	if snap.End.AwaitingClick {
		return End, true
	}
	return Start, false
}

// PointerMove updates the preview marker while a pick is pending.
func (m *MapLayer) PointerMove(p domain.Point) {
	if _, ok := m.Selecting(); !ok {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	cp := p
	m.temp = &cp
}

// Click commits the clicked point to the awaiting slot and discards
// the preview. Clicks with no pick pending are ignored.
func (m *MapLayer) Click(p domain.Point) {
	if _, ok := m.Selecting(); !ok {
		return
	}

	m.coord.CommitMapClick(p)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.temp = nil
}

// CancelPick aborts any pending pick, e.g. on pointer-down outside the
// map viewport, and discards the preview.
func (m *MapLayer) CancelPick() {
	m.coord.ClearMapPick(Start)
	m.coord.ClearMapPick(End)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.temp = nil
}

// TempPosition returns the current preview marker position, or nil.
func (m *MapLayer) TempPosition() *domain.Point {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.temp == nil {
		return nil
	}
	cp := *m.temp
	return &cp
}
