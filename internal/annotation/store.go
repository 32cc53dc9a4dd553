package annotation

import (
	"log/slog"
	"sync"
	"time"
)

// EventType identifies store events.
type EventType int

const (
	EventDetectionsChanged EventType = iota
	EventSelectionChanged
	EventFilterChanged
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// Store holds the canonical detection list plus selection and filter state
// for one image-editing session. All interaction components read and mutate
// detections through it; the view refreshes off its events. There is no
// ambient global instance, the owner constructs one per session.
type Store struct {
	mu sync.RWMutex

	uploadID   string
	detections []*Detection
	selectedID string
	filter     FilterState

	promote PromotionPolicy
	logger  *slog.Logger

	listeners map[EventType][]EventListener
}

// NewStore creates an empty store. A nil policy keeps statuses unchanged on
// geometry edits; a nil logger disables logging.
func NewStore(promote PromotionPolicy, logger *slog.Logger) *Store {
	if promote == nil {
		promote = KeepStatusOnEdit
	}
	return &Store{
		filter:    NewFilterState(),
		promote:   promote,
		logger:    logger,
		listeners: make(map[EventType][]EventListener),
	}
}

// SetPromotionPolicy replaces the policy applied to geometry edits, for
// example when an opened project carries its own setting. A nil policy
// keeps statuses unchanged.
func (s *Store) SetPromotionPolicy(promote PromotionPolicy) {
	if promote == nil {
		promote = KeepStatusOnEdit
	}
	s.mu.Lock()
	s.promote = promote
	s.mu.Unlock()
}

// On registers an event listener for the specified event type.
func (s *Store) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *Store) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// UploadID returns the identifier of the image the store was loaded for.
func (s *Store) UploadID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.uploadID
}

// SetAll replaces the full detection list, typically when an image becomes
// active. Selection is cleared.
func (s *Store) SetAll(uploadID string, detections []*Detection) {
	s.mu.Lock()
	s.uploadID = uploadID
	s.detections = detections
	s.selectedID = ""
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Debug("detections loaded", "uploadId", uploadID, "count", len(detections))
	}
	s.Emit(EventDetectionsChanged, nil)
	s.Emit(EventSelectionChanged, "")
}

// Add appends a detection and selects it.
func (s *Store) Add(d *Detection) {
	s.mu.Lock()
	s.detections = append(s.detections, d)
	s.selectedID = d.ID
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Debug("detection added", "id", d.ID, "label", d.Label)
	}
	s.Emit(EventDetectionsChanged, nil)
	s.Emit(EventSelectionChanged, d.ID)
}

// Update applies a mutation to the detection with the given id and stamps
// its audit fields. Returns false if no such detection exists.
func (s *Store) Update(id string, apply func(*Detection)) bool {
	s.mu.Lock()
	d := s.findLocked(id)
	if d == nil {
		s.mu.Unlock()
		return false
	}
	apply(d)
	d.UpdatedAt = time.Now()
	s.mu.Unlock()

	s.Emit(EventDetectionsChanged, nil)
	return true
}

// UpdateBox replaces a detection's rectangle and applies the store's
// promotion policy. This is the commit path for drag and resize edits.
func (s *Store) UpdateBox(id string, box Box) bool {
	return s.Update(id, func(d *Detection) {
		d.SetBox(box.Normalize())
		d.Status = s.promote(d.Status)
	})
}

// Remove soft-deletes the detection with the given id. It stays in the list
// with status deleted until persisted; geometry operations never remove
// detections.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	d := s.findLocked(id)
	if d == nil {
		s.mu.Unlock()
		return false
	}
	now := time.Now()
	d.Status = StatusDeleted
	d.DeletedAt = &now
	d.UpdatedAt = now
	if s.selectedID == id {
		s.selectedID = ""
	}
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Debug("detection removed", "id", id)
	}
	s.Emit(EventDetectionsChanged, nil)
	s.Emit(EventSelectionChanged, "")
	return true
}

// Select sets the active detection. An empty id clears the selection.
// Selecting a soft-deleted or unknown detection is ignored.
func (s *Store) Select(id string) {
	s.mu.Lock()
	if id != "" {
		d := s.findLocked(id)
		if d == nil || d.Deleted() {
			s.mu.Unlock()
			return
		}
	}
	if s.selectedID == id {
		s.mu.Unlock()
		return
	}
	s.selectedID = id
	s.mu.Unlock()

	s.Emit(EventSelectionChanged, id)
}

// ClearSelection deselects any active detection.
func (s *Store) ClearSelection() {
	s.Select("")
}

// SelectedID returns the id of the active detection, or "".
func (s *Store) SelectedID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedID
}

// Selected returns a copy of the active detection, or nil.
func (s *Store) Selected() *Detection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d := s.findLocked(s.selectedID)
	if d == nil {
		return nil
	}
	return d.Clone()
}

// Get returns a copy of the detection with the given id, or nil.
func (s *Store) Get(id string) *Detection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d := s.findLocked(id)
	if d == nil {
		return nil
	}
	return d.Clone()
}

// Detections returns a deep copy of the full list, including soft-deleted
// entries, in insertion order.
func (s *Store) Detections() []*Detection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Detection, len(s.detections))
	for i, d := range s.detections {
		out[i] = d.Clone()
	}
	return out
}

// Visible returns the filtered subset to render, per the current filter.
func (s *Store) Visible() []*Detection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Visible(s.detections, s.filter)
}

// Verification returns the aggregate review status of the current list.
func (s *Store) Verification() VerificationStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Aggregate(s.detections)
}

// Filter returns the current filter state.
func (s *Store) Filter() FilterState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

// SetDisplayFilter changes the review-state filter.
func (s *Store) SetDisplayFilter(f DisplayFilter) {
	s.mu.Lock()
	s.filter.Display = f
	s.mu.Unlock()
	s.Emit(EventFilterChanged, nil)
}

// SetClassFilter replaces the set of visible labels.
func (s *Store) SetClassFilter(classes map[Label]bool) {
	s.mu.Lock()
	s.filter.Classes = classes
	s.mu.Unlock()
	s.Emit(EventFilterChanged, nil)
}

// SetViewMode changes the overlay view mode.
func (s *Store) SetViewMode(m ViewMode) {
	s.mu.Lock()
	s.filter.Mode = m
	s.mu.Unlock()
	s.Emit(EventFilterChanged, nil)
}

func (s *Store) findLocked(id string) *Detection {
	if id == "" {
		return nil
	}
	for _, d := range s.detections {
		if d.ID == id {
			return d
		}
	}
	return nil
}
