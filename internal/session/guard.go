// Package session ties one image-editing session together: loading the
// initial detections, persisting them, and guarding navigation while edits
// are unsaved.
package session

import (
	"context"
	"log/slog"
	"sync"

	"roi-annotator/internal/annotation"
)

// Resolution is the user's answer to the unsaved-changes confirmation.
type Resolution int

const (
	// ResolutionStay cancels the navigation and keeps the session open.
	ResolutionStay Resolution = iota
	// ResolutionLeave discards unsaved changes and navigates.
	ResolutionLeave
	// ResolutionSaveAndLeave saves first, then navigates once the save
	// settles, regardless of its outcome.
	ResolutionSaveAndLeave
)

// UnloadInterceptor is the hosting environment's navigation lifecycle. The
// registered function is consulted when the host is about to tear the
// session down; returning true cancels the teardown so a confirmation can
// be shown. Implementations must drop the function again on Unregister.
type UnloadInterceptor interface {
	Register(shouldBlock func() bool)
	Unregister()
}

// SaveFunc persists the current detection list.
type SaveFunc func(ctx context.Context) error

// PromptFunc asks the user what to do about unsaved changes. The guard
// calls it with itself pending; the prompt's owner answers via Resolve.
type PromptFunc func()

// NavigationGuard compares the live detections against the snapshot taken
// at load time and intercepts navigation while they differ. The snapshot
// is never mutated; rebaselining replaces it wholesale after a save.
type NavigationGuard struct {
	mu       sync.Mutex
	store    *annotation.Store
	original []*annotation.Detection
	pending  func()

	save        SaveFunc
	prompt      PromptFunc
	interceptor UnloadInterceptor
	logger      *slog.Logger
}

// NewNavigationGuard constructs a guard over the store. save may be nil if
// the save-and-leave path is never offered; prompt may be nil to make
// Guard fall through to immediate navigation when dirty (headless use).
func NewNavigationGuard(store *annotation.Store, save SaveFunc, prompt PromptFunc, logger *slog.Logger) *NavigationGuard {
	return &NavigationGuard{store: store, save: save, prompt: prompt, logger: logger}
}

// SetSnapshot installs the original snapshot, deep-copied so later edits
// cannot reach it.
func (g *NavigationGuard) SetSnapshot(detections []*annotation.Detection) {
	snap := make([]*annotation.Detection, len(detections))
	for i, d := range detections {
		snap[i] = d.Clone()
	}
	g.mu.Lock()
	g.original = snap
	g.mu.Unlock()
}

// HasUnsavedChanges recomputes dirtiness: the lists differ in length, or
// some index holds a detection that is field-unequal to its original. The
// comparison is order-sensitive by design.
func (g *NavigationGuard) HasUnsavedChanges() bool {
	g.mu.Lock()
	original := g.original
	g.mu.Unlock()

	current := g.store.Detections()
	if len(current) != len(original) {
		return true
	}
	for i := range current {
		if !current[i].Equal(original[i]) {
			return true
		}
	}
	return false
}

// Attach registers against the host's unload lifecycle. The host blocks
// its teardown iff changes are unsaved at that moment.
func (g *NavigationGuard) Attach(i UnloadInterceptor) {
	g.mu.Lock()
	g.interceptor = i
	g.mu.Unlock()
	i.Register(g.HasUnsavedChanges)
}

// Detach removes the unload interception. Must be called on teardown.
func (g *NavigationGuard) Detach() {
	g.mu.Lock()
	i := g.interceptor
	g.interceptor = nil
	g.mu.Unlock()
	if i != nil {
		i.Unregister()
	}
}

// Guard runs navigate immediately when the session is clean. When dirty it
// defers navigate and opens the confirmation prompt; the answer arrives
// through Resolve.
func (g *NavigationGuard) Guard(navigate func()) {
	if !g.HasUnsavedChanges() {
		navigate()
		return
	}
	g.mu.Lock()
	g.pending = navigate
	prompt := g.prompt
	g.mu.Unlock()

	if prompt == nil {
		g.runPending()
		return
	}
	prompt()
}

// Resolve answers a pending confirmation. Save-and-leave invokes the save
// operation and navigates once it settles whether or not it succeeded; the
// failure is only logged.
func (g *NavigationGuard) Resolve(ctx context.Context, r Resolution) {
	switch r {
	case ResolutionStay:
		g.mu.Lock()
		g.pending = nil
		g.mu.Unlock()
	case ResolutionLeave:
		g.runPending()
	case ResolutionSaveAndLeave:
		if g.save != nil {
			if err := g.save(ctx); err != nil && g.logger != nil {
				g.logger.Error("save before navigation failed", "error", err)
			}
		}
		g.runPending()
	}
}

func (g *NavigationGuard) runPending() {
	g.mu.Lock()
	fn := g.pending
	g.pending = nil
	g.mu.Unlock()
	if fn != nil {
		fn()
	}
}
