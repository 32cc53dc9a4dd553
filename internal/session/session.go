package session

import (
	"context"
	"fmt"
	"log/slog"

	"roi-annotator/internal/annotation"
)

// Loader supplies the initial detections for an image.
type Loader interface {
	LoadDetections(ctx context.Context, uploadID string) ([]*annotation.Detection, error)
}

// Saver persists the full detection list for an image.
type Saver interface {
	SaveDetections(ctx context.Context, uploadID string, detections []*annotation.Detection) error
}

// Session owns the store and guard for a single image. Opening a new image
// reseeds both; the caller is responsible for not starting a second save
// while one is pending.
type Session struct {
	store  *annotation.Store
	guard  *NavigationGuard
	loader Loader
	saver  Saver
	logger *slog.Logger
}

// New creates a session over the given collaborators. prompt is handed to
// the guard; see NewNavigationGuard.
func New(store *annotation.Store, loader Loader, saver Saver, prompt PromptFunc, logger *slog.Logger) *Session {
	s := &Session{store: store, loader: loader, saver: saver, logger: logger}
	s.guard = NewNavigationGuard(store, s.Save, prompt, logger)
	return s
}

// SetBackend swaps the persistence collaborators, used when a different
// project becomes active. The caller follows up with Open to reseed.
func (s *Session) SetBackend(loader Loader, saver Saver) {
	s.loader = loader
	s.saver = saver
}

// Store returns the session's detection store.
func (s *Session) Store() *annotation.Store { return s.store }

// Guard returns the session's navigation guard.
func (s *Session) Guard() *NavigationGuard { return s.guard }

// Open loads the detections for an image, seeds the store, and snapshots
// the result for dirty tracking.
func (s *Session) Open(ctx context.Context, uploadID string) error {
	if s.loader == nil {
		return fmt.Errorf("no detection backend configured")
	}
	detections, err := s.loader.LoadDetections(ctx, uploadID)
	if err != nil {
		return fmt.Errorf("load detections for %s: %w", uploadID, err)
	}
	s.store.SetAll(uploadID, detections)
	s.guard.SetSnapshot(detections)
	if s.logger != nil {
		s.logger.Info("session opened", "uploadId", uploadID, "detections", len(detections))
	}
	return nil
}

// Save persists the current list. On success the guard is rebaselined so
// the session is clean again; on failure the error propagates and the
// dirty state is untouched.
func (s *Session) Save(ctx context.Context) error {
	if s.saver == nil {
		return fmt.Errorf("no detection backend configured")
	}
	detections := s.store.Detections()
	if err := s.saver.SaveDetections(ctx, s.store.UploadID(), detections); err != nil {
		return fmt.Errorf("save detections: %w", err)
	}
	s.guard.SetSnapshot(detections)
	if s.logger != nil {
		s.logger.Info("detections saved", "uploadId", s.store.UploadID(), "count", len(detections))
	}
	return nil
}
