// FILE: internal/service/session_service.go
package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"capsule-labeling-be/internal/dto"
	"capsule-labeling-be/internal/pkg/logger"
	"capsule-labeling-be/internal/pkg/serverutils"
	"capsule-labeling-be/internal/repository/memory"
	"capsule-labeling-be/internal/tracer"
	"capsule-labeling-be/pkg/events"
	"capsule-labeling-be/pkg/registry"
	"capsule-labeling-be/pkg/storage"
	"capsule-labeling-be/pkg/store"

	"go.opentelemetry.io/otel/attribute"
)

const (
	sessionModule    = "SESSION"
	defaultAnnotator = "anonymous"
)

// Navigation directions.
const (
	DirectionNext = "next"
	DirectionPrev = "prev"
)

var ErrSessionNotFound = serverutils.ErrNotFound("Session not found")

// LabelingOptions locates the registries and images the sessions work on.
type LabelingOptions struct {
	Vocabulary   registry.Vocabulary
	FolderRef    string
	LabeledRef   string
	UnlabeledRef string // empty skips every unlabeled write
	Strict       bool   // return consistency anomalies from Start
}

type ISessionService interface {
	Start(ctx context.Context, annotator string) (*dto.SessionResponse, error)
	End(ctx context.Context, sessionId string) error
	ApplyFilter(ctx context.Context, sessionId string, req *dto.FilterRequest) (*dto.ViewResponse, error)
	Current(ctx context.Context, sessionId string) (*dto.ViewResponse, error)
	Navigate(ctx context.Context, sessionId, direction string) (*dto.ViewResponse, error)
	SetLabels(ctx context.Context, sessionId, frame string, req *dto.SetLabelsRequest) (*dto.SetLabelsResponse, error)
	Commit(ctx context.Context, sessionId string) (*dto.CommitResponse, error)
	Stats(ctx context.Context, sessionId string) (*dto.StatsResponse, error)
	Facets(ctx context.Context, sessionId string) (*dto.FacetsResponse, error)
	Anomalies(ctx context.Context, sessionId string) (*dto.AnomaliesResponse, error)
	FrameImage(ctx context.Context, sessionId, frame string) (*storage.Image, error)
	PersistDiscovered(ctx context.Context, sessionId string) (*dto.SyncResponse, error)
}

type sessionService struct {
	sessionRepo *memory.SessionRepository
	images      storage.ImageSource
	fetcher     storage.ImageFetcher
	tables      storage.TableStore
	publisher   IPublisherService
	logger      logger.ILogger
	opts        LabelingOptions
	now         func() time.Time
}

func NewSessionService(
	sessionRepo *memory.SessionRepository,
	images storage.ImageSource,
	fetcher storage.ImageFetcher,
	tables storage.TableStore,
	publisher IPublisherService,
	logger logger.ILogger,
	opts LabelingOptions,
) ISessionService {
	if len(opts.Vocabulary) == 0 {
		opts.Vocabulary = registry.DefaultVocabulary
	}
	return &sessionService{
		sessionRepo: sessionRepo,
		images:      images,
		fetcher:     fetcher,
		tables:      tables,
		publisher:   publisher,
		logger:      logger,
		opts:        opts,
		now:         time.Now,
	}
}

// withSession runs fn while holding the session lock.
func (s *sessionService) withSession(sessionId string, fn func(sess *store.Session) error) error {
	sess, ok := s.sessionRepo.Get(sessionId)
	if !ok {
		return ErrSessionNotFound
	}
	sess.Lock()
	defer sess.Unlock()
	// ended or evicted while waiting for the lock
	if cur, ok := s.sessionRepo.Get(sessionId); !ok || cur != sess {
		return ErrSessionNotFound
	}
	return fn(sess)
}

func (s *sessionService) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.New(eventType, data)); err != nil {
		s.logger.Warn(sessionModule, "Failed to publish event", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}

func (s *sessionService) Start(ctx context.Context, annotator string) (*dto.SessionResponse, error) {
	ctx, span := tracer.Tracer().Start(ctx, "SessionService.Start")
	defer span.End()

	if annotator == "" {
		annotator = defaultAnnotator
	}
	required := registry.RequiredColumns(s.opts.Vocabulary)

	labeled, err := s.tables.LoadTable(ctx, s.opts.LabeledRef)
	if err != nil {
		return nil, serverutils.ErrUpstream("Failed to load labeled registry", err)
	}
	unlabeled, err := s.tables.LoadTable(ctx, s.opts.UnlabeledRef)
	if err != nil {
		return nil, serverutils.ErrUpstream("Failed to load unlabeled registry", err)
	}
	labeled = registry.Normalize(labeled, required)
	unlabeled = registry.Normalize(unlabeled, required)

	listed, err := s.images.ListImages(ctx, s.opts.FolderRef)
	if err != nil {
		return nil, serverutils.ErrUpstream("Failed to list frame images", err)
	}
	images := registry.DedupImages(listed)
	unlabeled, added := registry.Reconcile(labeled, unlabeled, images)

	sess := store.NewSession(annotator, s.opts.Vocabulary)
	sess.Labeled = labeled
	sess.Unlabeled = unlabeled
	sess.Images = images
	sess.Discovered = added

	anomalies := registry.CheckConsistency(labeled, unlabeled, s.opts.Vocabulary, images)
	if len(anomalies) > 0 {
		s.logger.Warn(sessionModule, "Registry consistency check reported anomalies", map[string]interface{}{
			"session_id": sess.ID,
			"count":      len(anomalies),
			"first":      anomalies[0],
		})
	}

	s.sessionRepo.Save(sess)
	span.SetAttributes(
		attribute.String("session.id", sess.ID),
		attribute.Int("registry.discovered", len(added)),
	)

	s.logger.Info(sessionModule, "Session started", map[string]interface{}{
		"session_id": sess.ID,
		"annotator":  annotator,
		"labeled":    labeled.Len(),
		"unlabeled":  unlabeled.Len(),
		"images":     len(images),
		"discovered": len(added),
	})
	s.publish(ctx, events.SessionStarted, map[string]interface{}{
		"session_id": sess.ID,
		"annotator":  annotator,
	})
	if len(added) > 0 {
		s.publish(ctx, events.FramesDiscovered, map[string]interface{}{
			"session_id": sess.ID,
			"annotator":  annotator,
			"count":      len(added),
			"frames":     added,
		})
	}

	res := &dto.SessionResponse{
		Id:             sess.ID,
		Annotator:      annotator,
		StartedAt:      sess.StartedAt,
		LabeledCount:   labeled.Len(),
		UnlabeledCount: unlabeled.Len(),
		ImageCount:     len(images),
		Discovered:     added,
		Vocabulary:     s.opts.Vocabulary,
	}
	if res.Discovered == nil {
		res.Discovered = []string{}
	}
	if s.opts.Strict {
		res.Anomalies = anomalies
	}
	return res, nil
}

// End drops the session together with its uncommitted edits.
func (s *sessionService) End(ctx context.Context, sessionId string) error {
	return s.withSession(sessionId, func(sess *store.Session) error {
		pending := sess.Buffer.Len()
		s.sessionRepo.Delete(sessionId)
		s.logger.Info(sessionModule, "Session ended", map[string]interface{}{
			"session_id":        sessionId,
			"discarded_pending": pending,
		})
		s.publish(ctx, events.SessionEnded, map[string]interface{}{
			"session_id":        sessionId,
			"annotator":         sess.Annotator,
			"discarded_pending": pending,
		})
		return nil
	})
}

func (s *sessionService) toFilter(req *dto.FilterRequest) (registry.Filter, error) {
	status, err := registry.ParseStatus(req.Status)
	if err != nil {
		return registry.Filter{}, serverutils.ErrBadRequest(err.Error())
	}
	if err := s.opts.Vocabulary.Validate(req.RequiredLabels...); err != nil {
		return registry.Filter{}, serverutils.ErrInvalid(err)
	}
	f := registry.DefaultFilter()
	f.Status = status
	if req.Movie != "" {
		f.Movie = req.Movie
	}
	if req.Pillcam != "" {
		f.Pillcam = req.Pillcam
	}
	f.RequiredLabels = append([]string(nil), req.RequiredLabels...)
	return f, nil
}

func (s *sessionService) ApplyFilter(ctx context.Context, sessionId string, req *dto.FilterRequest) (*dto.ViewResponse, error) {
	f, err := s.toFilter(req)
	if err != nil {
		return nil, err
	}
	var res *dto.ViewResponse
	err = s.withSession(sessionId, func(sess *store.Session) error {
		sess.Filter = f
		res = s.currentView(sess)
		return nil
	})
	return res, err
}

func (s *sessionService) Current(ctx context.Context, sessionId string) (*dto.ViewResponse, error) {
	var res *dto.ViewResponse
	err := s.withSession(sessionId, func(sess *store.Session) error {
		res = s.currentView(sess)
		return nil
	})
	return res, err
}

func (s *sessionService) Navigate(ctx context.Context, sessionId, direction string) (*dto.ViewResponse, error) {
	if direction != DirectionNext && direction != DirectionPrev {
		return nil, serverutils.ErrBadRequest("direction must be next or prev")
	}
	var res *dto.ViewResponse
	err := s.withSession(sessionId, func(sess *store.Session) error {
		if direction == DirectionNext {
			sess.Cursor.Next(len(sess.View()))
		} else {
			sess.Cursor.Prev()
		}
		res = s.currentView(sess)
		return nil
	})
	return res, err
}

// currentView renders the row under the cursor. Showing a row seeds its
// buffer entry, so every frame the annotator has looked at is part of the
// next commit.
func (s *sessionService) currentView(sess *store.Session) *dto.ViewResponse {
	row, index, total, ok := sess.CurrentRow()
	res := &dto.ViewResponse{Index: index, Total: total, Filter: sess.Filter}
	if !ok {
		return res
	}

	rec := row.Record
	labels := sess.Buffer.GetOrSeed(rec.Frame, rec)
	_, hasImage := sess.ImageFor(rec.Frame)
	res.Frame = &dto.FrameResponse{
		Frame:     rec.Frame,
		Class:     rec.Class,
		Movie:     rec.Movie,
		Pillcam:   rec.Pillcam,
		LabelDate: rec.LabelDate,
		IsLabeled: row.IsLabeled,
		HasImage:  hasImage,
		Labels:    labels,
		Pending:   !sameFlags(labels, rec.Labels, s.opts.Vocabulary),
		Extra:     rec.Extra,
	}
	return res
}

func sameFlags(buffered, stored registry.LabelSet, vocab registry.Vocabulary) bool {
	for _, name := range vocab {
		if buffered[name] != stored[name] {
			return false
		}
	}
	return true
}

func (s *sessionService) SetLabels(ctx context.Context, sessionId, frame string, req *dto.SetLabelsRequest) (*dto.SetLabelsResponse, error) {
	names := make([]string, 0, len(req.Labels))
	for name := range req.Labels {
		names = append(names, name)
	}
	sort.Strings(names)
	if err := s.opts.Vocabulary.Validate(names...); err != nil {
		return nil, serverutils.ErrInvalid(err)
	}

	var res *dto.SetLabelsResponse
	err := s.withSession(sessionId, func(sess *store.Session) error {
		if !sess.Knows(frame) {
			return serverutils.ErrNotFound("Frame not found in registry")
		}
		labels := registry.LabelSet(req.Labels).Full(s.opts.Vocabulary)
		sess.Buffer.Set(frame, labels)
		res = &dto.SetLabelsResponse{
			Frame:        frame,
			Labels:       labels,
			Class:        registry.DeriveClass(labels, s.opts.Vocabulary),
			PendingEdits: sess.Buffer.Len(),
		}
		return nil
	})
	return res, err
}

// Commit merges the pending edits and writes the labeled registry, then the
// unlabeled one. The session adopts the merged tables and clears its buffer
// only after both writes succeed; a failed write keeps every edit so the
// commit can be retried.
func (s *sessionService) Commit(ctx context.Context, sessionId string) (*dto.CommitResponse, error) {
	ctx, span := tracer.Tracer().Start(ctx, "SessionService.Commit")
	defer span.End()

	var res *dto.CommitResponse
	err := s.withSession(sessionId, func(sess *store.Session) error {
		edits := sess.Buffer.Snapshot()
		if len(edits) == 0 {
			res = &dto.CommitResponse{Promoted: []string{}, Updated: []string{}}
			return nil
		}

		result := registry.Merge(edits, sess.Labeled, sess.Unlabeled, s.opts.Vocabulary, s.now())

		if err := s.tables.SaveTable(ctx, s.opts.LabeledRef, result.Labeled); err != nil {
			s.logger.Error(sessionModule, "Failed to save labeled registry", map[string]interface{}{
				"session_id": sessionId,
				"error":      err.Error(),
			})
			return serverutils.ErrUpstream("Failed to save labeled registry", err)
		}
		if err := s.tables.SaveTable(ctx, s.opts.UnlabeledRef, result.Unlabeled); err != nil {
			s.logger.Error(sessionModule, "Failed to save unlabeled registry", map[string]interface{}{
				"session_id": sessionId,
				"error":      err.Error(),
			})
			return serverutils.ErrUpstream("Failed to save unlabeled registry", err)
		}

		sess.Labeled = result.Labeled
		sess.Unlabeled = result.Unlabeled
		sess.Buffer.Drain()
		sess.Cursor.Clamp(len(sess.View()))

		res = &dto.CommitResponse{
			Changed:  result.Changed,
			Promoted: nonNil(result.Promoted),
			Updated:  nonNil(result.Updated),
		}
		span.SetAttributes(attribute.Int("commit.changed", result.Changed))

		s.logger.Info(sessionModule, "Labels committed", map[string]interface{}{
			"session_id": sessionId,
			"changed":    result.Changed,
			"promoted":   len(result.Promoted),
			"updated":    len(result.Updated),
		})
		s.publish(ctx, events.LabelsCommitted, map[string]interface{}{
			"session_id": sessionId,
			"annotator":  sess.Annotator,
			"changed":    result.Changed,
			"promoted":   result.Promoted,
			"updated":    result.Updated,
		})
		return nil
	})
	return res, err
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (s *sessionService) Stats(ctx context.Context, sessionId string) (*dto.StatsResponse, error) {
	var res *dto.StatsResponse
	err := s.withSession(sessionId, func(sess *store.Session) error {
		stats := registry.ComputeStats(sess.Labeled, sess.Unlabeled, s.opts.Vocabulary, sess.Buffer.Len())
		res = &dto.StatsResponse{Stats: stats}
		return nil
	})
	return res, err
}

func (s *sessionService) Facets(ctx context.Context, sessionId string) (*dto.FacetsResponse, error) {
	var res *dto.FacetsResponse
	err := s.withSession(sessionId, func(sess *store.Session) error {
		res = &dto.FacetsResponse{
			Facets:     registry.FacetOptions(sess.Labeled, sess.Unlabeled),
			Vocabulary: s.opts.Vocabulary,
		}
		return nil
	})
	return res, err
}

func (s *sessionService) Anomalies(ctx context.Context, sessionId string) (*dto.AnomaliesResponse, error) {
	var res *dto.AnomaliesResponse
	err := s.withSession(sessionId, func(sess *store.Session) error {
		anomalies := registry.CheckConsistency(sess.Labeled, sess.Unlabeled, s.opts.Vocabulary, sess.Images)
		if anomalies == nil {
			anomalies = []registry.Anomaly{}
		}
		res = &dto.AnomaliesResponse{Count: len(anomalies), Anomalies: anomalies}
		return nil
	})
	return res, err
}

func (s *sessionService) FrameImage(ctx context.Context, sessionId, frame string) (*storage.Image, error) {
	var ref registry.ImageRef
	err := s.withSession(sessionId, func(sess *store.Session) error {
		var ok bool
		if ref, ok = sess.ImageFor(frame); !ok {
			return serverutils.ErrNotFound("No image for frame")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Fetched outside the lock; image bytes do not touch session state.
	img, err := s.fetcher.FetchImage(ctx, ref.ID)
	if err != nil {
		if errors.Is(err, storage.ErrImageNotFound) {
			return nil, serverutils.ErrNotFound("Image not found")
		}
		return nil, serverutils.ErrUpstream("Failed to fetch image", err)
	}
	return img, nil
}

// PersistDiscovered writes the reconciled unlabeled registry so newly found
// frames survive without a label commit.
func (s *sessionService) PersistDiscovered(ctx context.Context, sessionId string) (*dto.SyncResponse, error) {
	var res *dto.SyncResponse
	err := s.withSession(sessionId, func(sess *store.Session) error {
		res = &dto.SyncResponse{
			LabeledCount:   sess.Labeled.Len(),
			UnlabeledCount: sess.Unlabeled.Len(),
			Discovered:     nonNil(sess.Discovered),
		}
		if len(sess.Discovered) == 0 || s.opts.UnlabeledRef == "" {
			return nil
		}
		if err := s.tables.SaveTable(ctx, s.opts.UnlabeledRef, sess.Unlabeled); err != nil {
			return serverutils.ErrUpstream("Failed to save unlabeled registry", err)
		}
		res.Written = true
		s.logger.Info(sessionModule, "Discovered frames persisted", map[string]interface{}{
			"session_id": sessionId,
			"count":      len(sess.Discovered),
		})
		return nil
	})
	return res, err
}
