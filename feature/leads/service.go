package leads

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"lead-sync/core/reconcile"
	"lead-sync/core/storage"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ErrTimeout is returned when a sync exceeds the configured timeout.
// Phases applied before the deadline stay applied.
var ErrTimeout = errors.New("sync timed out")

// Repository is the storage surface the service needs.
type Repository interface {
	reconcile.Store
	List(ctx context.Context) ([]reconcile.Record, error)
}

// Status describes the most recent sync call.
type Status struct {
	At         time.Time            `json:"at"`
	Duration   string               `json:"duration"`
	Success    bool                 `json:"success"`
	Result     reconcile.SyncResult `json:"result"`
	Error      string               `json:"error,omitempty"`
	ArchiveKey string               `json:"archive_key,omitempty"`
}

// Service runs lead syncs and serves the stored leads.
type Service struct {
	repo       Repository
	reconciler *reconcile.Reconciler
	archiver   *storage.Archiver
	logger     *zap.Logger
	timeout    time.Duration
	now        func() time.Time

	group singleflight.Group

	mu   sync.RWMutex
	last *Status
}

// NewService creates a Service. archiver may be nil to disable archiving.
func NewService(repo Repository, archiver *storage.Archiver, logger *zap.Logger, cfg reconcile.Config) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo: repo,
		reconciler: reconcile.NewReconciler(repo,
			reconcile.WithLogger(logger.Named("reconcile")),
			reconcile.WithValidator(reconcile.NewValidator(cfg.IdentityField)),
		),
		archiver: archiver,
		logger:   logger,
		timeout:  cfg.Timeout(),
		now:      time.Now,
	}
}

// Sync reconciles the store against a raw sync body.
//
// Byte-identical bodies delivered while a run is in flight share that run
// and its result. The returned error is ErrInvalidPayload for a malformed
// body, wraps ErrTimeout when the deadline passed, and otherwise carries the
// per-record failures next to the partial result.
func (s *Service) Sync(ctx context.Context, body []byte) (reconcile.SyncResult, error) {
	rows, err := ParsePayload(body)
	if err != nil {
		return reconcile.SyncResult{}, err
	}

	sum := sha256.Sum256(body)
	key := hex.EncodeToString(sum[:])

	v, err, shared := s.group.Do(key, func() (any, error) {
		// Detached so one caller going away does not cancel a shared run.
		return s.run(context.WithoutCancel(ctx), body, rows)
	})
	if shared {
		s.logger.Debug("Sync delivery shared", zap.String("sha256", key[:12]))
	}
	return v.(reconcile.SyncResult), err
}

// Preview returns the changes a sync of body would make, without applying them.
func (s *Service) Preview(ctx context.Context, body []byte) (reconcile.Plan, []reconcile.SkipReason, error) {
	rows, err := ParsePayload(body)
	if err != nil {
		return reconcile.Plan{}, nil, err
	}
	return s.reconciler.Preview(ctx, rows)
}

func (s *Service) run(ctx context.Context, body []byte, rows []reconcile.RawRow) (reconcile.SyncResult, error) {
	started := s.now()
	archiveKey := s.archive(ctx, body, started)

	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.reconciler.Reconcile(runCtx, rows)
	if err != nil && errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		err = fmt.Errorf("%w after %s: %w", ErrTimeout, s.timeout, err)
	}

	status := Status{
		At:         started.UTC(),
		Duration:   s.now().Sub(started).String(),
		Success:    err == nil,
		Result:     res,
		ArchiveKey: archiveKey,
	}
	if err != nil {
		status.Error = err.Error()
	}
	s.mu.Lock()
	s.last = &status
	s.mu.Unlock()

	return res, err
}

// archive stores body when archiving is enabled. Failures are only logged.
func (s *Service) archive(ctx context.Context, body []byte, at time.Time) string {
	if s.archiver == nil {
		return ""
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	key, err := s.archiver.Save(ctx, body, at)
	if err != nil {
		s.logger.Warn("Snapshot archive failed", zap.Error(err))
		return ""
	}
	s.logger.Debug("Snapshot archived", zap.String("key", key))
	return key
}

// LastStatus returns the outcome of the most recent sync, if any.
func (s *Service) LastStatus() (Status, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return Status{}, false
	}
	return *s.last, true
}

// List returns every stored lead ordered by id.
func (s *Service) List(ctx context.Context) ([]reconcile.Record, error) {
	return s.repo.List(ctx)
}

// Get returns one lead or reconcile.ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (reconcile.Record, error) {
	return s.repo.Get(ctx, id)
}
