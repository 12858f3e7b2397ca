package reconcile

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const tracerName = "lead-sync/core/reconcile"

// Reconciler applies full snapshots to a Store.
// Calls to Reconcile on the same Reconciler are serialized.
type Reconciler struct {
	store     Store
	validator *Validator
	logger    *zap.Logger
	tracer    trace.Tracer
	now       func() time.Time

	mu sync.Mutex
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Reconciler) { r.logger = l }
}

// WithValidator replaces the default validator.
func WithValidator(v *Validator) Option {
	return func(r *Reconciler) { r.validator = v }
}

// WithClock overrides the time source used for UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) { r.now = now }
}

// NewReconciler creates a Reconciler writing to store.
func NewReconciler(store Store, opts ...Option) *Reconciler {
	r := &Reconciler{
		store:     store,
		validator: NewValidator(DefaultIdentityField),
		logger:    zap.NewNop(),
		tracer:    otel.Tracer(tracerName),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile makes the store match snapshot: Validate, Diff, then apply
// creates, updates and deletes in that order.
//
// Storage failures on single records do not stop the run. They are listed
// in SyncResult.Errors and combined into the returned error, so a non-nil
// error can come with a meaningful partial result. Only a failure to read
// the current store state or to generate ids aborts before any mutation.
func (r *Reconciler) Reconcile(ctx context.Context, snapshot []RawRow) (SyncResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	ctx, span := r.tracer.Start(ctx, "reconcile", trace.WithAttributes(
		attribute.Int("snapshot.rows", len(snapshot)),
	))
	defer span.End()

	var result SyncResult

	plan, rows, skips, err := r.plan(ctx, snapshot)
	if err != nil {
		r.fail(span, err)
		return result, err
	}
	result.TotalProcessed = len(rows)
	result.Skipped = len(skips)
	result.Skips = skips
	for _, s := range skips {
		r.logger.Debug("Row skipped", zap.Int("index", s.Index), zap.String("reason", s.Reason))
	}
	result.Unchanged = len(plan.Unchanged)

	r.logger.Info("Sync plan computed",
		zap.Int("rows", len(snapshot)),
		zap.Int("valid", len(rows)),
		zap.Int("to_create", len(plan.ToCreate)),
		zap.Int("to_update", len(plan.ToUpdate)),
		zap.Int("to_delete", len(plan.ToDelete)),
		zap.Int("unchanged", len(plan.Unchanged)))

	stamp := r.now().UTC()
	var errs error

	n, phaseErr := r.applyPuts(ctx, PhaseCreate, plan.ToCreate, stamp, &result)
	result.Created = n
	errs = multierr.Append(errs, phaseErr)

	n, phaseErr = r.applyPuts(ctx, PhaseUpdate, plan.ToUpdate, stamp, &result)
	result.Updated = n
	errs = multierr.Append(errs, phaseErr)

	n, phaseErr = r.applyDeletes(ctx, plan.ToDelete, &result)
	result.Deleted = n
	errs = multierr.Append(errs, phaseErr)

	elapsed := time.Since(start)
	syncDuration.Observe(elapsed.Seconds())

	fields := []zap.Field{
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("deleted", result.Deleted),
		zap.Int("unchanged", result.Unchanged),
		zap.Int("skipped", result.Skipped),
		zap.Int("total_processed", result.TotalProcessed),
		zap.Duration("duration", elapsed),
	}

	span.SetAttributes(
		attribute.Int("sync.created", result.Created),
		attribute.Int("sync.updated", result.Updated),
		attribute.Int("sync.deleted", result.Deleted),
		attribute.Int("sync.errors", len(result.Errors)),
	)

	if errs != nil {
		observeResult(result, outcomePartial)
		span.SetStatus(codes.Error, "partial sync")
		r.logger.Warn("Sync completed with errors", append(fields, zap.Int("errors", len(result.Errors)), zap.Error(errs))...)
		return result, errs
	}

	observeResult(result, outcomeOK)
	r.logger.Info("Sync completed", fields...)
	return result, nil
}

// Preview computes the plan Reconcile would apply without writing anything.
// Ids generated for new rows without one are not kept: a later Reconcile
// generates fresh ones.
func (r *Reconciler) Preview(ctx context.Context, snapshot []RawRow) (Plan, []SkipReason, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	plan, _, skips, err := r.plan(ctx, snapshot)
	return plan, skips, err
}

func (r *Reconciler) plan(ctx context.Context, snapshot []RawRow) (Plan, []ValidRow, []SkipReason, error) {
	existing, err := loadExisting(ctx, r.store)
	if err != nil {
		return Plan{}, nil, nil, fmt.Errorf("failed to load existing records: %w", err)
	}

	rows, skips, err := r.validator.Validate(snapshot, existing)
	if err != nil {
		return Plan{}, nil, nil, fmt.Errorf("failed to validate snapshot: %w", err)
	}
	return Diff(existing, rows), rows, skips, nil
}

// applyPuts writes rows one by one. A failed record is recorded and skipped.
func (r *Reconciler) applyPuts(ctx context.Context, phase Phase, rows []ValidRow, stamp time.Time, result *SyncResult) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	ctx, span := r.tracer.Start(ctx, "reconcile."+string(phase), trace.WithAttributes(
		attribute.Int("records", len(rows)),
	))
	defer span.End()

	var (
		applied int
		errs    error
	)
	for _, row := range rows {
		err := ctx.Err()
		if err == nil {
			err = r.store.Put(ctx, Record{ID: row.ID, Fields: row.Fields, UpdatedAt: stamp})
		}
		if err != nil {
			errs = multierr.Append(errs, r.recordFailure(result, phase, row.ID, err))
			continue
		}
		applied++
	}

	if errs != nil {
		span.SetStatus(codes.Error, "record failures")
	}
	return applied, errs
}

// applyDeletes removes ids one by one. Ids already gone are not counted.
func (r *Reconciler) applyDeletes(ctx context.Context, ids []string, result *SyncResult) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	ctx, span := r.tracer.Start(ctx, "reconcile."+string(PhaseDelete), trace.WithAttributes(
		attribute.Int("records", len(ids)),
	))
	defer span.End()

	var (
		deleted int
		errs    error
	)
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			errs = multierr.Append(errs, r.recordFailure(result, PhaseDelete, id, err))
			continue
		}

		removed, err := r.store.Delete(ctx, id)
		if err != nil {
			errs = multierr.Append(errs, r.recordFailure(result, PhaseDelete, id, err))
			continue
		}
		if removed {
			deleted++
		}
	}

	if errs != nil {
		span.SetStatus(codes.Error, "record failures")
	}
	return deleted, errs
}

func (r *Reconciler) recordFailure(result *SyncResult, phase Phase, id string, err error) error {
	result.Errors = append(result.Errors, RecordError{ID: id, Phase: phase, Err: err.Error()})
	r.logger.Error("Record sync failed",
		zap.String("phase", string(phase)),
		zap.String("id", id),
		zap.Error(err))
	return fmt.Errorf("%s %s: %w", phase, id, err)
}

func (r *Reconciler) fail(span trace.Span, err error) {
	observeResult(SyncResult{}, outcomeFailed)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	r.logger.Error("Sync aborted", zap.Error(err))
}
