package cron

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/townkart/townkart-backend/internal/assignments"
	"github.com/townkart/townkart-backend/internal/notifications"
	"github.com/townkart/townkart-backend/pkg/db/models"
	pkgerrors "github.com/townkart/townkart-backend/pkg/errors"
	"github.com/townkart/townkart-backend/pkg/logger"
)

const (
	defaultRetryMaxAttempts = 5
	defaultRetryLookback    = 30 * time.Minute
	defaultRetryBatchSize   = 50
)

// AssignmentRetryJobParams configure the stuck-order retry job.
type AssignmentRetryJobParams struct {
	Logger      *logger.Logger
	Orders      stuckOrderSource
	Dispatcher  assignmentDispatcher
	Admins      adminDirectory
	Alerts      stuckAlerter
	MaxAttempts int
	Lookback    time.Duration
	BatchSize   int
}

type stuckOrderSource interface {
	ListUnassignedReadyOrders(ctx context.Context, since time.Time, limit int) ([]models.Order, error)
}

type assignmentDispatcher interface {
	AutoAssign(ctx context.Context, input assignments.AutoAssignInput) (*models.OrderAssignment, error)
}

type adminDirectory interface {
	ListAdminIDs(ctx context.Context) ([]uuid.UUID, error)
}

type stuckAlerter interface {
	AssignmentStuck(ctx context.Context, input notifications.AssignmentStuckInput) error
}

// NewAssignmentRetryJob builds the job that sweeps ready orders without an
// active assignment and re-runs auto-dispatch for each.
func NewAssignmentRetryJob(params AssignmentRetryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("order source required")
	}
	if params.Dispatcher == nil {
		return nil, fmt.Errorf("assignment dispatcher required")
	}
	maxAttempts := params.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultRetryMaxAttempts
	}
	lookback := params.Lookback
	if lookback <= 0 {
		lookback = defaultRetryLookback
	}
	batchSize := params.BatchSize
	if batchSize <= 0 {
		batchSize = defaultRetryBatchSize
	}
	return &assignmentRetryJob{
		logg:        params.Logger,
		orders:      params.Orders,
		dispatcher:  params.Dispatcher,
		admins:      params.Admins,
		alerts:      params.Alerts,
		maxAttempts: maxAttempts,
		lookback:    lookback,
		batchSize:   batchSize,
		now:         time.Now,
		failures:    make(map[uuid.UUID]int),
		alerted:     make(map[uuid.UUID]bool),
	}, nil
}

type assignmentRetryJob struct {
	logg        *logger.Logger
	orders      stuckOrderSource
	dispatcher  assignmentDispatcher
	admins      adminDirectory
	alerts      stuckAlerter
	maxAttempts int
	lookback    time.Duration
	batchSize   int
	now         func() time.Time

	// failure counts survive between cycles so no-candidate orders
	// eventually escalate instead of retrying forever silently.
	mu       sync.Mutex
	failures map[uuid.UUID]int
	alerted  map[uuid.UUID]bool
}

func (j *assignmentRetryJob) Name() string { return "assignment-retry" }

func (j *assignmentRetryJob) Run(ctx context.Context) error {
	since := j.now().UTC().Add(-j.lookback)
	orders, err := j.orders.ListUnassignedReadyOrders(ctx, since, j.batchSize)
	if err != nil {
		return fmt.Errorf("list unassigned orders: %w", err)
	}

	var assigned, unplaced int
	seen := make(map[uuid.UUID]bool, len(orders))
	for _, order := range orders {
		seen[order.ID] = true
		if j.retryOrder(ctx, order) {
			assigned++
		} else {
			unplaced++
		}
	}
	j.forget(seen)

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"orders_checked": len(orders),
		"assigned":       assigned,
		"unplaced":       unplaced,
	})
	j.logg.Info(logCtx, "assignment retry sweep complete")
	return nil
}

func (j *assignmentRetryJob) retryOrder(ctx context.Context, order models.Order) bool {
	orderCtx := j.logg.WithOrderID(ctx, order.ID.String())
	_, err := j.dispatcher.AutoAssign(ctx, assignments.AutoAssignInput{OrderID: order.ID})
	if err == nil {
		j.clear(order.ID)
		j.logg.Info(orderCtx, "stuck order assigned on retry")
		return true
	}

	pkgErr := pkgerrors.As(err)
	if pkgErr == nil || pkgErr.Code() != pkgerrors.CodeNoCandidate {
		// Conflicts mean someone assigned the order between the sweep
		// query and the retry. Treat everything except no-candidate as
		// transient and leave the counters alone.
		j.logg.Warn(orderCtx, "assignment retry skipped: "+err.Error())
		return false
	}

	attempts := j.recordFailure(order.ID)
	if attempts < j.maxAttempts || j.alreadyAlerted(order.ID) {
		return false
	}
	j.alertStuck(ctx, order, attempts)
	return false
}

func (j *assignmentRetryJob) alertStuck(ctx context.Context, order models.Order, attempts int) {
	orderCtx := j.logg.WithOrderID(ctx, order.ID.String())
	if j.admins == nil || j.alerts == nil {
		j.logg.Warn(orderCtx, "order exhausted assignment retries; no alert sink configured")
		return
	}
	adminIDs, err := j.admins.ListAdminIDs(ctx)
	if err != nil {
		j.logg.Error(orderCtx, "list admins for stuck-order alert", err)
		return
	}
	for _, adminID := range adminIDs {
		input := notifications.AssignmentStuckInput{
			AdminID:     adminID,
			OrderID:     order.ID,
			OrderNumber: order.OrderNumber,
			Attempts:    attempts,
		}
		if err := j.alerts.AssignmentStuck(ctx, input); err != nil {
			j.logg.Error(orderCtx, "send stuck-order alert", err)
			return
		}
	}
	j.markAlerted(order.ID)
	j.logg.Warn(orderCtx, fmt.Sprintf("order flagged for manual assignment after %d attempts", attempts))
}

func (j *assignmentRetryJob) recordFailure(orderID uuid.UUID) int {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.failures[orderID]++
	return j.failures[orderID]
}

func (j *assignmentRetryJob) alreadyAlerted(orderID uuid.UUID) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.alerted[orderID]
}

func (j *assignmentRetryJob) markAlerted(orderID uuid.UUID) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.alerted[orderID] = true
}

func (j *assignmentRetryJob) clear(orderID uuid.UUID) {
	j.mu.Lock()
	defer j.mu.Unlock()
	delete(j.failures, orderID)
	delete(j.alerted, orderID)
}

// forget drops counters for orders that left the sweep window, either
// because they were assigned elsewhere or aged out.
func (j *assignmentRetryJob) forget(seen map[uuid.UUID]bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	for id := range j.failures {
		if !seen[id] {
			delete(j.failures, id)
			delete(j.alerted, id)
		}
	}
}
