// Package access keeps each program's identity-service groups, policy and
// permission masks in line with the program's lifecycle and role membership.
//
// The Reconciler is stateless across calls and does not lock: callers must
// serialize Provision, ReconcileMembers and Deprovision for the same program.
// Every operation is safe to re-run from scratch after a partial failure.
package access

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"github.com/argo-platform/program-service/internal/identity"
	"github.com/argo-platform/program-service/internal/telemetry"
)

const tracerName = "programapi/services/access"

// IdentityService is the subset of the identity-service API the reconciler drives.
// *identity.Client implements it.
type IdentityService interface {
	CreateGroup(ctx context.Context, name, description string) (*identity.Group, error)
	GetGroup(ctx context.Context, groupID string) (*identity.Group, error)
	DeleteGroup(ctx context.Context, groupID string) error
	ListGroups(ctx context.Context, opts identity.ListOptions) (*identity.Page[identity.Group], error)
	ListGroupUsers(ctx context.Context, groupID string, opts identity.ListOptions) (*identity.Page[identity.User], error)
	AddUsersToGroup(ctx context.Context, groupID string, userIDs []string) error
	RemoveUserFromGroup(ctx context.Context, groupID, userID string) error

	CreatePolicy(ctx context.Context, name string) (*identity.Policy, error)
	DeletePolicy(ctx context.Context, policyID string) error
	ListPolicies(ctx context.Context, opts identity.ListOptions) (*identity.Page[identity.Policy], error)
	ListPolicyGroups(ctx context.Context, policyID string) ([]identity.PolicyGroup, error)
	SetGroupPermission(ctx context.Context, policyID, groupID string, mask identity.Mask) error
}

// BindingStore persists role to group bindings.
type BindingStore interface {
	// ListBindings returns every binding of the entity.
	ListBindings(ctx context.Context, entityID uuid.UUID) ([]Binding, error)
	// SaveBinding creates or replaces the binding for (EntityID, Role).
	SaveBinding(ctx context.Context, binding Binding) error
	// DeleteBinding removes the binding for (entityID, role). Missing bindings are not an error.
	DeleteBinding(ctx context.Context, entityID uuid.UUID, role Role) error
}

// Options tunes a Reconciler. Zero values select defaults.
type Options struct {
	// Masks is the role to mask table. Defaults to DefaultMasks().
	Masks MaskTable
	// MaxAttempts bounds calls per identity-service operation, including the first. Default 4.
	MaxAttempts int
	// InitialInterval is the first retry delay. Default 200ms.
	InitialInterval time.Duration
	// MaxInterval caps the exponential retry delay. Default 5s.
	MaxInterval time.Duration
	// Concurrency bounds parallel group creation within one Provision. Default 4.
	Concurrency int
	// PageSize is used when listing groups, policies and members. Default 100.
	PageSize int

	Logger  *slog.Logger
	Metrics *telemetry.ReconcileMetrics
}

// Reconciler brings identity-service state for one program in line with local intent.
type Reconciler struct {
	idp      IdentityService
	bindings BindingStore
	masks    MaskTable

	maxAttempts     int
	initialInterval time.Duration
	maxInterval     time.Duration
	concurrency     int
	pageSize        int

	logger  *slog.Logger
	metrics *telemetry.ReconcileMetrics
}

// NewReconciler creates a reconciler. The mask table is copied and validated.
func NewReconciler(idp IdentityService, bindings BindingStore, opts Options) (*Reconciler, error) {
	if idp == nil {
		return nil, fmt.Errorf("access: identity service is required")
	}
	if bindings == nil {
		return nil, fmt.Errorf("access: binding store is required")
	}

	masks := opts.Masks
	if masks == nil {
		masks = DefaultMasks()
	}
	if err := masks.validate(); err != nil {
		return nil, fmt.Errorf("access: %w", err)
	}

	r := &Reconciler{
		idp:             idp,
		bindings:        bindings,
		masks:           masks.clone(),
		maxAttempts:     opts.MaxAttempts,
		initialInterval: opts.InitialInterval,
		maxInterval:     opts.MaxInterval,
		concurrency:     opts.Concurrency,
		pageSize:        opts.PageSize,
		logger:          opts.Logger,
		metrics:         opts.Metrics,
	}
	if r.maxAttempts <= 0 {
		r.maxAttempts = 4
	}
	if r.initialInterval <= 0 {
		r.initialInterval = 200 * time.Millisecond
	}
	if r.maxInterval <= 0 {
		r.maxInterval = 5 * time.Second
	}
	if r.maxInterval < r.initialInterval {
		r.maxInterval = r.initialInterval
	}
	if r.concurrency <= 0 {
		r.concurrency = 4
	}
	if r.pageSize <= 0 {
		r.pageSize = 100
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r, nil
}

// Masks returns a copy of the role to mask table in use.
func (r *Reconciler) Masks() MaskTable {
	return r.masks.clone()
}

// scope identifies what a call was made for, for errors and logs.
type scope struct {
	entity Entity
	role   Role
}

func (r *Reconciler) newBackOff(ctx context.Context) backoff.BackOffContext {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = r.initialInterval
	exp.MaxInterval = r.maxInterval
	exp.MaxElapsedTime = 0
	exp.Reset()
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(r.maxAttempts-1)), ctx)
}

// call runs one identity-service operation under the retry policy.
// Transient failures are retried up to maxAttempts and then reported as
// *ProvisioningFailedError. Any other failure is returned on first sight.
func (r *Reconciler) call(ctx context.Context, s scope, name string, fn func(context.Context) error) error {
	attempts := 0
	operation := func() error {
		attempts++
		err := fn(ctx)
		if err == nil || identity.IsTransient(err) {
			return err
		}
		return backoff.Permanent(err)
	}
	notify := func(err error, wait time.Duration) {
		r.metrics.RecordRetry(ctx, name)
		r.logger.Warn("identity call failed, retrying",
			"call", name,
			"program", s.entity.ShortName,
			"role", s.role,
			"attempt", attempts,
			"wait", wait,
			"error", err,
		)
	}

	err := backoff.RetryNotify(operation, r.newBackOff(ctx), notify)
	switch {
	case err == nil:
		return nil
	case identity.IsTransient(err):
		return &ProvisioningFailedError{
			EntityID:  s.entity.ID,
			ShortName: s.entity.ShortName,
			Role:      s.role,
			Call:      name,
			Cause:     identity.KindTransient,
			Attempts:  attempts,
			Err:       err,
		}
	case identity.IsUnauthorized(err):
		r.logger.Error("identity service rejected the service credential",
			"call", name,
			"program", s.entity.ShortName,
			"error", err,
		)
		return fmt.Errorf("%s: %w", name, err)
	default:
		return fmt.Errorf("%s: %w", name, err)
	}
}

// mutate is call for operations that change identity-service state.
func (r *Reconciler) mutate(ctx context.Context, s scope, name string, fn func(context.Context) error) error {
	return r.call(ctx, s, name, func(ctx context.Context) error {
		r.metrics.RecordMutation(ctx, name)
		return fn(ctx)
	})
}

func (r *Reconciler) observe(ctx context.Context, operation string, start time.Time, err *error) {
	r.metrics.RecordOperation(ctx, operation, *err == nil, float64(time.Since(start).Microseconds())/1000.0)
}
