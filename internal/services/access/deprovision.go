package access

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/argo-platform/program-service/internal/identity"
	"github.com/argo-platform/program-service/internal/telemetry"
)

// Deprovision deletes every role group and the policy of the program, and
// removes the local bindings. Groups are found through bindings and by their
// deterministic names, so groups whose binding was lost are removed too.
// Objects already absent upstream count as deleted.
func (r *Reconciler) Deprovision(ctx context.Context, e Entity) (err error) {
	if err := e.validate(); err != nil {
		return fmt.Errorf("access: deprovision: %w", err)
	}

	ctx, span := telemetry.StartSpan(ctx, tracerName, "access.Deprovision",
		attribute.String(telemetry.AttrProgramID, e.ID.String()),
		attribute.String(telemetry.AttrProgramShortName, e.ShortName),
	)
	defer span.End()
	defer r.observe(ctx, "deprovision", time.Now(), &err)
	defer func() { telemetry.RecordError(span, err) }()

	bound, err := r.loadBindings(ctx, e)
	if err != nil {
		return err
	}

	byName := make(map[string]Role, len(Roles))
	for _, role := range Roles {
		byName[GroupName(e.ShortName, role)] = role
	}
	named, err := listAll(ctx, r, scope{entity: e}, "ListGroups", PolicyName(e.ShortName)+"-", r.idp.ListGroups)
	if err != nil {
		return err
	}

	targets := make(map[Role][]string, len(Roles))
	for role, b := range bound {
		targets[role] = append(targets[role], b.GroupID)
	}
	for _, g := range named {
		role, ok := byName[g.Name]
		if !ok || contains(targets[role], g.ID) {
			continue
		}
		targets[role] = append(targets[role], g.ID)
	}

	deleted := 0
	for _, role := range Roles {
		s := scope{entity: e, role: role}
		for _, groupID := range targets[role] {
			err := r.mutate(ctx, s, "DeleteGroup", func(ctx context.Context) error {
				return r.idp.DeleteGroup(ctx, groupID)
			})
			if err != nil && !identity.IsNotFound(err) {
				return err
			}
			deleted++
		}
		if _, ok := bound[role]; ok {
			if err := r.bindings.DeleteBinding(ctx, e.ID, role); err != nil {
				return fmt.Errorf("delete binding for %s %s: %w", e.ShortName, role, err)
			}
		}
	}

	policy, err := r.findPolicy(ctx, scope{entity: e}, PolicyName(e.ShortName))
	if err != nil {
		return err
	}
	if policy != nil {
		err := r.mutate(ctx, scope{entity: e}, "DeletePolicy", func(ctx context.Context) error {
			return r.idp.DeletePolicy(ctx, policy.ID)
		})
		if err != nil && !identity.IsNotFound(err) {
			return err
		}
	}

	r.logger.Info("program deprovisioned",
		"program", e.ShortName,
		"program_id", e.ID,
		"groups_deleted", deleted,
		"policy_deleted", policy != nil,
	)
	return nil
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
