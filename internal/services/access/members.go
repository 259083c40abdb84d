package access

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/argo-platform/program-service/internal/identity"
	"github.com/argo-platform/program-service/internal/telemetry"
)

// ReconcileMembers makes the role group's membership equal desired.
//
// Only the difference is applied: one AddUsersToGroup call for the missing
// users and one RemoveUserFromGroup call per surplus member. When the role has
// no group yet and desired is non-empty, the group is provisioned (with its
// mask) first; when desired is empty and there is no group, nothing happens.
func (r *Reconciler) ReconcileMembers(ctx context.Context, e Entity, role Role, desired []string) (err error) {
	if err := e.validate(); err != nil {
		return fmt.Errorf("access: reconcile members: %w", err)
	}
	if !role.Valid() {
		return fmt.Errorf("access: reconcile members: unknown role %q", role)
	}

	ctx, span := telemetry.StartSpan(ctx, tracerName, "access.ReconcileMembers",
		attribute.String(telemetry.AttrProgramID, e.ID.String()),
		attribute.String(telemetry.AttrProgramShortName, e.ShortName),
		attribute.String(telemetry.AttrProgramRole, string(role)),
	)
	defer span.End()
	defer r.observe(ctx, "reconcile_members", time.Now(), &err)
	defer func() { telemetry.RecordError(span, err) }()

	s := scope{entity: e, role: role}

	bound, err := r.loadBindings(ctx, e)
	if err != nil {
		return err
	}

	var group *identity.Group
	if b, ok := bound[role]; ok {
		group, err = r.boundGroup(ctx, s, b)
		if err != nil {
			return err
		}
	}

	if group == nil {
		if len(normalizeMembers(desired)) == 0 {
			return nil
		}
		group, err = r.provisionRole(ctx, s)
		if err != nil {
			return err
		}
	}

	added, removed, err := r.syncMembers(ctx, s, group.ID, desired)
	if err != nil {
		return err
	}
	span.SetAttributes(
		attribute.Int(telemetry.AttrMembershipAdds, added),
		attribute.Int(telemetry.AttrMembershipRemove, removed),
	)
	return nil
}

// provisionRole creates a role group on demand: policy, group and binding, then mask.
func (r *Reconciler) provisionRole(ctx context.Context, s scope) (*identity.Group, error) {
	policy, err := r.ensurePolicy(ctx, s.entity)
	if err != nil {
		return nil, err
	}
	group, err := r.createGroup(ctx, s)
	if err != nil {
		return nil, err
	}
	grants, err := r.policyGrants(ctx, s.entity, policy.ID)
	if err != nil {
		return nil, err
	}
	if err := r.ensureMask(ctx, s.entity, s.role, policy.ID, group.ID, grants); err != nil {
		return nil, err
	}
	return group, nil
}

// syncMembers applies the symmetric difference between desired and the
// group's current membership.
func (r *Reconciler) syncMembers(ctx context.Context, s scope, groupID string, desired []string) (added, removed int, err error) {
	current, err := listAll(ctx, r, s, "ListGroupUsers", "", func(ctx context.Context, opts identity.ListOptions) (*identity.Page[identity.User], error) {
		return r.idp.ListGroupUsers(ctx, groupID, opts)
	})
	if err != nil {
		return 0, 0, err
	}

	have := make(map[string]struct{}, len(current))
	for _, u := range current {
		have[u.ID] = struct{}{}
	}
	want := make(map[string]struct{}, len(desired))
	for _, id := range normalizeMembers(desired) {
		want[id] = struct{}{}
	}

	toAdd := difference(want, have)
	toRemove := difference(have, want)

	if len(toAdd) > 0 {
		err := r.mutate(ctx, s, "AddUsersToGroup", func(ctx context.Context) error {
			return r.idp.AddUsersToGroup(ctx, groupID, toAdd)
		})
		if err != nil {
			return 0, 0, err
		}
	}

	for _, userID := range toRemove {
		err := r.mutate(ctx, s, "RemoveUserFromGroup", func(ctx context.Context) error {
			return r.idp.RemoveUserFromGroup(ctx, groupID, userID)
		})
		if err != nil && !identity.IsNotFound(err) {
			return len(toAdd), removed, err
		}
		removed++
	}

	if len(toAdd) > 0 || removed > 0 {
		r.logger.Info("group membership reconciled",
			"program", s.entity.ShortName,
			"role", s.role,
			"group_id", groupID,
			"added", len(toAdd),
			"removed", removed,
		)
	}
	return len(toAdd), removed, nil
}

// normalizeMembers drops empty ids and duplicates, preserving order.
func normalizeMembers(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// difference returns the sorted keys of a that are not in b.
func difference(a, b map[string]struct{}) []string {
	var out []string
	for k := range a {
		if _, ok := b[k]; !ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
