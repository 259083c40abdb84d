package access

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/argo-platform/program-service/internal/identity"
	"github.com/argo-platform/program-service/internal/telemetry"
)

// Provision brings the program's identity-service state in line with e.
//
// It ensures the program policy exists, then for every role that has desired
// members (or is already bound) ensures the role group exists and is bound,
// that the policy grants it the role's mask, and that its membership equals
// the desired members. Re-running on a provisioned program issues no mutating
// calls.
func (r *Reconciler) Provision(ctx context.Context, e Entity) (err error) {
	if err := e.validate(); err != nil {
		return fmt.Errorf("access: provision: %w", err)
	}

	ctx, span := telemetry.StartSpan(ctx, tracerName, "access.Provision",
		attribute.String(telemetry.AttrProgramID, e.ID.String()),
		attribute.String(telemetry.AttrProgramShortName, e.ShortName),
	)
	defer span.End()
	defer r.observe(ctx, "provision", time.Now(), &err)
	defer func() { telemetry.RecordError(span, err) }()

	policy, err := r.ensurePolicy(ctx, e)
	if err != nil {
		return err
	}

	bound, err := r.loadBindings(ctx, e)
	if err != nil {
		return err
	}
	roles := rolesToProvision(e, bound)

	// Groups are independent of each other; masks and members wait for all of them.
	groups := make([]*identity.Group, len(roles))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, role := range roles {
		g.Go(func() error {
			group, err := r.ensureGroup(gctx, e, role, bound)
			if err != nil {
				return err
			}
			groups[i] = group
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	grants, err := r.policyGrants(ctx, e, policy.ID)
	if err != nil {
		return err
	}
	for i, role := range roles {
		if err := r.ensureMask(ctx, e, role, policy.ID, groups[i].ID, grants); err != nil {
			return err
		}
	}

	for i, role := range roles {
		if _, _, err := r.syncMembers(ctx, scope{entity: e, role: role}, groups[i].ID, e.Members[role]); err != nil {
			return err
		}
	}

	r.logger.Info("program provisioned",
		"program", e.ShortName,
		"program_id", e.ID,
		"policy_id", policy.ID,
		"roles", len(roles),
	)
	return nil
}

// rolesToProvision returns, in Roles order, every role with desired members
// plus every role that is already bound.
func rolesToProvision(e Entity, bound map[Role]Binding) []Role {
	var roles []Role
	for _, role := range Roles {
		_, isBound := bound[role]
		if isBound || len(normalizeMembers(e.Members[role])) > 0 {
			roles = append(roles, role)
		}
	}
	return roles
}

// ensurePolicy finds or creates the program policy.
func (r *Reconciler) ensurePolicy(ctx context.Context, e Entity) (*identity.Policy, error) {
	s := scope{entity: e}
	name := PolicyName(e.ShortName)

	existing, err := r.findPolicy(ctx, s, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	var created *identity.Policy
	err = r.mutate(ctx, s, "CreatePolicy", func(ctx context.Context) error {
		var err error
		created, err = r.idp.CreatePolicy(ctx, name)
		return err
	})
	if err == nil {
		r.logger.Info("policy created", "program", e.ShortName, "policy", name, "policy_id", created.ID)
		return created, nil
	}
	if !identity.IsConflict(err) {
		return nil, err
	}

	// Created concurrently or by an earlier attempt whose response was lost.
	existing, ferr := r.findPolicy(ctx, s, name)
	if ferr != nil {
		return nil, ferr
	}
	if existing == nil {
		return nil, err
	}
	return existing, nil
}

// ensureGroup returns the role group, creating and binding it when the role is
// unbound or its bound group has disappeared upstream.
func (r *Reconciler) ensureGroup(ctx context.Context, e Entity, role Role, bound map[Role]Binding) (*identity.Group, error) {
	s := scope{entity: e, role: role}

	if b, ok := bound[role]; ok {
		group, err := r.boundGroup(ctx, s, b)
		if err != nil {
			return nil, err
		}
		if group != nil {
			return group, nil
		}
	}

	return r.createGroup(ctx, s)
}

// createGroup creates the role group, adopting an existing group of the same
// name on conflict, and records the binding.
func (r *Reconciler) createGroup(ctx context.Context, s scope) (*identity.Group, error) {
	name := GroupName(s.entity.ShortName, s.role)
	description := fmt.Sprintf("%s members of program %s", strings.ToLower(string(s.role)), s.entity.ShortName)

	var group *identity.Group
	err := r.mutate(ctx, s, "CreateGroup", func(ctx context.Context) error {
		var err error
		group, err = r.idp.CreateGroup(ctx, name, description)
		return err
	})
	switch {
	case err == nil:
		r.logger.Info("group created", "program", s.entity.ShortName, "role", s.role, "group_id", group.ID)
	case identity.IsConflict(err):
		existing, ferr := r.findGroup(ctx, s, name)
		if ferr != nil {
			return nil, ferr
		}
		if existing == nil {
			return nil, err
		}
		r.logger.Info("adopted existing group", "program", s.entity.ShortName, "role", s.role, "group_id", existing.ID)
		group = existing
	default:
		return nil, err
	}

	binding := Binding{EntityID: s.entity.ID, Role: s.role, GroupID: group.ID, GroupName: name}
	if err := r.bindings.SaveBinding(ctx, binding); err != nil {
		return nil, fmt.Errorf("save binding for %s %s: %w", s.entity.ShortName, s.role, err)
	}
	return group, nil
}

// ensureMask grants the role's mask to the group unless it already holds it.
func (r *Reconciler) ensureMask(ctx context.Context, e Entity, role Role, policyID, groupID string, grants map[string]identity.Mask) error {
	want := r.masks[role]
	if grants[groupID] == want {
		return nil
	}
	err := r.mutate(ctx, scope{entity: e, role: role}, "SetGroupPermission", func(ctx context.Context) error {
		return r.idp.SetGroupPermission(ctx, policyID, groupID, want)
	})
	if err != nil {
		return err
	}
	grants[groupID] = want
	r.logger.Info("permission set", "program", e.ShortName, "role", role, "group_id", groupID, "mask", want)
	return nil
}
