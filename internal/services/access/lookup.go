package access

import (
	"context"
	"fmt"

	"github.com/argo-platform/program-service/internal/identity"
)

// listAll pages through a list endpoint, retrying each page independently.
func listAll[T any](ctx context.Context, r *Reconciler, s scope, name, query string, fetch identity.PageFunc[T]) ([]T, error) {
	return identity.CollectAll(ctx, query, r.pageSize, func(ctx context.Context, opts identity.ListOptions) (*identity.Page[T], error) {
		var page *identity.Page[T]
		err := r.call(ctx, s, name, func(ctx context.Context) error {
			var err error
			page, err = fetch(ctx, opts)
			return err
		})
		return page, err
	})
}

// findPolicy returns the policy named exactly name, or nil.
func (r *Reconciler) findPolicy(ctx context.Context, s scope, name string) (*identity.Policy, error) {
	policies, err := listAll(ctx, r, s, "ListPolicies", name, r.idp.ListPolicies)
	if err != nil {
		return nil, err
	}
	for i := range policies {
		if policies[i].Name == name {
			return &policies[i], nil
		}
	}
	return nil, nil
}

// findGroup returns the group named exactly name, or nil.
func (r *Reconciler) findGroup(ctx context.Context, s scope, name string) (*identity.Group, error) {
	groups, err := listAll(ctx, r, s, "ListGroups", name, r.idp.ListGroups)
	if err != nil {
		return nil, err
	}
	for i := range groups {
		if groups[i].Name == name {
			return &groups[i], nil
		}
	}
	return nil, nil
}

func (r *Reconciler) loadBindings(ctx context.Context, e Entity) (map[Role]Binding, error) {
	bindings, err := r.bindings.ListBindings(ctx, e.ID)
	if err != nil {
		return nil, fmt.Errorf("load bindings for %s: %w", e.ShortName, err)
	}
	out := make(map[Role]Binding, len(bindings))
	for _, b := range bindings {
		out[b.Role] = b
	}
	return out, nil
}

// policyGrants returns the mask currently granted to each group id on the policy.
func (r *Reconciler) policyGrants(ctx context.Context, e Entity, policyID string) (map[string]identity.Mask, error) {
	var groups []identity.PolicyGroup
	err := r.call(ctx, scope{entity: e}, "ListPolicyGroups", func(ctx context.Context) error {
		var err error
		groups, err = r.idp.ListPolicyGroups(ctx, policyID)
		return err
	})
	if err != nil {
		return nil, err
	}
	grants := make(map[string]identity.Mask, len(groups))
	for _, g := range groups {
		grants[g.ID] = g.Mask
	}
	return grants, nil
}

// boundGroup verifies a binding against the identity service. It returns nil
// without error when the bound group no longer exists upstream.
func (r *Reconciler) boundGroup(ctx context.Context, s scope, b Binding) (*identity.Group, error) {
	var group *identity.Group
	err := r.call(ctx, s, "GetGroup", func(ctx context.Context) error {
		var err error
		group, err = r.idp.GetGroup(ctx, b.GroupID)
		return err
	})
	switch {
	case err == nil:
		return group, nil
	case identity.IsNotFound(err):
		r.logger.Warn("bound group missing upstream",
			"program", s.entity.ShortName,
			"role", s.role,
			"group_id", b.GroupID,
		)
		return nil, nil
	default:
		return nil, err
	}
}
