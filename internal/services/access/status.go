package access

import (
	"context"
	"fmt"

	"github.com/argo-platform/program-service/internal/identity"
)

// RoleStatus describes one role group of a program as seen upstream.
type RoleStatus struct {
	Role      Role
	GroupName string
	GroupID   string
	Bound     bool
	Exists    bool
	WantMask  identity.Mask
	Mask      identity.Mask // empty when the policy grants nothing
	Desired   int
	Missing   []string // desired but not members
	Surplus   []string // members but not desired
}

// InSync reports whether the role needs no reconciliation.
func (s RoleStatus) InSync() bool {
	if s.Desired == 0 && !s.Exists {
		return true
	}
	return s.Exists && s.Bound && s.Mask == s.WantMask && len(s.Missing) == 0 && len(s.Surplus) == 0
}

// Status is a read-only comparison of a program's local intent and upstream state.
type Status struct {
	ShortName  string
	PolicyName string
	PolicyID   string
	Roles      []RoleStatus
}

// InSync reports whether Provision would change nothing.
func (s *Status) InSync() bool {
	if s.PolicyID == "" {
		return false
	}
	for _, rs := range s.Roles {
		if !rs.InSync() {
			return false
		}
	}
	return true
}

// Status inspects the program's identity-service state without mutating it.
func (r *Reconciler) Status(ctx context.Context, e Entity) (*Status, error) {
	if err := e.validate(); err != nil {
		return nil, fmt.Errorf("access: status: %w", err)
	}

	st := &Status{ShortName: e.ShortName, PolicyName: PolicyName(e.ShortName)}

	policy, err := r.findPolicy(ctx, scope{entity: e}, st.PolicyName)
	if err != nil {
		return nil, err
	}
	grants := map[string]identity.Mask{}
	if policy != nil {
		st.PolicyID = policy.ID
		if grants, err = r.policyGrants(ctx, e, policy.ID); err != nil {
			return nil, err
		}
	}

	bound, err := r.loadBindings(ctx, e)
	if err != nil {
		return nil, err
	}

	for _, role := range Roles {
		s := scope{entity: e, role: role}
		rs := RoleStatus{
			Role:      role,
			GroupName: GroupName(e.ShortName, role),
			WantMask:  r.masks[role],
		}
		desired := normalizeMembers(e.Members[role])
		rs.Desired = len(desired)

		var group *identity.Group
		if b, ok := bound[role]; ok {
			rs.Bound = true
			if group, err = r.boundGroup(ctx, s, b); err != nil {
				return nil, err
			}
		} else if group, err = r.findGroup(ctx, s, rs.GroupName); err != nil {
			return nil, err
		}

		if group != nil {
			rs.Exists = true
			rs.GroupID = group.ID
			rs.Mask = grants[group.ID]

			members, err := listAll(ctx, r, s, "ListGroupUsers", "", func(ctx context.Context, opts identity.ListOptions) (*identity.Page[identity.User], error) {
				return r.idp.ListGroupUsers(ctx, group.ID, opts)
			})
			if err != nil {
				return nil, err
			}
			have := make(map[string]struct{}, len(members))
			for _, u := range members {
				have[u.ID] = struct{}{}
			}
			want := make(map[string]struct{}, len(desired))
			for _, id := range desired {
				want[id] = struct{}{}
			}
			rs.Missing = difference(want, have)
			rs.Surplus = difference(have, want)
		} else {
			rs.Missing = append([]string(nil), desired...)
		}

		st.Roles = append(st.Roles, rs)
	}
	return st, nil
}
