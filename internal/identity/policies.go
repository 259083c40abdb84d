package identity

import (
	"context"
	"fmt"
	"net/http"
)

// CreatePolicy creates a policy. A duplicate name yields KindConflict.
func (c *Client) CreatePolicy(ctx context.Context, name string) (*Policy, error) {
	var policy Policy
	err := c.do(ctx, request{
		name:   "CreatePolicy",
		method: http.MethodPost,
		path:   "/policies",
		body:   createPolicyRequest{Name: name},
	}, &policy)
	if err != nil {
		return nil, err
	}
	return &policy, nil
}

// DeletePolicy deletes a policy and every grant it holds.
func (c *Client) DeletePolicy(ctx context.Context, policyID string) error {
	return c.do(ctx, request{
		name:   "DeletePolicy",
		method: http.MethodDelete,
		path:   "/policies/" + escape(policyID),
	}, nil)
}

// ListPolicies returns one page of policies matching opts.
func (c *Client) ListPolicies(ctx context.Context, opts ListOptions) (*Page[Policy], error) {
	var page Page[Policy]
	err := c.do(ctx, request{
		name:   "ListPolicies",
		method: http.MethodGet,
		path:   "/policies",
		query:  listQuery(opts),
	}, &page)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// ListPolicyGroups returns every group granted a mask on the policy.
func (c *Client) ListPolicyGroups(ctx context.Context, policyID string) ([]PolicyGroup, error) {
	var groups []PolicyGroup
	err := c.do(ctx, request{
		name:   "ListPolicyGroups",
		method: http.MethodGet,
		path:   "/policies/" + escape(policyID) + "/groups",
	}, &groups)
	if err != nil {
		return nil, err
	}
	return groups, nil
}

// SetGroupPermission grants mask to the group on the policy, replacing any previous mask.
func (c *Client) SetGroupPermission(ctx context.Context, policyID, groupID string, mask Mask) error {
	if !mask.Valid() {
		return fmt.Errorf("identity: invalid mask %q", mask)
	}
	return c.do(ctx, request{
		name:   "SetGroupPermission",
		method: http.MethodPost,
		path:   "/policies/" + escape(policyID) + "/permission/group/" + escape(groupID),
		body:   maskRequest{Mask: mask},
	}, nil)
}

// RemoveGroupPermission revokes the group's grant on the policy.
func (c *Client) RemoveGroupPermission(ctx context.Context, policyID, groupID string) error {
	return c.do(ctx, request{
		name:   "RemoveGroupPermission",
		method: http.MethodDelete,
		path:   "/policies/" + escape(policyID) + "/permission/group/" + escape(groupID),
	}, nil)
}
