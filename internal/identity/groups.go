package identity

import (
	"context"
	"net/http"
)

// CreateGroup creates an approved group. A duplicate name yields KindConflict.
func (c *Client) CreateGroup(ctx context.Context, name, description string) (*Group, error) {
	var group Group
	err := c.do(ctx, request{
		name:   "CreateGroup",
		method: http.MethodPost,
		path:   "/groups",
		body:   createGroupRequest{Name: name, Description: description, Status: StatusApproved},
	}, &group)
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// GetGroup fetches a group by id. An absent group yields KindNotFound.
func (c *Client) GetGroup(ctx context.Context, groupID string) (*Group, error) {
	var group Group
	err := c.do(ctx, request{
		name:   "GetGroup",
		method: http.MethodGet,
		path:   "/groups/" + escape(groupID),
	}, &group)
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// DeleteGroup deletes a group by id. An absent group yields KindNotFound.
func (c *Client) DeleteGroup(ctx context.Context, groupID string) error {
	return c.do(ctx, request{
		name:   "DeleteGroup",
		method: http.MethodDelete,
		path:   "/groups/" + escape(groupID),
	}, nil)
}

// ListGroups returns one page of groups matching opts.
func (c *Client) ListGroups(ctx context.Context, opts ListOptions) (*Page[Group], error) {
	var page Page[Group]
	err := c.do(ctx, request{
		name:   "ListGroups",
		method: http.MethodGet,
		path:   "/groups",
		query:  listQuery(opts),
	}, &page)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// ListGroupUsers returns one page of the group's members.
func (c *Client) ListGroupUsers(ctx context.Context, groupID string, opts ListOptions) (*Page[User], error) {
	var page Page[User]
	err := c.do(ctx, request{
		name:   "ListGroupUsers",
		method: http.MethodGet,
		path:   "/groups/" + escape(groupID) + "/users",
		query:  listQuery(opts),
	}, &page)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// AddUsersToGroup adds the given user ids to a group in one call.
func (c *Client) AddUsersToGroup(ctx context.Context, groupID string, userIDs []string) error {
	if len(userIDs) == 0 {
		return nil
	}
	return c.do(ctx, request{
		name:   "AddUsersToGroup",
		method: http.MethodPost,
		path:   "/groups/" + escape(groupID) + "/users",
		body:   userIDs,
	}, nil)
}

// RemoveUserFromGroup removes a single member from a group.
func (c *Client) RemoveUserFromGroup(ctx context.Context, groupID, userID string) error {
	return c.do(ctx, request{
		name:   "RemoveUserFromGroup",
		method: http.MethodDelete,
		path:   "/groups/" + escape(groupID) + "/users/" + escape(userID),
	}, nil)
}
