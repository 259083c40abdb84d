package identity

import (
	"context"
	"net/http"
	"strings"
)

// ListUsers returns one page of users matching opts.
func (c *Client) ListUsers(ctx context.Context, opts ListOptions) (*Page[User], error) {
	var page Page[User]
	err := c.do(ctx, request{
		name:   "ListUsers",
		method: http.MethodGet,
		path:   "/users",
		query:  listQuery(opts),
	}, &page)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// GetPublicKey fetches the token verification key as PEM text.
func (c *Client) GetPublicKey(ctx context.Context) (string, error) {
	body, err := c.doRaw(ctx, request{
		name:   "GetPublicKey",
		method: http.MethodGet,
		path:   "/oauth/token/public_key",
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}
