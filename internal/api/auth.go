package api

import (
	"context"
	"net/http"

	"signa/internal/domain"
)

// Login exchanges credentials for an access token. It is the only
// unauthenticated call.
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (domain.LoginResult, error) {
	var out domain.LoginResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", false, creds, &out); err != nil {
		return domain.LoginResult{}, err
	}
	return out, nil
}
