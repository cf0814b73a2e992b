package api

import (
	"context"
	"net/http"

	"signa/internal/domain"
)

func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	out := []domain.User{}
	if err := c.do(ctx, http.MethodGet, "/users", true, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetUser(ctx context.Context, id domain.UserID) (domain.User, error) {
	var out domain.User
	if err := c.do(ctx, http.MethodGet, "/users/"+id.String(), true, nil, &out); err != nil {
		return domain.User{}, err
	}
	return out, nil
}

func (c *Client) CreateUser(ctx context.Context, draft domain.UserDraft) (domain.SignResult, error) {
	var out domain.SignResult
	if err := c.do(ctx, http.MethodPost, "/users", true, draft, &out); err != nil {
		return domain.SignResult{}, err
	}
	return out, nil
}

func (c *Client) UpdateUser(ctx context.Context, id domain.UserID, patch domain.UserPatch) (domain.SignResult, error) {
	var out domain.SignResult
	if err := c.do(ctx, http.MethodPatch, "/users/"+id.String(), true, patch, &out); err != nil {
		return domain.SignResult{}, err
	}
	return out, nil
}

func (c *Client) DeleteUser(ctx context.Context, id domain.UserID) (domain.Ack, error) {
	var out domain.Ack
	if err := c.do(ctx, http.MethodDelete, "/users/"+id.String(), true, nil, &out); err != nil {
		return domain.Ack{}, err
	}
	return out, nil
}
