package api

import (
	"context"
	"net/http"

	"signa/internal/domain"
)

func (c *Client) CreateSign(ctx context.Context, draft domain.SignDraft) (domain.SignResult, error) {
	var out domain.SignResult
	if err := c.do(ctx, http.MethodPost, "/sign/create", true, draft, &out); err != nil {
		return domain.SignResult{}, err
	}
	return out, nil
}

// ListSigns unwraps the list envelope. A missing list is returned as empty.
func (c *Client) ListSigns(ctx context.Context) ([]domain.SignRecord, error) {
	var out domain.SignList
	if err := c.do(ctx, http.MethodGet, "/sign/list", true, nil, &out); err != nil {
		return nil, err
	}
	if recs := out.Records(); recs != nil {
		return recs, nil
	}
	return []domain.SignRecord{}, nil
}

func (c *Client) GetSign(ctx context.Context, id domain.SignID) (domain.SignResult, error) {
	var out domain.SignResult
	if err := c.do(ctx, http.MethodGet, "/sign/"+id.String(), true, nil, &out); err != nil {
		return domain.SignResult{}, err
	}
	return out, nil
}

func (c *Client) UpdateSign(ctx context.Context, id domain.SignID, patch domain.SignPatch) (domain.SignResult, error) {
	var out domain.SignResult
	if err := c.do(ctx, http.MethodPatch, "/sign/"+id.String(), true, patch, &out); err != nil {
		return domain.SignResult{}, err
	}
	return out, nil
}

func (c *Client) DeleteSign(ctx context.Context, id domain.SignID) (domain.Ack, error) {
	var out domain.Ack
	if err := c.do(ctx, http.MethodDelete, "/sign/"+id.String(), true, nil, &out); err != nil {
		return domain.Ack{}, err
	}
	return out, nil
}
