package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/semanticsaas/talentctl/internal/errs"
	"github.com/semanticsaas/talentctl/internal/model"
)

// talentEnvelope is the {success,message,data} wrapper the service puts
// around talent write responses. Reads return bare records.
type talentEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// ListTalents fetches one page, sorted server-side.
func (c *Client) ListTalents(ctx context.Context, page, size int, sortBy, sortDir string) (*model.Page[model.Talent], error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("size", strconv.Itoa(size))
	if sortBy != "" {
		params.Set("sortBy", sortBy)
	}
	if sortDir != "" {
		params.Set("sortDir", sortDir)
	}
	var out model.Page[model.Talent]
	if err := c.do(ctx, http.MethodGet, "/talents", params, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchTalents fetches one page of keyword matches.
func (c *Client) SearchTalents(ctx context.Context, keyword string, page, size int) (*model.Page[model.Talent], error) {
	params := url.Values{}
	params.Set("keyword", keyword)
	params.Set("page", strconv.Itoa(page))
	params.Set("size", strconv.Itoa(size))
	var out model.Page[model.Talent]
	if err := c.do(ctx, http.MethodGet, "/talents/search", params, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CountTalents returns the total number of talent records.
func (c *Client) CountTalents(ctx context.Context) (int64, error) {
	var out struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Data    int64  `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/talents/count", nil, nil, &out); err != nil {
		return 0, err
	}
	return out.Data, nil
}

// GetTalent fetches one record by id.
func (c *Client) GetTalent(ctx context.Context, id int64) (*model.Talent, error) {
	var out model.Talent
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/talents/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateTalent submits a new record and returns the server's representation
// of it, unwrapped from the response envelope.
func (c *Client) CreateTalent(ctx context.Context, t model.Talent) (*model.Talent, error) {
	var env talentEnvelope
	if err := c.do(ctx, http.MethodPost, "/talents", nil, t, &env); err != nil {
		return nil, err
	}
	return unwrapTalent(env)
}

// UpdateTalent replaces the record and returns the server's representation.
func (c *Client) UpdateTalent(ctx context.Context, id int64, t model.Talent) (*model.Talent, error) {
	var env talentEnvelope
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/talents/%d", id), nil, t, &env); err != nil {
		return nil, err
	}
	return unwrapTalent(env)
}

// DeleteTalent removes the record.
func (c *Client) DeleteTalent(ctx context.Context, id int64) error {
	var env talentEnvelope
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/talents/%d", id), nil, nil, &env); err != nil {
		return err
	}
	if !env.Success {
		return &Error{Status: http.StatusOK, Message: env.Message, sentinel: errs.ErrValidation}
	}
	return nil
}

func unwrapTalent(env talentEnvelope) (*model.Talent, error) {
	if !env.Success {
		// The service can report a domain rejection inside a 200 envelope.
		return nil, &Error{Status: http.StatusOK, Message: env.Message, sentinel: errs.ErrValidation}
	}
	var t model.Talent
	if err := json.Unmarshal(env.Data, &t); err != nil {
		return nil, fmt.Errorf("decode talent envelope data: %w", err)
	}
	return &t, nil
}
