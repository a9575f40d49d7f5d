package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/semanticsaas/talentctl/internal/model"
)

// ListUsers fetches every user visible to the caller. Unpaginated.
func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	var out []model.User
	if err := c.do(ctx, http.MethodGet, "/users", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListUsersByCustomer fetches the users scoped to one customer.
func (c *Client) ListUsersByCustomer(ctx context.Context, customerID int64) ([]model.User, error) {
	var out []model.User
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/users/customer/%d", customerID), nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetUser fetches one user by id.
func (c *Client) GetUser(ctx context.Context, id int64) (*model.User, error) {
	var out model.User
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/users/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateUser submits a new account and returns the server's record.
func (c *Client) CreateUser(ctx context.Context, u model.User) (*model.User, error) {
	var out model.User
	if err := c.do(ctx, http.MethodPost, "/users", nil, u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateUser replaces the account and returns the server's record.
func (c *Client) UpdateUser(ctx context.Context, id int64, u model.User) (*model.User, error) {
	var out model.User
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/users/%d", id), nil, u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteUser removes the account.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, nil, nil)
}
