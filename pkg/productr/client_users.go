package productr

import (
	"context"
	"net/http"
	"net/url"
)

// ListUsers fetches all registered users. Requires an admin-role token.
func (c *SDKClient) ListUsers(ctx context.Context, token string) ([]User, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/users", token, nil)
	if err != nil {
		return nil, err
	}

	var users []User
	if err := decodeEnvelope(resp, &users); err != nil {
		return nil, err
	}

	return users, nil
}

// GetUser fetches a single user by ID.
func (c *SDKClient) GetUser(ctx context.Context, token, id string) (*User, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/users/"+url.PathEscape(id), token, nil)
	if err != nil {
		return nil, err
	}

	var user User
	if err := decodeEnvelope(resp, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

// UpdateUser updates a user's profile fields.
func (c *SDKClient) UpdateUser(ctx context.Context, token, id string, user User) (*User, error) {
	resp, err := c.doRequest(ctx, http.MethodPut, "/users/"+url.PathEscape(id), token, user)
	if err != nil {
		return nil, err
	}

	var updated User
	if err := decodeEnvelope(resp, &updated); err != nil {
		return nil, err
	}

	return &updated, nil
}

// DeleteUser removes a user account.
func (c *SDKClient) DeleteUser(ctx context.Context, token, id string) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, "/users/"+url.PathEscape(id), token, nil)
	if err != nil {
		return err
	}

	return decodeEnvelope(resp, nil)
}
