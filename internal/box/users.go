package box

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// userResponse mirrors the Box API user JSON exactly.
type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Login string `json:"login"`
}

// CurrentUser returns the user the client is authenticated as.
// Useful as a cheap credentials check — GET /users/me is the canonical
// "is this token alive" probe.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	resp, err := c.Do(ctx, http.MethodGet, "/users/me", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var ur userResponse
	if err := json.NewDecoder(resp.Body).Decode(&ur); err != nil {
		return nil, fmt.Errorf("box: decoding user response: %w", err)
	}

	return &User{
		ID:    ur.ID,
		Name:  ur.Name,
		Login: ur.Login,
	}, nil
}
