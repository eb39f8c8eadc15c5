package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"videocall-service/internal/config"
)

// ErrIdentityUnavailable means the identity service could not be reached.
// Distinct from ErrInvalidToken so callers can answer 5xx instead of 401.
var ErrIdentityUnavailable = errors.New("auth: identity service unavailable")

// RemoteVerifier delegates credential verification to the identity service:
// the bearer token is forwarded as-is and the returned profile becomes the
// caller identity. Used when AUTH_MODE=remote.
type RemoteVerifier struct {
	baseURL string
	client  *http.Client
}

func NewRemoteVerifier(cfg config.UpstreamConfig) *RemoteVerifier {
	return &RemoteVerifier{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

type profileResponse struct {
	Data struct {
		ID    string `json:"_id"`
		Name  string `json:"name"`
		Email string `json:"email"`
		Role  string `json:"role"`
	} `json:"data"`
}

func (v *RemoteVerifier) Verify(ctx context.Context, token string) (Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/api/users/profile", nil)
	if err != nil {
		return Identity{}, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := v.client.Do(req)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrIdentityUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Identity{}, fmt.Errorf("%w: profile lookup returned %d", ErrInvalidToken, resp.StatusCode)
	}

	var body profileResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Identity{}, fmt.Errorf("%w: malformed profile response", ErrInvalidToken)
	}
	if body.Data.ID == "" {
		return Identity{}, fmt.Errorf("%w: profile missing user id", ErrInvalidToken)
	}

	return Identity{
		ID:    body.Data.ID,
		Role:  body.Data.Role,
		Email: body.Data.Email,
		Name:  body.Data.Name,
	}, nil
}
