package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"videocall-service/internal/config"
)

// Group is the group service's view of a group: display name plus the
// authoritative membership list.
type Group struct {
	Name    string   `json:"name"`
	Members []Member `json:"members"`
}

type Member struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// HasMember reports whether userID appears in the membership list.
func (g Group) HasMember(userID string) bool {
	for _, m := range g.Members {
		if m.ID == userID {
			return true
		}
	}
	return false
}

// GroupClient fetches group details and membership from the group service.
// The caller's bearer token is forwarded so the group service applies its own
// authorization to the lookup.
type GroupClient struct {
	baseURL string
	client  *http.Client
}

func NewGroupClient(cfg config.UpstreamConfig) *GroupClient {
	return &GroupClient{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *GroupClient) FetchGroup(ctx context.Context, groupID, bearer string) (Group, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/groups/"+groupID, nil)
	if err != nil {
		return Group{}, err
	}
	req.Header.Set("Authorization", "Bearer "+bearer)

	resp, err := c.client.Do(req)
	if err != nil {
		return Group{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Group{}, statusToErr("group lookup", resp.StatusCode)
	}

	var g Group
	if err := json.NewDecoder(resp.Body).Decode(&g); err != nil {
		return Group{}, fmt.Errorf("upstream: malformed group response: %w", err)
	}
	return g, nil
}
