// Package matrix is a thin client for the Matrix client-server API, covering
// exactly the calls the gating engine and admin API need: listing joined
// members, kicking a member, and reading room power levels.
package matrix

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

// Client talks to one Matrix homeserver. Access tokens are supplied per
// call because every gated room is operated under its policy owner's token,
// not a single bot account. The underlying http.Client pools connections
// across calls.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient validates the homeserver URL and returns a client. If
// httpClient is nil, http.DefaultClient is used; callers that need per-call
// timeouts should pass a client with Timeout set.
func NewClient(homeserverURL string, httpClient *http.Client) (*Client, error) {
	if homeserverURL == "" {
		return nil, fmt.Errorf("matrix: homeserver URL is required")
	}
	if _, err := url.Parse(homeserverURL); err != nil {
		return nil, fmt.Errorf("matrix: invalid homeserver URL %q: %w", homeserverURL, err)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(homeserverURL, "/"),
		httpClient: httpClient,
	}, nil
}

// JoinedMembers returns the user IDs currently joined to the room, sorted
// for deterministic processing.
func (c *Client) JoinedMembers(ctx context.Context, roomID, accessToken string) ([]string, error) {
	path := fmt.Sprintf("/_matrix/client/v3/rooms/%s/joined_members", url.PathEscape(roomID))
	body, err := c.doRequest(ctx, http.MethodGet, path, accessToken, nil)
	if err != nil {
		return nil, fmt.Errorf("matrix: list joined members of %q: %w", roomID, err)
	}

	var response joinedMembersResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("matrix: parse joined members response: %w", err)
	}

	members := make([]string, 0, len(response.Joined))
	for userID := range response.Joined {
		members = append(members, userID)
	}
	sort.Strings(members)
	return members, nil
}

// KickUser removes a user from a room with a reason.
func (c *Client) KickUser(ctx context.Context, roomID, userID, accessToken, reason string) error {
	path := fmt.Sprintf("/_matrix/client/v3/rooms/%s/kick", url.PathEscape(roomID))
	_, err := c.doRequest(ctx, http.MethodPost, path, accessToken, kickRequest{
		UserID: userID,
		Reason: reason,
	})
	if err != nil {
		return fmt.Errorf("matrix: kick %q from %q: %w", userID, roomID, err)
	}
	return nil
}

// WhoAmI resolves the user ID that owns an access token.
func (c *Client) WhoAmI(ctx context.Context, accessToken string) (string, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/_matrix/client/v3/account/whoami", accessToken, nil)
	if err != nil {
		return "", fmt.Errorf("matrix: whoami: %w", err)
	}

	var response whoAmIResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("matrix: parse whoami response: %w", err)
	}
	return response.UserID, nil
}

// PowerLevels fetches the room's m.room.power_levels state event content.
func (c *Client) PowerLevels(ctx context.Context, roomID, accessToken string) (*PowerLevelsContent, error) {
	path := fmt.Sprintf("/_matrix/client/v3/rooms/%s/state/m.room.power_levels/", url.PathEscape(roomID))
	body, err := c.doRequest(ctx, http.MethodGet, path, accessToken, nil)
	if err != nil {
		return nil, fmt.Errorf("matrix: get power levels of %q: %w", roomID, err)
	}

	var content PowerLevelsContent
	if err := json.Unmarshal(body, &content); err != nil {
		return nil, fmt.Errorf("matrix: parse power levels response: %w", err)
	}
	return &content, nil
}

// doRequest performs a request against the homeserver and returns the
// response body. On 2xx, returns the body; on any other status it returns a
// *Error decoded from the standard Matrix error shape.
func (c *Client) doRequest(ctx context.Context, method, path, accessToken string, requestBody any) ([]byte, error) {
	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		request.Header.Set("Authorization", "Bearer "+accessToken)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return responseBody, nil
	}

	// All Matrix error responses share one JSON shape.
	var matrixErr Error
	if jsonErr := json.Unmarshal(responseBody, &matrixErr); jsonErr != nil {
		return nil, fmt.Errorf("unexpected %d response from %s %s: %s",
			response.StatusCode, method, path, string(responseBody))
	}
	matrixErr.StatusCode = response.StatusCode
	return nil, &matrixErr
}

// maxResponseBytes caps response reads; joined_members for very large rooms
// is the biggest payload this client handles.
const maxResponseBytes = 16 << 20
