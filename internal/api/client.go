package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"snooze/internal/config"
)

// maxErrorBody bounds how much of an error response body is read for the
// error message.
const maxErrorBody = 4 << 10

// Client wraps the Hack or Snooze REST service. Every method performs exactly
// one request/response round trip; no retries, no background work.
type Client struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL:   strings.TrimRight(cfg.API.BaseURL, "/"),
		userAgent: cfg.API.UserAgent,
		client: &http.Client{
			Timeout: cfg.API.Timeout,
		},
	}
}

// Stories fetches the global feed. No auth required; server order preserved.
func (c *Client) Stories(ctx context.Context) ([]StoryRecord, error) {
	var out storiesResponse
	if err := c.do(ctx, http.MethodGet, "/stories", nil, nil, &out); err != nil {
		return nil, err
	}
	for i := range out.Stories {
		if err := validateStory(&out.Stories[i]); err != nil {
			return nil, err
		}
	}
	return out.Stories, nil
}

// CreateStory submits a new story. The server assigns storyId and createdAt.
func (c *Client) CreateStory(ctx context.Context, token string, draft StoryDraft) (StoryRecord, error) {
	body := createStoryRequest{Token: token, Story: draft}
	var out storyResponse
	if err := c.do(ctx, http.MethodPost, "/stories", nil, body, &out); err != nil {
		return StoryRecord{}, err
	}
	if err := validateStory(&out.Story); err != nil {
		return StoryRecord{}, err
	}
	return out.Story, nil
}

// DeleteStory removes a story by id. The deleted record is returned once more
// by the server before it is gone.
func (c *Client) DeleteStory(ctx context.Context, token, storyID string) (StoryRecord, error) {
	body := tokenRequest{Token: token}
	var out storyResponse
	if err := c.do(ctx, http.MethodDelete, "/stories/"+url.PathEscape(storyID), nil, body, &out); err != nil {
		return StoryRecord{}, err
	}
	if err := validateStory(&out.Story); err != nil {
		return StoryRecord{}, err
	}
	return out.Story, nil
}

// Signup registers a new account and returns the profile plus session token.
func (c *Client) Signup(ctx context.Context, username, password, name string) (UserRecord, string, error) {
	body := credentialsRequest{User: credentialsPayload{Username: username, Password: password, Name: name}}
	var out authResponse
	if err := c.do(ctx, http.MethodPost, "/signup", nil, body, &out); err != nil {
		return UserRecord{}, "", err
	}
	out.User.normalize()
	if err := validateUser(&out.User); err != nil {
		return UserRecord{}, "", err
	}
	return out.User, out.Token, nil
}

// Login authenticates an existing account.
func (c *Client) Login(ctx context.Context, username, password string) (UserRecord, string, error) {
	body := credentialsRequest{User: credentialsPayload{Username: username, Password: password}}
	var out authResponse
	if err := c.do(ctx, http.MethodPost, "/login", nil, body, &out); err != nil {
		return UserRecord{}, "", err
	}
	out.User.normalize()
	if err := validateUser(&out.User); err != nil {
		return UserRecord{}, "", err
	}
	return out.User, out.Token, nil
}

// UserProfile re-fetches a profile with a previously issued token. The token
// travels as a query parameter on this endpoint, not in a body.
func (c *Client) UserProfile(ctx context.Context, token, username string) (UserRecord, error) {
	q := url.Values{"token": {token}}
	var out userResponse
	if err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(username), q, nil, &out); err != nil {
		return UserRecord{}, err
	}
	out.User.normalize()
	if err := validateUser(&out.User); err != nil {
		return UserRecord{}, err
	}
	return out.User, nil
}

// AddFavorite marks a story as a favorite of username. The response body is
// ignored beyond the status code.
func (c *Client) AddFavorite(ctx context.Context, token, username, storyID string) error {
	return c.do(ctx, http.MethodPost, favoritePath(username, storyID), nil, tokenRequest{Token: token}, nil)
}

// RemoveFavorite unmarks a favorite. Removing a story that is not favorited
// is the server's call to reject or ignore.
func (c *Client) RemoveFavorite(ctx context.Context, token, username, storyID string) error {
	return c.do(ctx, http.MethodDelete, favoritePath(username, storyID), nil, tokenRequest{Token: token}, nil)
}

func favoritePath(username, storyID string) string {
	return "/users/" + url.PathEscape(username) + "/favorites/" + url.PathEscape(storyID)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return classifyStatus(resp.StatusCode, errorMessage(resp))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ServiceError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("decoding response: %v", err)}
	}
	return nil
}

// errorMessage pulls a human-readable message out of the service's error
// envelope, falling back to the raw body.
func errorMessage(resp *http.Response) string {
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return ""
	}
	var envelope errorResponse
	if json.Unmarshal(data, &envelope) == nil && envelope.Error.Message != "" {
		return envelope.Error.Message
	}
	return strings.TrimSpace(string(data))
}

func validateStory(rec *StoryRecord) error {
	if rec.StoryID == "" {
		return &ValidationError{Message: "story record missing storyId"}
	}
	if rec.URL == "" {
		return &ValidationError{Message: "story record missing url"}
	}
	return nil
}

func validateUser(rec *UserRecord) error {
	if rec.Username == "" {
		return &ValidationError{Message: "user record missing username"}
	}
	for i := range rec.Favorites {
		if err := validateStory(&rec.Favorites[i]); err != nil {
			return err
		}
	}
	for i := range rec.OwnStories {
		if err := validateStory(&rec.OwnStories[i]); err != nil {
			return err
		}
	}
	return nil
}
