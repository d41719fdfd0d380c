package instagram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"social-template-platform/internal/logger"
)

// ErrUnauthorized indicates the configured access token was rejected by the
// Instagram API.
var ErrUnauthorized = errors.New("instagram access token is invalid or expired")

const (
	defaultBaseURL = "https://graph.instagram.com"

	mediaFields   = "id,caption,media_type,media_url,thumbnail_url,permalink,timestamp,like_count,comments_count"
	accountFields = "id,username,account_type,media_count"
)

// User is the Instagram account profile, mapped to internal types at the
// adapter boundary.
type User struct {
	ID          string
	Username    string
	AccountType string
	MediaCount  int
}

// Media is one item from the account's media list. Timestamp is nil when the
// API omits it or returns an unparseable value.
type Media struct {
	ID            string
	Caption       string
	MediaURL      string
	ThumbnailURL  string
	Permalink     string
	MediaType     string
	LikeCount     int
	CommentsCount int
	Timestamp     *time.Time
}

type Client struct {
	accessToken string
	baseURL     string
	httpClient  *http.Client
}

func NewClient(accessToken, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		accessToken: accessToken,
		baseURL:     baseURL,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Wire shapes for the Graph API responses.
type apiUser struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	AccountType string `json:"account_type"`
	MediaCount  int    `json:"media_count"`
}

type apiMedia struct {
	ID            string `json:"id"`
	Caption       string `json:"caption"`
	MediaType     string `json:"media_type"`
	MediaURL      string `json:"media_url"`
	ThumbnailURL  string `json:"thumbnail_url"`
	Permalink     string `json:"permalink"`
	Timestamp     string `json:"timestamp"`
	LikeCount     int    `json:"like_count"`
	CommentsCount int    `json:"comments_count"`
}

type apiMediaList struct {
	Data []apiMedia `json:"data"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}

type apiTokenRefresh struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// GetAccountInfo fetches the authenticated user's profile.
func (c *Client) GetAccountInfo(ctx context.Context) (*User, error) {
	var user apiUser
	if err := c.get(ctx, "/me", url.Values{"fields": {accountFields}}, &user); err != nil {
		return nil, err
	}
	if user.ID == "" {
		return nil, fmt.Errorf("instagram account response missing id")
	}
	return &User{
		ID:          user.ID,
		Username:    user.Username,
		AccountType: user.AccountType,
		MediaCount:  user.MediaCount,
	}, nil
}

// GetRecentPosts fetches the most recent media page for the authenticated
// user, bounded by limit.
func (c *Client) GetRecentPosts(ctx context.Context, limit int) ([]Media, error) {
	params := url.Values{
		"fields": {mediaFields},
		"limit":  {fmt.Sprintf("%d", limit)},
	}
	var list apiMediaList
	if err := c.get(ctx, "/me/media", params, &list); err != nil {
		return nil, err
	}

	media := make([]Media, 0, len(list.Data))
	for _, item := range list.Data {
		if item.ID == "" {
			return nil, fmt.Errorf("instagram media response missing id")
		}
		media = append(media, Media{
			ID:            item.ID,
			Caption:       item.Caption,
			MediaURL:      item.MediaURL,
			ThumbnailURL:  item.ThumbnailURL,
			Permalink:     item.Permalink,
			MediaType:     item.MediaType,
			LikeCount:     item.LikeCount,
			CommentsCount: item.CommentsCount,
			Timestamp:     parseTimestamp(item.Timestamp),
		})
	}
	return media, nil
}

// ValidateToken reports whether the configured access token is usable. It
// performs a profile fetch; any auth failure reads as an unusable token.
func (c *Client) ValidateToken(ctx context.Context) bool {
	if c.accessToken == "" {
		return false
	}
	if _, err := c.GetAccountInfo(ctx); err != nil {
		logger.Warn("instagram token validation failed", "error", err)
		return false
	}
	return true
}

// RefreshAccessToken exchanges the current long-lived token for a fresh one
// and starts using it for subsequent calls.
func (c *Client) RefreshAccessToken(ctx context.Context) (string, error) {
	params := url.Values{"grant_type": {"ig_refresh_token"}}
	var refreshed apiTokenRefresh
	if err := c.get(ctx, "/refresh_access_token", params, &refreshed); err != nil {
		return "", err
	}
	if refreshed.AccessToken == "" {
		return "", fmt.Errorf("instagram token refresh returned no token")
	}
	c.accessToken = refreshed.AccessToken
	return refreshed.AccessToken, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if c.accessToken == "" {
		return ErrUnauthorized
	}
	params.Set("access_token", c.accessToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("instagram API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Message != "" {
			if resp.StatusCode == http.StatusUnauthorized || apiErr.Error.Type == "OAuthException" {
				return fmt.Errorf("%w: %s", ErrUnauthorized, apiErr.Error.Message)
			}
			return fmt.Errorf("instagram API error (%d): %s", resp.StatusCode, apiErr.Error.Message)
		}
		if resp.StatusCode == http.StatusUnauthorized {
			return ErrUnauthorized
		}
		return fmt.Errorf("instagram API returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode instagram response: %w", err)
	}
	return nil
}

// Instagram reports timestamps as ISO 8601 with a compact zone offset.
func parseTimestamp(value string) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range []string{"2006-01-02T15:04:05-0700", time.RFC3339} {
		if ts, err := time.Parse(layout, value); err == nil {
			return &ts
		}
	}
	logger.Warn("unparseable instagram media timestamp", "value", value)
	return nil
}
