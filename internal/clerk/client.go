// Package clerk は外部IdP（Clerk互換API）のHTTPクライアントを提供する。
package clerk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.clerk.com"

// Config はClerkクライアントの設定。
type Config struct {
	SecretKey string
	Timeout   time.Duration

	// テスト用にオーバーライド可能なURL
	BaseURL string
}

// Profile はIdPから取得したユーザープロフィールを表す。
type Profile struct {
	ID             string
	FirstName      string
	LastName       string
	Username       string
	EmailAddresses []string
	ImageURL       string
}

// DisplayName はプロフィールから表示名を導出する。
// 姓名のいずれかがあれば結合し、なければユーザー名、それもなければ "User" を返す。
func (p *Profile) DisplayName() string {
	switch {
	case p.FirstName != "" && p.LastName != "":
		return p.FirstName + " " + p.LastName
	case p.FirstName != "":
		return p.FirstName
	case p.LastName != "":
		return p.LastName
	case p.Username != "":
		return p.Username
	default:
		return "User"
	}
}

// PrimaryEmail は最初のメールアドレスを返す。ない場合は空文字列。
func (p *Profile) PrimaryEmail() string {
	if len(p.EmailAddresses) == 0 {
		return ""
	}
	return p.EmailAddresses[0]
}

// Client はClerk互換APIのHTTPクライアント。
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient はClientを生成する。
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
	}
}

// verifyTokenResponse はトークン検証エンドポイントのレスポンス。
type verifyTokenResponse struct {
	UserID string `json:"user_id"`
}

// VerifyToken はセッショントークンを検証し、IdP側のユーザーIDを返す。
// トークンが無効な場合はエラーを返す。
func (c *Client) VerifyToken(ctx context.Context, token string) (string, error) {
	payload, err := json.Marshal(map[string]string{"token": token})
	if err != nil {
		return "", fmt.Errorf("failed to marshal verify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.config.BaseURL+"/v1/tokens/verify", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create verify request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.SecretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("verify request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read verify response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token verification failed with status %d: %s", resp.StatusCode, string(body))
	}

	var verifyResp verifyTokenResponse
	if err := json.Unmarshal(body, &verifyResp); err != nil {
		return "", fmt.Errorf("failed to parse verify response: %w", err)
	}

	if verifyResp.UserID == "" {
		return "", fmt.Errorf("empty user_id in verify response")
	}

	return verifyResp.UserID, nil
}

// userResponse はユーザー情報エンドポイントのレスポンス。
type userResponse struct {
	ID             string `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Username       string `json:"username"`
	ImageURL       string `json:"image_url"`
	EmailAddresses []struct {
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
}

// GetProfile はIdP側のユーザーIDでプロフィールを取得する。
func (c *Client) GetProfile(ctx context.Context, externalID string) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.config.BaseURL+"/v1/users/"+externalID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.SecretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("profile request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("profile fetch failed with status %d: %s", resp.StatusCode, string(body))
	}

	var userResp userResponse
	if err := json.Unmarshal(body, &userResp); err != nil {
		return nil, fmt.Errorf("failed to parse profile response: %w", err)
	}

	if userResp.ID == "" {
		return nil, fmt.Errorf("empty id in profile response")
	}

	profile := &Profile{
		ID:        userResp.ID,
		FirstName: userResp.FirstName,
		LastName:  userResp.LastName,
		Username:  userResp.Username,
		ImageURL:  userResp.ImageURL,
	}
	for _, addr := range userResp.EmailAddresses {
		profile.EmailAddresses = append(profile.EmailAddresses, addr.EmailAddress)
	}

	return profile, nil
}
