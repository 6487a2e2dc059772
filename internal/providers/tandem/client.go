package tandem

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/archtools/modelsync/internal/adapter"
)

const PROVIDER_NAME = "tandem"

// tokenExpiryLeeway refreshes tokens slightly before the platform expires
// them so in-flight requests never carry a stale credential
const tokenExpiryLeeway = 30 * time.Second

var ErrMissingCredentials = errors.New("client id and secret are required")

// Project represents a project as listed by the platform API
type Project struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// projectsResponse represents the response from the project listing endpoint
type projectsResponse struct {
	Results []Project `json:"results"`
}

// tokenResponse represents the response from the OAuth token endpoint
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// TokenSource yields a bearer credential for outbound platform calls.
// Lifetime and refresh are entirely this collaborator's concern.
type TokenSource interface {
	// Token returns a valid bearer token, refreshing it if needed
	Token(ctx context.Context) (string, error)
}

// Client defines the platform client operations to enable mocking
type Client interface {
	// ListProjects fetches the projects visible to the service account
	ListProjects(ctx context.Context) ([]Project, error)
}

// Config holds the platform client configuration
type Config struct {
	TokenURL     string
	APIURL       string
	ClientID     string
	ClientSecret string
	Scopes       string
}

// clientCredentialsTokenSource fetches two-legged tokens via the OAuth
// client-credentials grant and caches them until shortly before expiry
type clientCredentialsTokenSource struct {
	httpClient adapter.HTTPClient
	json       adapter.JSON
	clock      adapter.Clock
	cfg        Config

	mu     sync.Mutex
	cached string
	expiry time.Time
}

// NewTokenSource creates a client-credentials token source
func NewTokenSource(httpClient adapter.HTTPClient, jsonAdapter adapter.JSON, clock adapter.Clock, cfg Config) TokenSource {
	return &clientCredentialsTokenSource{
		httpClient: httpClient,
		json:       jsonAdapter,
		clock:      clock,
		cfg:        cfg,
	}
}

// Token returns the cached token or fetches a fresh one
func (s *clientCredentialsTokenSource) Token(ctx context.Context) (string, error) {
	if s.cfg.ClientID == "" || s.cfg.ClientSecret == "" {
		return "", ErrMissingCredentials
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != "" && s.clock.Now().Before(s.expiry) {
		return s.cached, nil
	}

	form := url.Values{}
	form.Set("client_id", s.cfg.ClientID)
	form.Set("client_secret", s.cfg.ClientSecret)
	form.Set("grant_type", "client_credentials")
	form.Set("scope", s.cfg.Scopes)

	respBody, err := s.httpClient.PostForm(ctx, s.cfg.TokenURL, form)
	if err != nil {
		return "", fmt.Errorf("failed to fetch platform token: %w", err)
	}

	var token tokenResponse
	if err := s.json.Unmarshal(respBody, &token); err != nil {
		return "", fmt.Errorf("failed to unmarshal token response: %w", err)
	}
	if token.AccessToken == "" {
		return "", errors.New("token endpoint returned an empty access token")
	}

	s.cached = token.AccessToken
	s.expiry = s.clock.Now().Add(time.Duration(token.ExpiresIn)*time.Second - tokenExpiryLeeway)

	return s.cached, nil
}

// TandemClient implements the platform client
type TandemClient struct {
	httpClient  adapter.HTTPClient
	tokenSource TokenSource
	apiURL      string
}

// NewClient creates a new platform client
func NewClient(httpClient adapter.HTTPClient, tokenSource TokenSource, apiURL string) Client {
	return &TandemClient{
		httpClient:  httpClient,
		tokenSource: tokenSource,
		apiURL:      apiURL,
	}
}

// ListProjects fetches the projects visible to the service account
func (c *TandemClient) ListProjects(ctx context.Context) ([]Project, error) {
	token, err := c.tokenSource.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire platform credential: %w", err)
	}

	headers := map[string]string{
		"Authorization": "Bearer " + token,
	}

	var response projectsResponse
	requestURL := fmt.Sprintf("%s/projects", c.apiURL)
	if err := c.httpClient.Get(ctx, requestURL, headers, &response); err != nil {
		return nil, fmt.Errorf("failed to list platform projects: %w", err)
	}

	return response.Results, nil
}
