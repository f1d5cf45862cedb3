package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultBaseURL = "https://api.github.com"

	// PageSize is the largest page the repository listing accepts.
	PageSize = 100

	acceptJSON   = "application/vnd.github+json"
	acceptTopics = "application/vnd.github.mercy-preview+json"
)

// Client is a thin wrapper around the GitHub REST API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient returns a client for the API rooted at baseURL. An empty token
// makes unauthenticated requests.
func NewClient(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
		httpClient: http.DefaultClient,
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// StatusError is returned when the API answers with anything but 200.
type StatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GitHub API returned %d for %s: %s", e.StatusCode, e.URL, e.Body)
}

// Fallible is the result of a best-effort call. Value is always usable; when
// the call failed it holds the fallback and Err says why.
type Fallible[T any] struct {
	Value T
	Err   error
}

// Degraded reports whether Value is a fallback.
func (f Fallible[T]) Degraded() bool {
	return f.Err != nil
}

func ok[T any](v T) Fallible[T] {
	return Fallible[T]{Value: v}
}

func fallback[T any](v T, err error) Fallible[T] {
	return Fallible[T]{Value: v, Err: err}
}

// ListedRepo is one entry of the repository listing.
type ListedRepo struct {
	Name            string  `json:"name"`
	FullName        string  `json:"full_name"`
	HTMLURL         string  `json:"html_url"`
	Description     *string `json:"description"`
	StargazersCount int     `json:"stargazers_count"`
	Language        *string `json:"language"`
	Fork            bool    `json:"fork"`
	UpdatedAt       string  `json:"updated_at"`
}

// ListPage fetches one page (1-based) of the account's own repositories,
// most recently updated first. An empty slice means there are no more pages.
// Any failure is returned as an error; callers treat it as fatal.
func (c *Client) ListPage(ctx context.Context, account string, page int) ([]ListedRepo, error) {
	q := url.Values{}
	q.Set("per_page", strconv.Itoa(PageSize))
	q.Set("page", strconv.Itoa(page))
	q.Set("type", "owner")
	q.Set("sort", "updated")

	body, err := c.get(ctx, "/users/"+url.PathEscape(account)+"/repos", q, acceptJSON)
	if err != nil {
		return nil, err
	}

	var repos []ListedRepo
	if err := json.Unmarshal(body, &repos); err != nil {
		return nil, fmt.Errorf("parsing repository listing: %w", err)
	}
	return repos, nil
}

// Topics returns the repository's topic labels, or an empty list if they
// cannot be fetched.
func (c *Client) Topics(ctx context.Context, fullName string) Fallible[[]string] {
	body, err := c.get(ctx, repoPath(fullName)+"/topics", nil, acceptTopics)
	if err != nil {
		return fallback([]string{}, err)
	}

	var payload struct {
		Names []string `json:"names"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return fallback([]string{}, fmt.Errorf("parsing topics: %w", err))
	}
	if payload.Names == nil {
		payload.Names = []string{}
	}
	return ok(payload.Names)
}

// Readme returns the decoded README text, or "" if it is missing or cannot
// be decoded. Bytes that are not valid UTF-8 are dropped.
func (c *Client) Readme(ctx context.Context, fullName string) Fallible[string] {
	body, err := c.get(ctx, repoPath(fullName)+"/readme", nil, acceptJSON)
	if err != nil {
		return fallback("", err)
	}

	var payload struct {
		Content *string `json:"content"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return fallback("", fmt.Errorf("parsing readme: %w", err))
	}
	if payload.Content == nil {
		return fallback("", fmt.Errorf("readme has no content"))
	}

	// StdEncoding skips the line breaks GitHub inserts every 60 characters.
	raw, err := base64.StdEncoding.DecodeString(*payload.Content)
	if err != nil {
		return fallback("", fmt.Errorf("decoding readme: %w", err))
	}
	return ok(strings.ToValidUTF8(string(raw), ""))
}

// --- internal ---

// repoPath escapes each segment of an owner/name pair.
func repoPath(fullName string) string {
	owner, name, _ := strings.Cut(fullName, "/")
	return "/repos/" + url.PathEscape(owner) + "/" + url.PathEscape(name)
}

func (c *Client) get(ctx context.Context, path string, query url.Values, accept string) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", accept)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: u, Body: string(respBody)}
	}
	return respBody, nil
}
