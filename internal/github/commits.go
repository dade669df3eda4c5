// Package github lists repository commits through the GitHub REST API.
package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"

	apperrors "github.com/coltonsr77/uzi-doorman-bot/internal/errors"
	"github.com/coltonsr77/uzi-doorman-bot/internal/models"
)

// CommitLister returns the newest commits of a repository, newest first
type CommitLister interface {
	ListCommits(ctx context.Context, repo string) ([]models.CommitRecord, error)
}

// Client implements CommitLister with go-github
type Client struct {
	client  *gh.Client
	perPage int
}

// NewClient creates a client. An empty token makes unauthenticated requests,
// which GitHub rate limits to 60 per hour.
func NewClient(ctx context.Context, token string, perPage int) *Client {
	var httpClient *http.Client
	if token != "" {
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	}
	if perPage <= 0 {
		perPage = 5
	}

	return &Client{
		client:  gh.NewClient(httpClient),
		perPage: perPage,
	}
}

// WithBaseURL points the client at another API root, e.g. GitHub Enterprise
func (c *Client) WithBaseURL(rawURL string) (*Client, error) {
	if !strings.HasSuffix(rawURL, "/") {
		rawURL += "/"
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid GitHub API URL %q: %w", rawURL, err)
	}
	c.client.BaseURL = u
	return c, nil
}

// ListCommits fetches the newest commits of repo ("owner/name")
func (c *Client) ListCommits(ctx context.Context, repo string) ([]models.CommitRecord, error) {
	owner, name, err := SplitRepo(repo)
	if err != nil {
		return nil, apperrors.CommitFetchFailed(err)
	}

	commits, _, err := c.client.Repositories.ListCommits(ctx, owner, name, &gh.CommitsListOptions{
		ListOptions: gh.ListOptions{PerPage: c.perPage},
	})
	if err != nil {
		return nil, apperrors.CommitFetchFailed(fmt.Errorf("list commits %s: %w", repo, err))
	}

	records := make([]models.CommitRecord, 0, len(commits))
	for _, rc := range commits {
		records = append(records, toRecord(rc))
	}
	return records, nil
}

func toRecord(rc *gh.RepositoryCommit) models.CommitRecord {
	commit := rc.GetCommit()
	author := commit.GetAuthor().GetName()
	if author == "" {
		author = rc.GetAuthor().GetLogin()
	}
	return models.CommitRecord{
		Message:    commit.GetMessage(),
		AuthorName: author,
	}
}

// SplitRepo splits "owner/name" into its parts
func SplitRepo(repo string) (string, string, error) {
	owner, name, ok := strings.Cut(strings.TrimSpace(repo), "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", fmt.Errorf("repository must be owner/name, got %q", repo)
	}
	return owner, name, nil
}
