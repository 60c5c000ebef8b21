package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v66/github"
	"github.com/mikey/portfolio-backend/internal/config"
	"github.com/mikey/portfolio-backend/internal/core"
	"go.uber.org/zap"
)

// maxRepoPages bounds the repository listing to 1000 repositories
const maxRepoPages = 10

// ProfileClient reads a user's public profile and repositories from the GitHub REST API
type ProfileClient struct {
	client   *github.Client
	username string
	logger   *zap.Logger
}

var _ core.ProfileSource = (*ProfileClient)(nil)

// NewProfileClient creates a profile client for username
func NewProfileClient(client *github.Client, username string, logger *zap.Logger) *ProfileClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileClient{
		client:   client,
		username: username,
		logger:   logger,
	}
}

// NewFromConfig builds the go-github client from the profile configuration.
// An empty token uses unauthenticated requests; BaseURL points at an
// enterprise or test API root.
func NewFromConfig(cfg config.GitHubConfig, logger *zap.Logger) (*ProfileClient, error) {
	if cfg.Username == "" {
		return nil, errors.New("github.username is required")
	}

	client := github.NewClient(&http.Client{Timeout: cfg.Timeout})
	if cfg.Token != "" {
		client = client.WithAuthToken(cfg.Token)
	}
	if cfg.BaseURL != "" {
		base, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid github.base_url: %w", err)
		}
		client.BaseURL = base
	}

	return NewProfileClient(client, cfg.Username, logger), nil
}

// FetchProfile returns the user summary and every owned public repository
func (c *ProfileClient) FetchProfile(ctx context.Context) (*core.ProfileSnapshot, error) {
	user, _, err := c.client.Users.Get(ctx, c.username)
	if err != nil {
		return nil, fmt.Errorf("failed to get github user: %w", err)
	}

	snapshot := &core.ProfileSnapshot{
		Username:    user.GetLogin(),
		PublicRepos: user.GetPublicRepos(),
		Followers:   user.GetFollowers(),
	}

	opts := &github.RepositoryListByUserOptions{
		Type:        "owner",
		Sort:        "updated",
		ListOptions: github.ListOptions{PerPage: 100},
	}
	for page := 0; page < maxRepoPages; page++ {
		repos, resp, err := c.client.Repositories.ListByUser(ctx, c.username, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list github repositories: %w", err)
		}
		for _, repo := range repos {
			snapshot.Repos = append(snapshot.Repos, toSummary(repo))
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	c.logger.Debug("Fetched github profile",
		zap.String("username", snapshot.Username),
		zap.Int("repos", len(snapshot.Repos)))
	return snapshot, nil
}

func toSummary(repo *github.Repository) core.RepoSummary {
	updated := repo.GetPushedAt().Time
	if u := repo.GetUpdatedAt().Time; u.After(updated) {
		updated = u
	}
	return core.RepoSummary{
		Name:        repo.GetName(),
		URL:         repo.GetHTMLURL(),
		Description: repo.GetDescription(),
		Language:    repo.GetLanguage(),
		Stars:       repo.GetStargazersCount(),
		Forks:       repo.GetForksCount(),
		Fork:        repo.GetFork(),
		UpdatedAt:   updated.UTC().Truncate(time.Second),
	}
}
