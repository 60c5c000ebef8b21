package github

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mikey/portfolio-backend/internal/config"
	"github.com/mikey/portfolio-backend/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func githubAPI(t *testing.T, token string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	var srv *httptest.Server

	mux.HandleFunc("/users/octo", func(w http.ResponseWriter, r *http.Request) {
		if token != "" {
			assert.Equal(t, "Bearer "+token, r.Header.Get("Authorization"))
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"login":"octo","public_repos":3,"followers":42}`)
	})
	mux.HandleFunc("/users/octo/repos", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "owner", r.URL.Query().Get("type"))
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))

		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("page") == "2" {
			fmt.Fprint(w, `[{"name":"fork","html_url":"https://github.com/octo/fork","fork":true,"stargazers_count":100,"updated_at":"2024-05-01T00:00:00Z"}]`)
			return
		}
		w.Header().Set("Link", fmt.Sprintf(`<%s/users/octo/repos?page=2&per_page=100&type=owner>; rel="next"`, srv.URL))
		fmt.Fprint(w, `[
			{"name":"api","html_url":"https://github.com/octo/api","description":"REST API","language":"Go","stargazers_count":7,"forks_count":2,"updated_at":"2024-05-30T10:00:00Z","pushed_at":"2024-05-31T08:00:00Z"},
			{"name":"site","html_url":"https://github.com/octo/site","language":"JavaScript","stargazers_count":1,"updated_at":"2024-01-10T00:00:00Z"}
		]`)
	})

	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchProfile(t *testing.T) {
	srv := githubAPI(t, "ghp_test")

	c, err := NewFromConfig(config.GitHubConfig{
		Username: "octo",
		Token:    "ghp_test",
		BaseURL:  srv.URL,
		Timeout:  5 * time.Second,
	}, nil)
	require.NoError(t, err)

	snap, err := c.FetchProfile(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "octo", snap.Username)
	assert.Equal(t, 3, snap.PublicRepos)
	assert.Equal(t, 42, snap.Followers)
	require.Len(t, snap.Repos, 3)

	api := snap.Repos[0]
	assert.Equal(t, core.RepoSummary{
		Name:        "api",
		URL:         "https://github.com/octo/api",
		Description: "REST API",
		Language:    "Go",
		Stars:       7,
		Forks:       2,
		UpdatedAt:   time.Date(2024, 5, 31, 8, 0, 0, 0, time.UTC),
	}, api)
	assert.True(t, snap.Repos[2].Fork)
}

func TestFetchProfile_Aggregated(t *testing.T) {
	srv := githubAPI(t, "")

	c, err := NewFromConfig(config.GitHubConfig{Username: "octo", BaseURL: srv.URL + "/"}, nil)
	require.NoError(t, err)

	svc := core.NewProfileService(c, core.ProfileOptions{CacheTTL: time.Minute}, nil)
	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 8, stats.TotalStars)
	assert.Equal(t, 2, stats.TotalForks)
	require.Len(t, stats.Languages, 2)
	assert.Equal(t, 50.0, stats.Languages[0].Percentage)
}

func TestFetchProfile_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"Not Found"}`)
	}))
	t.Cleanup(srv.Close)

	c, err := NewFromConfig(config.GitHubConfig{Username: "octo", BaseURL: srv.URL}, nil)
	require.NoError(t, err)

	_, err = c.FetchProfile(context.Background())
	assert.ErrorContains(t, err, "failed to get github user")
}

func TestNewFromConfig_RequiresUsername(t *testing.T) {
	_, err := NewFromConfig(config.GitHubConfig{}, nil)
	assert.Error(t, err)
}
