// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST client.
package gateway

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/aokabi/github-trending/internal/domain"
)

// searchDateLayout is the date format GitHub search qualifiers expect.
const searchDateLayout = "2006-01-02"

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	// FetchTrendingRepositories returns up to limit repositories created after
	// the given date, ordered by star count descending.
	FetchTrendingRepositories(ctx context.Context, createdAfter time.Time, limit int) ([]*domain.Repository, error)
	// FetchOpenIssueURLs returns the HTML URLs of a repository's open issues,
	// excluding pull requests.
	FetchOpenIssueURLs(ctx context.Context, owner, name string) ([]string, error)
	FetchRateLimits(ctx context.Context) (*domain.RateLimits, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient *github.Client
	logger     *log.Logger
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
// The token is optional: with an empty token the client runs unauthenticated
// against the public API.
func NewGitHubGateway(token string, logger *log.Logger) (Fetcher, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	httpClient := &http.Client{Transport: rateLimitWaiter}
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient.Transport = &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		}
	}
	return &GitHubGateway{
		restClient: github.NewClient(httpClient),
		logger:     logger,
	}, nil
}

// searchQuery builds the search qualifier selecting repositories created
// strictly after the cutoff date.
func searchQuery(createdAfter time.Time) string {
	return fmt.Sprintf("created:>%s", createdAfter.Format(searchDateLayout))
}

func (g *GitHubGateway) FetchTrendingRepositories(ctx context.Context, createdAfter time.Time, limit int) ([]*domain.Repository, error) {
	query := searchQuery(createdAfter)
	g.logger.Printf("Searching repositories with query %q...", query)

	// One page only; the API already returns results star-sorted.
	opts := &github.SearchOptions{
		Sort:        "stars",
		Order:       "desc",
		ListOptions: github.ListOptions{PerPage: limit},
	}
	result, _, err := g.restClient.Search.Repositories(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search repositories: %w", err)
	}

	repos := make([]*domain.Repository, 0, limit)
	for _, item := range result.Repositories {
		if len(repos) == limit {
			break
		}
		repos = append(repos, &domain.Repository{
			Owner:      item.GetOwner().GetLogin(),
			Name:       item.GetName(),
			Stars:      item.GetStargazersCount(),
			OpenIssues: item.GetOpenIssuesCount(),
			HTMLURL:    item.GetHTMLURL(),
		})
	}
	g.logger.Printf("Completed repository search, %d results.", len(repos))
	return repos, nil
}

func (g *GitHubGateway) FetchOpenIssueURLs(ctx context.Context, owner, name string) ([]string, error) {
	opts := &github.IssueListByRepoOptions{
		State:       "open",
		ListOptions: github.ListOptions{PerPage: 100},
	}
	var urls []string
	for {
		issues, resp, err := g.restClient.Issues.ListByRepo(ctx, owner, name, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list issues for %s/%s: %w", owner, name, err)
		}
		for _, issue := range issues {
			// The issues endpoint returns pull requests too; skip them.
			if issue.IsPullRequest() {
				continue
			}
			urls = append(urls, issue.GetHTMLURL())
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.Printf("  Fetching next page of issues for %s/%s...", owner, name)
	}
	return urls, nil
}

func (g *GitHubGateway) FetchRateLimits(ctx context.Context) (*domain.RateLimits, error) {
	limits, _, err := g.restClient.RateLimit.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rate limits: %w", err)
	}
	return &domain.RateLimits{
		SearchRemaining: limits.GetSearch().Remaining,
		SearchLimit:     limits.GetSearch().Limit,
		CoreRemaining:   limits.GetCore().Remaining,
		CoreLimit:       limits.GetCore().Limit,
	}, nil
}
