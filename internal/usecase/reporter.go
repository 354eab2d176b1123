// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"github.com/aokabi/github-trending/internal/domain"
	"github.com/aokabi/github-trending/internal/gateway"
)

const (
	// repositoriesCreationPeriod is how many days back the "recently created"
	// window reaches.
	repositoriesCreationPeriod = 7
	// topRepositoriesCount is how many repositories the report contains.
	topRepositoriesCount = 20
	// issueFetchConcurrency bounds the per-repository issue fan-out so an
	// unauthenticated run stays within the core quota.
	issueFetchConcurrency = 4
)

// Reporter is the use case for building the trending-repositories report.
// It orchestrates the fetching and combining of data.
type Reporter struct {
	fetcher gateway.Fetcher
	logger  *log.Logger
}

// NewReporter creates a new Reporter instance.
func NewReporter(fetcher gateway.Fetcher, logger *log.Logger) *Reporter {
	return &Reporter{
		fetcher: fetcher,
		logger:  logger,
	}
}

// BuildReport performs the main business logic.
// It fetches the top repositories created within the last week and, when
// withIssues is set, resolves each repository's open-issue URLs concurrently.
// The returned slice keeps the API's star-descending order.
func (r *Reporter) BuildReport(ctx context.Context, now time.Time, withIssues bool) ([]*domain.Repository, error) {
	r.logger.Println("Usecase: Starting report build...")

	cutoff := now.AddDate(0, 0, -repositoriesCreationPeriod)
	repos, err := r.fetcher.FetchTrendingRepositories(ctx, cutoff, topRepositoriesCount)
	if err != nil {
		return nil, err
	}
	if len(repos) > topRepositoriesCount {
		repos = repos[:topRepositoriesCount]
	}

	if withIssues {
		eg, egCtx := errgroup.WithContext(ctx)
		eg.SetLimit(issueFetchConcurrency)
		for _, repo := range repos {
			repo := repo
			eg.Go(func() error {
				urls, err := r.fetcher.FetchOpenIssueURLs(egCtx, repo.Owner, repo.Name)
				if err != nil {
					return err
				}
				repo.IssueURLs = urls
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, err
		}
	}

	r.logMedianStars(repos)
	r.logger.Println("Usecase: Report build complete.")
	return repos, nil
}

func (r *Reporter) logMedianStars(repos []*domain.Repository) {
	if len(repos) == 0 {
		return
	}
	starCounts := make([]float64, len(repos))
	for i, repo := range repos {
		starCounts[i] = float64(repo.Stars)
	}
	median, err := stats.Median(starCounts)
	if err != nil {
		return
	}
	r.logger.Printf("Median star count across %d repositories: %.0f", len(repos), median)
}

// WriteReport renders one line per repository, in slice order, followed by
// the open-issue URLs when they were fetched.
func WriteReport(w io.Writer, repos []*domain.Repository) error {
	for _, repo := range repos {
		if _, err := fmt.Fprintf(w, "%s  stars:%d  open_issues:%d  %s\n",
			repo.FullName(), repo.Stars, repo.OpenIssues, repo.HTMLURL); err != nil {
			return err
		}
		for _, url := range repo.IssueURLs {
			if _, err := fmt.Fprintf(w, "    issue: %s\n", url); err != nil {
				return err
			}
		}
	}
	return nil
}
