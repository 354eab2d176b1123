// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/aokabi/github-trending/internal/gateway"
	"github.com/aokabi/github-trending/internal/usecase"
)

// secretsFileName is an optional dotenv file that may carry GITHUB_TOKEN.
const secretsFileName = ".secrets"

var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "Prints the top 20 repositories created within the last week",
	Long: `Fetches repositories created within the last seven days from the GitHub
search API, sorted by star count descending, and prints one line per
repository with its star count, open-issue count, and URL.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		// Get the verbose flag from the root command to set up the logger.
		verbose, _ := cmd.InheritedFlags().GetBool("verbose")
		logger := log.New(io.Discard, "", log.LstdFlags) // Default: discard all logs.
		if verbose {
			logger.SetOutput(os.Stderr) // If verbose, log to standard error.
		}

		withIssues, _ := cmd.Flags().GetBool("issues")
		jsonOutput, _ := cmd.Flags().GetBool("json")

		// A token is optional; the public search API works unauthenticated.
		// The .secrets file is loaded first if present so a token can live
		// outside the shell environment.
		if err := godotenv.Load(secretsFileName); err == nil {
			logger.Printf("Loaded secrets from %s", secretsFileName)
		}
		token := os.Getenv("GITHUB_TOKEN")

		// Inject dependencies and run the main business logic.
		githubGateway, err := gateway.NewGitHubGateway(token, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create GitHub gateway: %v\n", err)
			os.Exit(1)
		}

		if verbose {
			if limits, err := githubGateway.FetchRateLimits(ctx); err != nil {
				logger.Printf("Could not read rate limits: %v", err)
			} else {
				logger.Printf("Rate limits: search %d/%d, core %d/%d",
					limits.SearchRemaining, limits.SearchLimit, limits.CoreRemaining, limits.CoreLimit)
			}
		}

		reporter := usecase.NewReporter(githubGateway, logger)
		repos, err := reporter.BuildReport(ctx, time.Now(), withIssues)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to fetch trending repositories: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			// Marshal the results into a pretty-printed JSON string.
			jsonData, err := json.MarshalIndent(repos, "", "  ")
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to marshal results to JSON: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(jsonData))
			return
		}

		if err := usecase.WriteReport(os.Stdout, repos); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write report: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(trendingCmd)
	trendingCmd.Flags().Bool("issues", false, "Also list each repository's open-issue URLs (pull requests excluded)")
	trendingCmd.Flags().Bool("json", false, "Output the report as JSON instead of text")
}
