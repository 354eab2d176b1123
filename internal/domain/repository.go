// Package domain contains the core data structures and domain logic for the application.
package domain

// Repository holds the search result fields for a single trending repository.
// It is the core domain entity of this application; it lives only for the
// duration of one report and is never persisted.
type Repository struct {
	Owner      string   `json:"owner"`
	Name       string   `json:"name"`
	Stars      int      `json:"stars"`
	OpenIssues int      `json:"open_issues"`
	HTMLURL    string   `json:"html_url"`
	IssueURLs  []string `json:"issue_urls,omitempty"`
}

// FullName returns "owner/name", or just the name when the owner is unknown.
func (r *Repository) FullName() string {
	if r.Owner == "" {
		return r.Name
	}
	return r.Owner + "/" + r.Name
}

// RateLimits holds the current GitHub API quota status for the two
// rate-limit buckets this tool touches.
type RateLimits struct {
	SearchRemaining int
	SearchLimit     int
	CoreRemaining   int
	CoreLimit       int
}
