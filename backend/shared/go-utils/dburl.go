package utils

import (
	"fmt"
	"net/url"
	"strings"
)

// WithIsolatedRole swaps the user in a postgres URL for a per-run role so
// parallel test runs do not share a schema.
func WithIsolatedRole(baseURL, runnerID, runNumber string) (string, error) {
	if runnerID == "" || runNumber == "" {
		return "", fmt.Errorf("runnerID and runNumber must be non-empty")
	}

	role := strings.ToLower(runnerID + "-" + runNumber)

	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid DB URL: %w", err)
	}

	// Preserve the existing password (if any) but swap the user.
	password, _ := u.User.Password()
	u.User = url.UserPassword(role, password)

	return u.String(), nil
}

// WithStatementTimeout appends a server-side statement_timeout (ms) to the
// connection options so a stuck query is aborted by postgres as well.
func WithStatementTimeout(baseURL string, ms int64) (string, error) {
	if ms <= 0 {
		return baseURL, nil
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid DB URL: %w", err)
	}
	q := u.Query()
	q.Set("statement_timeout", fmt.Sprintf("%d", ms))
	u.RawQuery = q.Encode()
	return u.String(), nil
}
