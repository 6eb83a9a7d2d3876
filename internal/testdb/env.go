package testdb

import "os"

// Environment variables consulted for the test database, in order.
const (
	EnvTestDBURL   = "CATALOG_TEST_DB_URL"
	EnvDatabaseURL = "DATABASE_URL"
)

var ciVars = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}

// DatabaseURL returns the first non-empty test database URL, or "".
func DatabaseURL() string {
	for _, name := range []string{EnvTestDBURL, EnvDatabaseURL} {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// IsCI reports whether tests run under a CI provider.
func IsCI() bool {
	for _, name := range ciVars {
		if os.Getenv(name) != "" {
			return true
		}
	}
	return false
}
