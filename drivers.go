package main

import (
	"net/http"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// ParseDatabaseDriver creates the gorm dialector for a database string.
// A "mysql://" prefix selects the MySQL driver; anything else non-empty
// is treated as a SQLite file path.
func ParseDatabaseDriver(dbURL string) gorm.Dialector {
	if len(dbURL) == 0 {
		return nil
	}
	if strings.HasPrefix(dbURL, "mysql://") {
		return mysql.Open(strings.TrimPrefix(dbURL, "mysql://"))
	}
	return sqlite.Open(dbURL)
}

// checkOrigin creates an origin checker for the socket transports that
// allows the given origins. An empty list allows everything, which is
// only meant for local development.
func checkOrigin(allowedOrigins []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {

		// If there is no allowlist, allow everything
		if len(allowedOrigins) == 0 {
			return true
		}

		// Check the request origin against the allowlist
		origin := r.Header.Get("Origin")
		for _, allowed := range allowedOrigins {
			if strings.EqualFold(origin, allowed) {
				return true
			}
		}
		return false

	}
}
