// Package env reads the few variables needed before pkg/config loads, such as
// LOG_FORMAT and POPMAKEUP_WORKER_ID.
package env

import (
	"os"
	"strings"
)

// Get returns the trimmed value of key, or fallback when it is unset or blank.
func Get(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}
