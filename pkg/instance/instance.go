package instance

import (
	"os"

	"github.com/popmakeup/popmakeup-backend/pkg/env"
)

const EnvWorkerID = "POPMAKEUP_WORKER_ID"

// GetID names this process in lock values and worker logs. It prefers
// POPMAKEUP_WORKER_ID, then the hostname.
func GetID() string {
	if id := env.Get(EnvWorkerID, ""); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "worker-0"
}
