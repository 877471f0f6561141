package db

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"sync"

	"github.com/go-sql-driver/mysql"
	"github.com/popmakeup/popmakeup-backend/pkg/config"
)

var registerTLSOnce sync.Map

// RegisterMySQLTLS registers the CA bundle at caPath under config.MySQLTLSConfigName.
// An empty path is a no-op.
func RegisterMySQLTLS(caPath string) error {
	if caPath == "" {
		return nil
	}
	if _, done := registerTLSOnce.Load(caPath); done {
		return nil
	}

	pem, err := os.ReadFile(caPath)
	if err != nil {
		return fmt.Errorf("reading mysql ssl ca: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return fmt.Errorf("mysql ssl ca %s contains no certificates", caPath)
	}

	if err := mysql.RegisterTLSConfig(config.MySQLTLSConfigName, &tls.Config{
		RootCAs:    pool,
		MinVersion: tls.VersionTLS12,
	}); err != nil {
		return fmt.Errorf("registering mysql tls config: %w", err)
	}
	registerTLSOnce.Store(caPath, struct{}{})
	return nil
}
