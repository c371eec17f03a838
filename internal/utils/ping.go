package utils

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/localnerve/ecommerce-api/internal/config"
)

// DefaultPorts for database types when DB_PORT is empty
var DefaultPorts = map[string]string{
	"mysql":      "3306",
	"mariadb":    "3306",
	"postgres":   "5432",
	"postgresql": "5432",
	"sqlserver":  "1433",
	"mssql":      "1433",
}

// PingService checks if a service is reachable at the given URL
func PingService(serviceURL string, timeout time.Duration) error {
	parsedURL, err := url.Parse(serviceURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	host := parsedURL.Hostname()
	port := parsedURL.Port()

	if port == "" {
		switch parsedURL.Scheme {
		case "https":
			port = "443"
		default:
			port = "80"
		}
	}

	return PingAddress(net.JoinHostPort(host, port), timeout)
}

// PingAddress opens and closes one TCP connection to address
func PingAddress(address string, timeout time.Duration) error {
	conn, err := net.DialTimeout("tcp", address, timeout)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", address, err)
	}
	defer conn.Close()

	return nil
}

// DatabaseAddress returns host:port of the configured database.
// File based databases have no address and return an error.
func DatabaseAddress(cfg *config.Config) (string, error) {
	port := cfg.DBPort
	if port == "" {
		port = DefaultPorts[cfg.DBType]
	}
	if port == "" || cfg.DBHost == "" {
		return "", fmt.Errorf("database type %s has no network address", cfg.DBType)
	}
	return net.JoinHostPort(cfg.DBHost, port), nil
}

// WaitForAddress pings address every interval until it answers or ctx is done
func WaitForAddress(ctx context.Context, address string, interval time.Duration) error {
	return waitFor(ctx, address, interval, func() error {
		return PingAddress(address, interval)
	})
}

// WaitForService pings the host of serviceURL every interval until it answers or ctx is done
func WaitForService(ctx context.Context, serviceURL string, interval time.Duration) error {
	return waitFor(ctx, serviceURL, interval, func() error {
		return PingService(serviceURL, interval)
	})
}

func waitFor(ctx context.Context, target string, interval time.Duration, ping func() error) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		err := ping()
		if err == nil {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("gave up waiting for %s: %w", target, err)
		case <-ticker.C:
		}
	}
}
