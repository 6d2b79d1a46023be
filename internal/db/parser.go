package db

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"overture/pkg/overture"
)

// ParseConnString parses a database connection descriptor in either
// PostgreSQL URI form or libpq keyword/value form.
//
// Supported forms:
//   - URI:           postgres://user:pass@db:5432/app?sslmode=disable
//   - keyword/value: host=db port=5432 dbname=app user=app password=pass
//
// The descriptor is externally supplied (DATABASE_URL); callers must only
// ever log the Redacted() rendering of the result.
func ParseConnString(raw string) (*overture.ConnectionConfig, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("connection string is empty")
	}

	if strings.HasPrefix(raw, "postgres://") || strings.HasPrefix(raw, "postgresql://") {
		return parseURI(raw)
	}
	// Keyword/value form is space separated. Semicolon-delimited strings
	// (ADO.NET style) are not a format this tool understands, and half
	// parsing one risks logging a credential as part of a host name.
	if strings.Contains(raw, "=") && !strings.Contains(raw, ";") {
		return parseKeywordValue(raw)
	}
	return nil, fmt.Errorf("unrecognized connection string format")
}

func defaults() *overture.ConnectionConfig {
	return &overture.ConnectionConfig{
		Host:     "localhost",
		Port:     5432,
		Database: "postgres",
		SSLMode:  "prefer",
		Params:   make(map[string]string),
	}
}

func parseURI(raw string) (*overture.ConnectionConfig, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid connection URI: %w", err)
	}

	cfg := defaults()
	if u.Hostname() != "" {
		cfg.Host = u.Hostname()
	}
	if u.Port() != "" {
		port, err := strconv.Atoi(u.Port())
		if err != nil {
			return nil, fmt.Errorf("invalid port: %w", err)
		}
		cfg.Port = port
	}
	if u.User != nil {
		cfg.Username = u.User.Username()
		if pass, ok := u.User.Password(); ok {
			cfg.Password = pass
		}
	}
	if len(u.Path) > 1 {
		cfg.Database = strings.TrimPrefix(u.Path, "/")
	}

	for key, values := range u.Query() {
		if len(values) == 0 {
			continue
		}
		applyParam(cfg, strings.ToLower(key), values[0])
	}
	return cfg, nil
}

func parseKeywordValue(raw string) (*overture.ConnectionConfig, error) {
	cfg := defaults()
	for _, field := range strings.Fields(raw) {
		kv := strings.SplitN(field, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("malformed keyword/value pair %q", field)
		}
		key := strings.ToLower(kv[0])
		value := strings.Trim(kv[1], "'")

		switch key {
		case "host":
			cfg.Host = value
		case "port":
			port, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("invalid port %q: %w", value, err)
			}
			cfg.Port = port
		case "dbname":
			cfg.Database = value
		case "user":
			cfg.Username = value
		case "password":
			cfg.Password = value
		default:
			applyParam(cfg, key, value)
		}
	}
	return cfg, nil
}

func applyParam(cfg *overture.ConnectionConfig, key, value string) {
	switch key {
	case "sslmode":
		cfg.SSLMode = value
	case "connect_timeout":
		if secs, err := strconv.Atoi(value); err == nil {
			cfg.ConnectTimeout = time.Duration(secs) * time.Second
		}
	default:
		cfg.Params[key] = value
	}
}

// BuildConnString renders a ConnectionConfig as a PostgreSQL URI for pgx.
func BuildConnString(cfg *overture.ConnectionConfig) string {
	u := &url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:   "/" + cfg.Database,
	}
	if cfg.Username != "" {
		if cfg.Password != "" {
			u.User = url.UserPassword(cfg.Username, cfg.Password)
		} else {
			u.User = url.User(cfg.Username)
		}
	}

	q := url.Values{}
	if cfg.SSLMode != "" {
		q.Set("sslmode", cfg.SSLMode)
	}
	if cfg.ConnectTimeout > 0 {
		q.Set("connect_timeout", strconv.Itoa(int(cfg.ConnectTimeout.Seconds())))
	}
	for key, value := range cfg.Params {
		q.Set(key, value)
	}
	u.RawQuery = q.Encode()
	return u.String()
}
