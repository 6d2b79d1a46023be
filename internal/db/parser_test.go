package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConnString_URI(t *testing.T) {
	cfg, err := ParseConnString("postgres://app:s3cret@db:5433/appdb?sslmode=disable&connect_timeout=10")
	require.NoError(t, err)

	assert.Equal(t, "db", cfg.Host)
	assert.Equal(t, 5433, cfg.Port)
	assert.Equal(t, "appdb", cfg.Database)
	assert.Equal(t, "app", cfg.Username)
	assert.Equal(t, "s3cret", cfg.Password)
	assert.Equal(t, "disable", cfg.SSLMode)
	assert.Equal(t, 10*time.Second, cfg.ConnectTimeout)
}

func TestParseConnString_URIDefaults(t *testing.T) {
	cfg, err := ParseConnString("postgresql://db")
	require.NoError(t, err)

	assert.Equal(t, "db", cfg.Host)
	assert.Equal(t, 5432, cfg.Port)
	assert.Equal(t, "postgres", cfg.Database)
	assert.Equal(t, "prefer", cfg.SSLMode)
	assert.Empty(t, cfg.Username)
}

func TestParseConnString_KeywordValue(t *testing.T) {
	cfg, err := ParseConnString("host=db port=5432 dbname=appdb user=app password=s3cret sslmode=require")
	require.NoError(t, err)

	assert.Equal(t, "db", cfg.Host)
	assert.Equal(t, "appdb", cfg.Database)
	assert.Equal(t, "app", cfg.Username)
	assert.Equal(t, "s3cret", cfg.Password)
	assert.Equal(t, "require", cfg.SSLMode)
}

func TestParseConnString_UnknownParamsPreserved(t *testing.T) {
	cfg, err := ParseConnString("postgres://db/app?application_name=web&search_path=public")
	require.NoError(t, err)

	assert.Equal(t, "web", cfg.Params["application_name"])
	assert.Equal(t, "public", cfg.Params["search_path"])
}

func TestParseConnString_Invalid(t *testing.T) {
	cases := map[string]string{
		"empty":        "",
		"gibberish":    "not a descriptor",
		"bad uri port": "postgres://db:notaport/app",
		"bad kv port":  "host=db port=xyz",
		"malformed kv": "host=db standalone",
		"ado.net":      "Host=db;Password=s3cret",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseConnString(raw)
			assert.Error(t, err)
		})
	}
}

func TestBuildConnString_RoundTrip(t *testing.T) {
	cfg, err := ParseConnString("postgres://app:s3cret@db:5433/appdb?sslmode=disable")
	require.NoError(t, err)

	rebuilt := BuildConnString(cfg)
	reparsed, err := ParseConnString(rebuilt)
	require.NoError(t, err)

	assert.Equal(t, cfg.Host, reparsed.Host)
	assert.Equal(t, cfg.Port, reparsed.Port)
	assert.Equal(t, cfg.Database, reparsed.Database)
	assert.Equal(t, cfg.Password, reparsed.Password)
	assert.Equal(t, cfg.SSLMode, reparsed.SSLMode)
}

func TestRedacted_NeverContainsPassword(t *testing.T) {
	cfg, err := ParseConnString("postgres://app:s3cret@db:5432/appdb")
	require.NoError(t, err)

	redacted := cfg.Redacted()
	assert.NotContains(t, redacted, "s3cret")
	assert.Contains(t, redacted, "app:***@db:5432")
	assert.Contains(t, redacted, "/appdb")
}

func TestRedacted_NoCredentials(t *testing.T) {
	cfg, err := ParseConnString("postgres://db/appdb")
	require.NoError(t, err)

	assert.Equal(t, "postgres://db:5432/appdb?sslmode=prefer", cfg.Redacted())
}
