package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
[business_service]
url = "http://business:8080"

[appointment_store]
url = "http://store:8080"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, "Europe/Istanbul", cfg.Engine.Timezone)
	assert.Equal(t, 15, cfg.Engine.SlotGranularityMinutes)
	assert.Equal(t, "09:00", cfg.Engine.FallbackOpenTime)
	assert.Equal(t, "18:00", cfg.Engine.FallbackCloseTime)
	assert.Equal(t, "18:00", cfg.Engine.DefaultCloseTime)
	assert.Equal(t, 30, cfg.Engine.DefaultServiceDurationMinutes)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, 5, cfg.BusinessService.Timeout)
	assert.Equal(t, 1.0, cfg.Tracing.SampleRatio)
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("SMC_DB_PASSWORD", "s3cret")
	t.Setenv("SMC_STORE_URL", "http://store.internal")

	path := writeConfig(t, `
[database]
host = "db"
port = 6432
user = "smc"
password = "${SMC_DB_PASSWORD}"
dbname = "availability"

[business_service]
url = "http://business:8080"
timeout = 2

[appointment_store]
url = "${SMC_STORE_URL}"

[engine]
timezone = "Europe/Berlin"
slot_granularity_minutes = 30
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Equal(t, "http://store.internal", cfg.AppointmentStore.URL)
	assert.Equal(t, 2, cfg.BusinessService.Timeout)
	assert.Equal(t, "Europe/Berlin", cfg.Engine.Timezone)
	assert.Equal(t, 30, cfg.Engine.SlotGranularityMinutes)
	assert.Equal(t,
		"host=db port=6432 user=smc password=s3cret dbname=availability sslmode=disable",
		cfg.Database.DSN())
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "missing business service url",
			content: `
[appointment_store]
url = "http://store"
`,
		},
		{
			name: "granularity does not divide an hour",
			content: `
[business_service]
url = "http://business"
[appointment_store]
url = "http://store"
[engine]
slot_granularity_minutes = 25
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}
