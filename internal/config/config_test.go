package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalConfig = `
database:
  tracking:
    hostname: db.local
    database: crp
form_provider:
  base_url: http://ods.local/
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "mysql", cfg.Database.Tracking.Type)
	assert.Equal(t, 3306, cfg.Database.Tracking.Port)
	assert.Equal(t, 30*time.Second, cfg.FormProvider.Timeout)
	assert.Equal(t, "/form/ready", cfg.FormProvider.Endpoints.Ready)
	assert.Equal(t, "/form/error", cfg.FormProvider.Endpoints.Error)
	assert.False(t, cfg.Questionnaire.MultipleRetakeEnabled)
	assert.Equal(t, DefaultPolicyCode, cfg.Questionnaire.DefaultPolicyCode)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoad_FileOverrides(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
database:
  tracking:
    hostname: db.local
    database: crp
questionnaire:
  multiple_retake_enabled: true
  default_policy_code: KYC
form_provider:
  base_url: http://ods.local
  timeout: 5s
  endpoints:
    ready: /v2/ready
`))
	require.NoError(t, err)

	assert.True(t, cfg.Questionnaire.MultipleRetakeEnabled)
	assert.Equal(t, "KYC", cfg.Questionnaire.DefaultPolicyCode)
	assert.Equal(t, 5*time.Second, cfg.FormProvider.Timeout)
	assert.Equal(t, "/v2/ready", cfg.FormProvider.Endpoints.Ready)
	assert.Equal(t, "/form/save", cfg.FormProvider.Endpoints.Save)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("CRP_QUESTIONNAIRE_QUESTIONNAIRE_MULTIPLE_RETAKE_ENABLED", "true")
	t.Setenv("CRP_QUESTIONNAIRE_SERVER_PORT", "9090")

	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.True(t, cfg.Questionnaire.MultipleRetakeEnabled)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing database host",
			content: "database:\n  tracking:\n    database: crp\nform_provider:\n  base_url: http://ods\n",
			wantErr: "database hostname is required",
		},
		{
			name:    "missing database name",
			content: "database:\n  tracking:\n    hostname: db\nform_provider:\n  base_url: http://ods\n",
			wantErr: "database name is required",
		},
		{
			name:    "missing form provider",
			content: "database:\n  tracking:\n    hostname: db\n    database: crp\n",
			wantErr: "form provider base URL is required",
		},
		{
			name:    "bad port",
			content: minimalConfig + "server:\n  port: 70000\n",
			wantErr: "invalid server port",
		},
		{
			name:    "blank policy code",
			content: minimalConfig + "questionnaire:\n  default_policy_code: \"  \"\n",
			wantErr: "default policy code is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestGetEndpointURL(t *testing.T) {
	cfg := FormProviderConfig{BaseURL: "http://ods.local/"}
	assert.Equal(t, "http://ods.local/form/ready", cfg.GetEndpointURL("/form/ready"))

	cfg.BaseURL = "http://ods.local"
	assert.Equal(t, "http://ods.local/form/ready", cfg.GetEndpointURL("/form/ready"))
}

func TestGetDSN(t *testing.T) {
	d := DatabaseConfig{User: "u", Password: "p", Hostname: "h", Port: 3306, Database: "db"}
	assert.Equal(t, "u:p@tcp(h:3306)/db?parseTime=true&multiStatements=true", d.GetDSN())
}
