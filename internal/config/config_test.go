package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DerivesStatePathsFromResultsDir(t *testing.T) {
	t.Setenv("RESULTS_DIR", "/data/out")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/data/out", cfg.Upload.ResultsDir)
	assert.Equal(t, filepath.Join("/data/out", "quota_state.json"), cfg.Quota.StatePath)
	assert.Equal(t, filepath.Join("/data/out", "sessions"), cfg.Intake.Session.Dir)
}

func TestLoad_ExplicitPathsOverrideResultsDir(t *testing.T) {
	t.Setenv("RESULTS_DIR", "/data/out")
	t.Setenv("TALENTVET_QUOTA_STATE_PATH", "/var/lib/talentvet/quota.json")
	t.Setenv("TALENTVET_INTAKE_SESSION_DIR", "/var/lib/talentvet/sessions")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/talentvet/quota.json", cfg.Quota.StatePath)
	assert.Equal(t, "/var/lib/talentvet/sessions", cfg.Intake.Session.Dir)
}

func TestLoad_AllowedExtensionsAlias(t *testing.T) {
	t.Setenv("ALLOWED_EXTENSIONS", "txt, PDF")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"txt", "pdf"}, cfg.Upload.AllowedExtensions)
}

func TestLoad_AllowedOrigins(t *testing.T) {
	t.Setenv("TALENTVET_SERVER_ALLOWED_ORIGINS", "https://ats.example.com, https://staging.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"https://ats.example.com", "https://staging.example.com"},
		cfg.Server.AllowedOrigins)
}
