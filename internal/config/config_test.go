package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validJSON = `{
  "vault_settings": {
    "vault_dns": "example.veevavault.com",
    "api_version": "v23.1",
    "session_id": "sess-123"
  },
  "security_profiles_settings": {
    "source_security_profile_key": "admin__v",
    "target_security_profile_key": "reviewer__c"
  }
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadJSON(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeFile(t, "config.json", validJSON))
	require.NoError(t, err)

	assert.Equal(t, "example.veevavault.com", cfg.Vault.DNS)
	assert.Equal(t, "v23.1", cfg.Vault.APIVersion)
	assert.Equal(t, "sess-123", cfg.Vault.SessionID)
	assert.Equal(t, "admin__v", cfg.Profiles.SourceKey)
	assert.Equal(t, "reviewer__c", cfg.Profiles.TargetKey)
}

func TestLoadYAML(t *testing.T) {
	t.Parallel()

	yamlDoc := `
vault_settings:
  vault_dns: example.veevavault.com
  api_version: "v23.1"
  session_id: sess-123
security_profiles_settings:
  source_security_profile_key: admin__v
  target_security_profile_key: reviewer__c
`
	cfg, err := Load(writeFile(t, "config.yaml", yamlDoc))
	require.NoError(t, err)
	assert.Equal(t, "v23.1", cfg.Vault.APIVersion)
	assert.Equal(t, "reviewer__c", cfg.Profiles.TargetKey)
}

func TestLoadNotExist(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadUnparsable(t *testing.T) {
	t.Parallel()

	validYAML := `vault_settings:
  vault_dns: example.veevavault.com
  api_version: "v23.1"
  session_id: sess-123
security_profiles_settings:
  source_security_profile_key: admin__v
  target_security_profile_key: reviewer__c
`

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"truncated_json", "config.json", `{"vault_settings": [`},
		{"json_trailing_brace", "config.json", validJSON + " }"},
		{"json_trailing_garbage", "config.json", validJSON + " garbage"},
		{"json_second_object", "config.json", validJSON + `{"vault_settings": {}}`},
		{"yaml_bad_second_document", "config.yaml", validYAML + "---\n: : bad\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Contains(t, err.Error(), "parsing settings")
		})
	}
}

func TestLoadTrailingWhitespace(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeFile(t, "config.json", validJSON+"\n\n  \n"))
	require.NoError(t, err)
	assert.Equal(t, "admin__v", cfg.Profiles.SourceKey)
}

func TestLoadMissingKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		missing []string
	}{
		{
			name:    "empty_file",
			content: "",
			missing: []string{
				"vault_settings.vault_dns",
				"vault_settings.api_version",
				"vault_settings.session_id",
				"security_profiles_settings.source_security_profile_key",
				"security_profiles_settings.target_security_profile_key",
			},
		},
		{
			name:    "no_profiles",
			content: `{"vault_settings": {"vault_dns": "h", "api_version": "v1", "session_id": "s"}}`,
			missing: []string{
				"security_profiles_settings.source_security_profile_key",
				"security_profiles_settings.target_security_profile_key",
			},
		},
		{
			name: "no_session",
			content: `{"vault_settings": {"vault_dns": "h", "api_version": "v1"},
				"security_profiles_settings": {"source_security_profile_key": "a", "target_security_profile_key": "b"}}`,
			missing: []string{"vault_settings.session_id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "config.json", tt.content))
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			for _, key := range tt.missing {
				assert.Contains(t, err.Error(), key)
			}
		})
	}
}

func TestLoadEnvOverride(t *testing.T) {
	// No t.Parallel(): mutates process environment
	t.Setenv("VAULTPERMDIFF_SESSION_ID", "from-env")
	t.Setenv("VAULTPERMDIFF_TARGET_PROFILE", "other__c")

	cfg, err := Load(writeFile(t, "config.json", validJSON))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Vault.SessionID)
	assert.Equal(t, "other__c", cfg.Profiles.TargetKey)
	assert.Equal(t, "admin__v", cfg.Profiles.SourceKey)
}

func TestLoadEnvFillsMissingKey(t *testing.T) {
	// No t.Parallel(): mutates process environment
	t.Setenv("VAULTPERMDIFF_SESSION_ID", "from-env")

	content := `{"vault_settings": {"vault_dns": "h", "api_version": "v1"},
		"security_profiles_settings": {"source_security_profile_key": "a", "target_security_profile_key": "b"}}`
	cfg, err := Load(writeFile(t, "config.json", content))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Vault.SessionID)
}
