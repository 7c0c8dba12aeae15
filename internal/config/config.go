package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/kelseyhightower/envconfig"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	yamlutil "k8s.io/apimachinery/pkg/util/yaml"
)

const (
	// DefaultPath is the settings file read when no path is given.
	DefaultPath = "config.json"

	envPrefix = "VAULTPERMDIFF"
)

// Config holds the connection parameters and the two profiles to compare.
type Config struct {
	Vault    Vault    `json:"vault_settings"`
	Profiles Profiles `json:"security_profiles_settings"`
}

// Vault holds the configuration API connection settings.
type Vault struct {
	DNS        string `json:"vault_dns"`
	APIVersion string `json:"api_version"`
	SessionID  string `json:"session_id"`
}

// Profiles names the source and target security profiles.
type Profiles struct {
	SourceKey string `json:"source_security_profile_key"`
	TargetKey string `json:"target_security_profile_key"`
}

// ConfigError is returned for any failure to produce a usable Config.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// envOverrides are optional environment values that replace file values when set.
type envOverrides struct {
	VaultDNS      string `envconfig:"VAULT_DNS"`
	APIVersion    string `envconfig:"API_VERSION"`
	SessionID     string `envconfig:"SESSION_ID"`
	SourceProfile string `envconfig:"SOURCE_PROFILE"`
	TargetProfile string `envconfig:"TARGET_PROFILE"`
}

// Load reads the settings file at path (JSON or YAML), applies environment
// overrides and validates that every required key is present.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}
	defer f.Close()

	cfg, err := decode(f)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}

	if err := cfg.Validate(); err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}

	return cfg, nil
}

func decode(r io.Reader) (*Config, error) {
	var cfg Config
	dec := yamlutil.NewYAMLOrJSONDecoder(r, 4096)
	if err := dec.Decode(&cfg); err != nil {
		// an empty file is left to validation, which names every missing key
		if errors.Is(err, io.EOF) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("parsing settings: %w", err)
	}

	// the settings must be a single document; empty trailing YAML documents are allowed
	for {
		var extra any
		err := dec.Decode(&extra)
		if errors.Is(err, io.EOF) {
			return &cfg, nil
		}
		if err != nil {
			return nil, fmt.Errorf("parsing settings: %w", err)
		}
		if extra != nil {
			return nil, fmt.Errorf("parsing settings: unexpected trailing content")
		}
	}
}

func (c *Config) applyEnv() error {
	var env envOverrides
	if err := envconfig.Process(envPrefix, &env); err != nil {
		return fmt.Errorf("reading environment overrides: %w", err)
	}

	override := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	override(&c.Vault.DNS, env.VaultDNS)
	override(&c.Vault.APIVersion, env.APIVersion)
	override(&c.Vault.SessionID, env.SessionID)
	override(&c.Profiles.SourceKey, env.SourceProfile)
	override(&c.Profiles.TargetKey, env.TargetProfile)
	return nil
}

// Validate reports every missing required key.
func (c *Config) Validate() error {
	var errs []error
	required := []struct {
		key   string
		value string
	}{
		{"vault_settings.vault_dns", c.Vault.DNS},
		{"vault_settings.api_version", c.Vault.APIVersion},
		{"vault_settings.session_id", c.Vault.SessionID},
		{"security_profiles_settings.source_security_profile_key", c.Profiles.SourceKey},
		{"security_profiles_settings.target_security_profile_key", c.Profiles.TargetKey},
	}
	for _, r := range required {
		if r.value == "" {
			errs = append(errs, fmt.Errorf("missing required key %s", r.key))
		}
	}
	return utilerrors.NewAggregate(errs)
}
