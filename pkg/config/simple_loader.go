package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ajitpratap0/recycler/pkg/errors"
)

// Load loads a configuration from a YAML file into config, substituting
// ${VAR} and ${VAR:-default} references from the environment first.
func Load(filePath string, config interface{}) error {
	data, err := os.ReadFile(filePath) //nolint:gosec // G304: File path is controlled by caller
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to read config file").
			WithDetail("file", filePath)
	}

	content := substituteEnvVars(string(data))

	if err := yaml.Unmarshal([]byte(content), config); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "failed to parse YAML").
			WithDetail("file", filePath)
	}

	return nil
}

// LoadFile reads a Config from filePath on top of Default and validates it.
func LoadFile(filePath string) (*Config, error) {
	cfg := Default()
	if err := Load(filePath, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid configuration").
			WithDetail("file", filePath)
	}
	return cfg, nil
}

// Save saves a configuration to a YAML file
func Save(filePath string, config interface{}) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "failed to marshal YAML")
	}

	if err := os.WriteFile(filePath, data, 0o644); err != nil { //nolint:gosec
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to write config file").
			WithDetail("file", filePath)
	}

	return nil
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values.
// ${VAR_NAME:-fallback} uses fallback when the variable is unset or empty.
func substituteEnvVars(content string) string {
	var b strings.Builder
	for {
		start := strings.Index(content, "${")
		if start == -1 {
			break
		}
		end := strings.Index(content[start:], "}")
		if end == -1 {
			break
		}
		end += start

		ref := content[start+2 : end]
		name, fallback, hasFallback := strings.Cut(ref, ":-")
		value := os.Getenv(name)
		if value == "" && hasFallback {
			value = fallback
		}

		b.WriteString(content[:start])
		b.WriteString(value)
		content = content[end+1:]
	}
	b.WriteString(content)
	return b.String()
}
