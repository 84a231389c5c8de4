// Package config loads the service configuration.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"cancerrisk/ml"
	"gopkg.in/yaml.v2"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CANCERRISK_"

type Model struct {
	Type           string `yaml:"type"`
	ModelPath      string `yaml:"model_path"`
	ScalerPath     string `yaml:"scaler_path"`
	BMIEncoderPath string `yaml:"bmi_encoder_path"`
	AgeEncoderPath string `yaml:"age_encoder_path"`
}

// Features lists the feature groups in vector order. Concatenated they must
// equal ml.FeatureNames().
type Features struct {
	Numerical   []string `yaml:"numerical"`
	Categorical []string `yaml:"categorical"`
	Engineered  []string `yaml:"engineered"`
}

type Server struct {
	Debug        bool          `yaml:"debug"`
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	Timeout      time.Duration `yaml:"timeout"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
	TemplatesDir string        `yaml:"templates_dir"`
}

type Log struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type Audit struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type Config struct {
	Model    Model    `yaml:"model"`
	Features Features `yaml:"features"`
	Server   Server   `yaml:"server"`
	Log      Log      `yaml:"log"`
	Audit    Audit    `yaml:"audit"`
}

// Load reads path (if it exists), applies environment overrides and
// defaults, and validates the result.
func Load(path string) (*Config, error) {
	config := &Config{}

	if path != "" {
		payload, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(payload, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := config.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"MODEL_TYPE":       &c.Model.Type,
		"MODEL_PATH":       &c.Model.ModelPath,
		"SCALER_PATH":      &c.Model.ScalerPath,
		"BMI_ENCODER_PATH": &c.Model.BMIEncoderPath,
		"AGE_ENCODER_PATH": &c.Model.AgeEncoderPath,
		"HOST":             &c.Server.Host,
		"TEMPLATES_DIR":    &c.Server.TemplatesDir,
		"LOG_LEVEL":        &c.Log.Level,
		"LOG_FILE":         &c.Log.File,
		"AUDIT_PATH":       &c.Audit.Path,
	}
	for key, dst := range strs {
		if v, ok := lookup(EnvPrefix + key); ok && v != "" {
			*dst = v
		}
	}

	bools := map[string]*bool{
		"DEBUG":         &c.Server.Debug,
		"AUDIT_ENABLED": &c.Audit.Enabled,
	}
	for key, dst := range bools {
		if v, ok := lookup(EnvPrefix + key); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid %s%s: %w", EnvPrefix, key, err)
			}
			*dst = b
		}
	}

	if v, ok := lookup(EnvPrefix + "PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sPORT: %w", EnvPrefix, err)
		}
		c.Server.Port = port
	}
	if v, ok := lookup(EnvPrefix + "TIMEOUT"); ok && v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %sTIMEOUT: %w", EnvPrefix, err)
		}
		c.Server.Timeout = timeout
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Model.Type == "" {
		c.Model.Type = ml.ModelTypeDecisionTree
	}
	if c.Model.ModelPath == "" {
		c.Model.ModelPath = "artifacts/cancer_model.json"
	}
	if c.Model.ScalerPath == "" {
		c.Model.ScalerPath = "artifacts/scaler.json"
	}
	if c.Model.BMIEncoderPath == "" {
		c.Model.BMIEncoderPath = "artifacts/bmi_encoder.json"
	}
	if c.Model.AgeEncoderPath == "" {
		c.Model.AgeEncoderPath = "artifacts/age_group_encoder.json"
	}
	if len(c.Features.Numerical) == 0 {
		c.Features.Numerical = ml.NumericalFeatures()
	}
	if len(c.Features.Categorical) == 0 {
		c.Features.Categorical = ml.CategoricalFeatures()
	}
	if len(c.Features.Engineered) == 0 {
		c.Features.Engineered = ml.EngineeredFeatureNames()
	}
	if c.Server.Host == "" {
		c.Server.Host = "127.0.0.1"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 5000
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = 30 * time.Second
	}
	if c.Server.MaxBodyBytes == 0 {
		c.Server.MaxBodyBytes = 1 << 20
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.MaxSizeMB == 0 {
		c.Log.MaxSizeMB = 100
	}
	if c.Log.MaxBackups == 0 {
		c.Log.MaxBackups = 3
	}
	if c.Log.MaxAgeDays == 0 {
		c.Log.MaxAgeDays = 28
	}
	if c.Audit.Path == "" {
		c.Audit.Path = "data/predictions.db"
	}
}

func (c *Config) Validate() error {
	if !ml.KnownModelType(c.Model.Type) {
		return fmt.Errorf("unsupported model type %q", c.Model.Type)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Server.Port)
	}
	if c.Server.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}

	got := c.Features.Ordered()
	want := ml.FeatureNames()
	if len(got) != len(want) {
		return fmt.Errorf("feature lists name %d features, model expects %d (%s)",
			len(got), len(want), strings.Join(want, ", "))
	}
	for i := range want {
		if got[i] != want[i] {
			return fmt.Errorf("feature %d is %q, model expects %q", i, got[i], want[i])
		}
	}
	groups := []struct {
		name string
		got  []string
		want []string
	}{
		{"numerical", c.Features.Numerical, ml.NumericalFeatures()},
		{"categorical", c.Features.Categorical, ml.CategoricalFeatures()},
		{"engineered", c.Features.Engineered, ml.EngineeredFeatureNames()},
	}
	for _, g := range groups {
		if len(g.got) != len(g.want) {
			return fmt.Errorf("%s features: expected %s", g.name, strings.Join(g.want, ", "))
		}
	}
	return nil
}

// Ordered returns the feature names in vector order.
func (f Features) Ordered() []string {
	out := make([]string, 0, len(f.Numerical)+len(f.Categorical)+len(f.Engineered))
	out = append(out, f.Numerical...)
	out = append(out, f.Categorical...)
	out = append(out, f.Engineered...)
	return out
}

func (c *Config) ArtifactPaths() ml.ArtifactPaths {
	return ml.ArtifactPaths{
		ModelType:      c.Model.Type,
		ModelPath:      c.Model.ModelPath,
		ScalerPath:     c.Model.ScalerPath,
		BMIEncoderPath: c.Model.BMIEncoderPath,
		AgeEncoderPath: c.Model.AgeEncoderPath,
	}
}

// Addr is the host:port the server binds to.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}
