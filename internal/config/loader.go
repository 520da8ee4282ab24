package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader handles configuration loading from multiple sources.
type Loader struct {
	v          *viper.Viper
	configFile string
	envPrefix  string
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return &Loader{
		v:         viper.New(),
		envPrefix: "TUTOR",
	}
}

// NewLoaderWithViper creates a loader using an existing viper instance,
// allowing integration with CLI flag bindings.
func NewLoaderWithViper(v *viper.Viper) *Loader {
	return &Loader{
		v:         v,
		envPrefix: "TUTOR",
	}
}

// WithConfigFile sets an explicit config file path.
func (l *Loader) WithConfigFile(path string) *Loader {
	l.configFile = path
	return l
}

// Viper returns the underlying viper instance for flag binding.
func (l *Loader) Viper() *viper.Viper {
	return l.v
}

// Load loads configuration from all sources.
// Precedence (highest to lowest):
// 1. CLI flags (set via viper.BindPFlag)
// 2. Environment variables (TUTOR_*)
// 3. Project config (.tutor.yaml in current directory)
// 4. User config (~/.config/tutor/config.yaml)
// 5. Defaults
func (l *Loader) Load() (*Config, error) {
	l.setDefaults()

	l.v.SetEnvPrefix(l.envPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()

	if l.configFile != "" {
		l.v.SetConfigFile(l.configFile)
	} else {
		l.v.SetConfigName(".tutor")
		l.v.SetConfigType("yaml")
		l.v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			l.v.AddConfigPath(filepath.Join(home, ".config", "tutor"))
		}
	}

	if err := l.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// setDefaults configures default values.
func (l *Loader) setDefaults() {
	l.v.SetDefault("log.level", "info")
	l.v.SetDefault("log.format", "auto")

	l.v.SetDefault("server.host", "127.0.0.1")
	l.v.SetDefault("server.port", 8787)
	l.v.SetDefault("server.read_timeout", "30s")
	l.v.SetDefault("server.write_timeout", "10m")
	l.v.SetDefault("server.shutdown_timeout", "15s")
	l.v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})

	l.v.SetDefault("state.backend", "json")
	l.v.SetDefault("state.dir", ".tutor/sessions")
	l.v.SetDefault("state.db_path", ".tutor/sessions.db")

	l.v.SetDefault("model.name", "claude")
	l.v.SetDefault("model.path", "claude")
	l.v.SetDefault("model.max_tokens", 4096)
	l.v.SetDefault("model.temperature", 0.7)
	l.v.SetDefault("model.timeout", "5m")

	l.v.SetDefault("quiz.questions_per_objective", 3)
	l.v.SetDefault("quiz.min_words", 50)
	l.v.SetDefault("quiz.prefetch", true)

	l.v.SetDefault("reflection.enabled", true)
	l.v.SetDefault("reflection.max_iterations", 2)
	l.v.SetDefault("reflection.clarity_threshold", 7)

	l.v.SetDefault("helper.expertise", "beginner")
	l.v.SetDefault("helper.excerpt_runes", 2000)
	l.v.SetDefault("helper.max_turns", 10)
}

// ConfigFile returns the config file path if one was used.
func (l *Loader) ConfigFile() string {
	return l.v.ConfigFileUsed()
}
