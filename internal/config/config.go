// Package config loads application configuration from defaults, a YAML
// file, environment variables (TUTOR_*), and CLI flags, in ascending
// precedence.
package config

import "time"

// Config holds all application configuration.
type Config struct {
	Log        LogConfig        `mapstructure:"log"`
	Server     ServerConfig     `mapstructure:"server"`
	State      StateConfig      `mapstructure:"state"`
	Model      ModelConfig      `mapstructure:"model"`
	Quiz       QuizConfig       `mapstructure:"quiz"`
	Reflection ReflectionConfig `mapstructure:"reflection"`
	Helper     HelperConfig     `mapstructure:"helper"`
}

// LogConfig configures logging behavior.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

// StateConfig configures checkpoint persistence.
type StateConfig struct {
	Backend string `mapstructure:"backend"` // json or sqlite
	Dir     string `mapstructure:"dir"`
	DBPath  string `mapstructure:"db_path"`
}

// ModelConfig configures the model CLI client.
type ModelConfig struct {
	Name        string        `mapstructure:"name"`
	Path        string        `mapstructure:"path"`
	Model       string        `mapstructure:"model"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// QuizConfig configures plan and question generation.
type QuizConfig struct {
	QuestionsPerObjective int  `mapstructure:"questions_per_objective"`
	MinWords              int  `mapstructure:"min_words"`
	Prefetch              bool `mapstructure:"prefetch"`
}

// ReflectionConfig configures the generate-critique-refine loop.
type ReflectionConfig struct {
	Enabled          bool `mapstructure:"enabled"`
	MaxIterations    int  `mapstructure:"max_iterations"`
	ClarityThreshold int  `mapstructure:"clarity_threshold"`
}

// HelperConfig configures the conversational help agent.
type HelperConfig struct {
	Expertise    string `mapstructure:"expertise"` // beginner, intermediate, advanced
	ExcerptRunes int    `mapstructure:"excerpt_runes"`
	MaxTurns     int    `mapstructure:"max_turns"`
}
