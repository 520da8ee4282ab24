package config

import (
	"fmt"
	"strings"
)

// ValidationError describes a single invalid configuration value.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates all validation failures.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return "invalid configuration: " + strings.Join(msgs, "; ")
}

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	var errs ValidationErrors

	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, ValidationError{"log.level",
			fmt.Sprintf("unknown level %q", cfg.Log.Level)})
	}
	switch cfg.Log.Format {
	case "auto", "text", "json":
	default:
		errs = append(errs, ValidationError{"log.format",
			fmt.Sprintf("unknown format %q", cfg.Log.Format)})
	}

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		errs = append(errs, ValidationError{"server.port",
			fmt.Sprintf("%d out of range", cfg.Server.Port)})
	}

	switch cfg.State.Backend {
	case "json", "sqlite":
	default:
		errs = append(errs, ValidationError{"state.backend",
			fmt.Sprintf("unknown backend %q (want json or sqlite)", cfg.State.Backend)})
	}

	if cfg.Model.Path == "" {
		errs = append(errs, ValidationError{"model.path", "required"})
	}
	if cfg.Model.MaxTokens < 1 {
		errs = append(errs, ValidationError{"model.max_tokens", "must be positive"})
	}
	if cfg.Model.Temperature < 0 || cfg.Model.Temperature > 2 {
		errs = append(errs, ValidationError{"model.temperature", "must be in [0, 2]"})
	}

	if cfg.Quiz.QuestionsPerObjective < 1 || cfg.Quiz.QuestionsPerObjective > 10 {
		errs = append(errs, ValidationError{"quiz.questions_per_objective", "must be in [1, 10]"})
	}
	if cfg.Quiz.MinWords < 0 {
		errs = append(errs, ValidationError{"quiz.min_words", "must not be negative"})
	}

	if cfg.Reflection.MaxIterations < 0 || cfg.Reflection.MaxIterations > 5 {
		errs = append(errs, ValidationError{"reflection.max_iterations", "must be in [0, 5]"})
	}
	if cfg.Reflection.ClarityThreshold < 1 || cfg.Reflection.ClarityThreshold > 10 {
		errs = append(errs, ValidationError{"reflection.clarity_threshold", "must be in [1, 10]"})
	}

	switch cfg.Helper.Expertise {
	case "beginner", "intermediate", "advanced":
	default:
		errs = append(errs, ValidationError{"helper.expertise",
			fmt.Sprintf("unknown level %q", cfg.Helper.Expertise)})
	}
	if cfg.Helper.ExcerptRunes < 1 {
		errs = append(errs, ValidationError{"helper.excerpt_runes", "must be positive"})
	}
	if cfg.Helper.MaxTurns < 1 {
		errs = append(errs, ValidationError{"helper.max_turns", "must be positive"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
