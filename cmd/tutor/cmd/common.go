package cmd

import (
	"fmt"

	"github.com/hugo-lorenzo-mato/tutor-ai/internal/adapters/modelcli"
	"github.com/hugo-lorenzo-mato/tutor-ai/internal/config"
	"github.com/hugo-lorenzo-mato/tutor-ai/internal/core"
	"github.com/hugo-lorenzo-mato/tutor-ai/internal/engine"
	"github.com/hugo-lorenzo-mato/tutor-ai/internal/events"
	"github.com/hugo-lorenzo-mato/tutor-ai/internal/extract"
	"github.com/hugo-lorenzo-mato/tutor-ai/internal/genmodel"
	"github.com/hugo-lorenzo-mato/tutor-ai/internal/logging"
	"github.com/hugo-lorenzo-mato/tutor-ai/internal/reflection"
	"github.com/hugo-lorenzo-mato/tutor-ai/internal/store"
)

// runtime bundles everything a command needs to drive sessions.
type runtime struct {
	cfg    *config.Config
	logger *logging.Logger
	store  core.StateStore
	bus    *events.Bus
	engine *engine.Engine
}

func (r *runtime) close() {
	r.bus.Close()
	if err := r.store.Close(); err != nil {
		r.logger.Warn("failed to close state store", "error", err.Error())
	}
}

// buildRuntime assembles the engine and its collaborators from config.
func buildRuntime(cfg *config.Config, logger *logging.Logger) (*runtime, error) {
	st, err := store.New(store.Config{
		Backend: cfg.State.Backend,
		Dir:     cfg.State.Dir,
		DBPath:  cfg.State.DBPath,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("creating state store: %w", err)
	}

	client := modelcli.New(modelcli.Config{
		Name:    cfg.Model.Name,
		Path:    cfg.Model.Path,
		Model:   cfg.Model.Model,
		Timeout: cfg.Model.Timeout,
	}, logger)

	generator := genmodel.New(client, genmodel.Options{
		MaxTokens:   cfg.Model.MaxTokens,
		Temperature: cfg.Model.Temperature,
		Timeout:     cfg.Model.Timeout,
	})

	gate := reflection.New(generator, reflection.Options{
		Enabled:          cfg.Reflection.Enabled,
		MaxIterations:    cfg.Reflection.MaxIterations,
		ClarityThreshold: cfg.Reflection.ClarityThreshold,
	}, logger)

	bus := events.New(100)

	eng, err := engine.New(engine.Deps{
		Store:     st,
		Extractor: extract.New(extract.WithMinWords(cfg.Quiz.MinWords)),
		Generator: generator,
		Gate:      gate,
		Bus:       bus,
		Logger:    logger,
	}, engine.Options{
		QuestionsPerObjective: cfg.Quiz.QuestionsPerObjective,
		Prefetch:              cfg.Quiz.Prefetch,
		Expertise:             cfg.Helper.Expertise,
		ExcerptRunes:          cfg.Helper.ExcerptRunes,
		MaxTurns:              cfg.Helper.MaxTurns,
	})
	if err != nil {
		bus.Close()
		_ = st.Close()
		return nil, fmt.Errorf("creating engine: %w", err)
	}

	return &runtime{cfg: cfg, logger: logger, store: st, bus: bus, engine: eng}, nil
}

// newRuntime loads config, builds the logger, and assembles the engine.
func newRuntime() (*runtime, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	return buildRuntime(cfg, logger)
}
