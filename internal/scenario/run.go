package scenario

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"edusim/internal/config"
	"edusim/internal/model"
	"edusim/internal/pipeline"
	"edusim/internal/rubric"
	"edusim/internal/survey"
)

// Run executes one scenario phase end to end: backend selection, branch
// expansion, and the pipeline itself.
func Run(ctx context.Context, cfg config.RunConfig, def Definition, phase Phase, deps pipeline.Dependencies, logger *zap.Logger) (string, []pipeline.BranchResult, error) {
	backend, err := model.New(ctx, cfg.Model)
	if err != nil {
		return "", nil, fmt.Errorf("select backend: %w", err)
	}
	instruments, err := survey.Lookup(def.Questionnaires)
	if err != nil {
		return "", nil, err
	}
	rubrics, err := rubric.Lookup(def.Rubrics, def.RubricTarget)
	if err != nil {
		return "", nil, err
	}
	branches, err := def.Branches(phase)
	if err != nil {
		return "", nil, err
	}
	if len(branches) == 0 {
		return "", nil, fmt.Errorf("scenario %s: no branches for phase %q", def.Name, phase)
	}

	runner := &pipeline.Runner{
		Backend:        backend,
		Silent:         cfg.Model.DisableLanguageModel || cfg.Model.APIType == model.APITypeDisabled,
		Types:          def.SceneTypes,
		SharedMemories: def.SharedMemories,
		Populate:       def.Populate,
		Instruments:    instruments,
		Rubrics:        rubrics,
		SurveyPlayers:  def.SurveyPlayers,
		Logger:         logger,
		Deps:           deps,
	}
	return runner.RunAll(ctx, cfg.OutputRoot, def.Name, branches)
}
