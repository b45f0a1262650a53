package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/monetalab/fincoach/internal/extract"
	"github.com/monetalab/fincoach/internal/onboarding"
	"github.com/monetalab/fincoach/pkg/llm"
)

// Generator creates activities with structured LLM calls.
type Generator struct {
	batch  *extract.Extractor[Activities]
	single *extract.Extractor[Activity]
}

// NewGenerator builds a generator using the given model for both
// generation modes.
func NewGenerator(client llm.Client, model string) *Generator {
	return &Generator{
		batch:  extract.New[Activities](client, model, "activities", json.RawMessage(activitiesSchema)),
		single: extract.New[Activity](client, model, "activity", json.RawMessage(activitySchemaBody)),
	}
}

// FromOnboarding generates a cohesive set of activities tailored to a
// completed profile.
func (g *Generator) FromOnboarding(ctx context.Context, data onboarding.Data) ([]Activity, error) {
	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal onboarding data: %w", err)
	}

	result, err := g.batch.Extract(ctx, fromOnboardingPrompt, []llm.Message{
		{Role: llm.RoleUser, Content: string(payload)},
	})
	if err != nil {
		return nil, fmt.Errorf("generate activities: %w", err)
	}
	if len(result.Activities) == 0 {
		return nil, fmt.Errorf("generate activities: model returned none")
	}

	for i := range result.Activities {
		if err := validateSteps(result.Activities[i]); err != nil {
			return nil, fmt.Errorf("generate activities: activity %d: %w", i, err)
		}
		if !result.Activities[i].Level.Valid() {
			result.Activities[i].Level = LevelBeginner
		}
	}
	return result.Activities, nil
}

// validateSteps rejects generated activities whose steps are absent or
// not indexed exactly 1..N.
func validateSteps(act Activity) error {
	if len(act.Steps) == 0 {
		return fmt.Errorf("no steps")
	}
	seen := make(map[int]bool, len(act.Steps))
	for _, s := range act.Steps {
		if s.Index < 1 || s.Index > len(act.Steps) {
			return fmt.Errorf("step index %d out of range 1..%d", s.Index, len(act.Steps))
		}
		if seen[s.Index] {
			return fmt.Errorf("duplicate step index %d", s.Index)
		}
		seen[s.Index] = true
	}
	return nil
}

// ConceptsRequest parameterizes single-activity generation.
type ConceptsRequest struct {
	Level             Level
	Concepts          []string
	GuidedDescription string
	UserContext       map[string]any
}

// FromConcepts generates one activity focused on the given concepts at
// the requested level.
func (g *Generator) FromConcepts(ctx context.Context, req ConceptsRequest) (Activity, error) {
	if !req.Level.Valid() {
		return Activity{}, fmt.Errorf("generate activity: invalid level %q", req.Level)
	}
	if len(req.Concepts) == 0 {
		return Activity{}, fmt.Errorf("generate activity: at least one concept is required")
	}

	guided := ""
	if req.GuidedDescription != "" {
		guided = "\nGuided description: " + req.GuidedDescription
	}
	userCtx := ""
	if len(req.UserContext) > 0 {
		raw, err := json.Marshal(req.UserContext)
		if err != nil {
			return Activity{}, fmt.Errorf("marshal user context: %w", err)
		}
		userCtx = "\nUser context: " + string(raw)
	}

	prompt := fmt.Sprintf(fromConceptsPromptTemplate, req.Level, strings.Join(req.Concepts, ", "), guided, userCtx)

	payload, err := json.Marshal(map[string]any{
		"level":              req.Level,
		"concepts":           req.Concepts,
		"guided_description": req.GuidedDescription,
		"user_context":       req.UserContext,
	})
	if err != nil {
		return Activity{}, fmt.Errorf("marshal request: %w", err)
	}

	act, err := g.single.Extract(ctx, prompt, []llm.Message{
		{Role: llm.RoleUser, Content: string(payload)},
	})
	if err != nil {
		return Activity{}, fmt.Errorf("generate activity: %w", err)
	}
	if err := validateSteps(act); err != nil {
		return Activity{}, fmt.Errorf("generate activity: %w", err)
	}

	act.Level = req.Level
	return act, nil
}
