// Package generation turns computed facts into insight content by calling
// the text-generation client once per fragment. Any failure replaces the
// whole result with deterministic fallback content.
package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/alexanderramin/ledgerpulse/internal/domain"
	"github.com/alexanderramin/ledgerpulse/internal/evals"
	"github.com/alexanderramin/ledgerpulse/internal/facts"
	"github.com/alexanderramin/ledgerpulse/internal/llm"
	"github.com/alexanderramin/ledgerpulse/internal/prompts"
	"github.com/alexanderramin/ledgerpulse/internal/slots"
)

// ErrAccuracyViolation marks generated content that contradicted the facts
// and was replaced by the fallback.
var ErrAccuracyViolation = errors.New("generated content contradicts facts")

// ErrNoClient is reported when generation runs without an LLM client.
var ErrNoClient = errors.New("no llm client configured")

const systemPrompt = "You write short, factual updates about a small business's finances for its owner. " +
	"Use only the numbers and names you are given and follow every constraint exactly."

// Input is everything one generation run reads. Slots and Facts must come
// from the same ComputeSlots/ExtractFacts pass.
type Input struct {
	Slots    *slots.InsightSlots
	Facts    *facts.InsightFacts
	Activity domain.InsightActivity
}

// Result is the content to persist, plus how it was produced.
type Result struct {
	Content      domain.InsightContent
	UsedFallback bool
	// FallbackReason is why generated content was discarded, nil otherwise.
	FallbackReason error
	Scores         []evals.Score
}

// Orchestrator runs the five generation calls for an insight.
type Orchestrator struct {
	client llm.LLMClient
	logger *slog.Logger
}

// NewOrchestrator creates an Orchestrator. A nil client makes every run
// use the fallback content.
func NewOrchestrator(client llm.LLMClient, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{client: client, logger: logger}
}

// Generate produces the content for one insight. Title, summary, actions
// and audio are requested in parallel; the story follows once that batch
// has settled. The result is either entirely generated or entirely
// fallback, never a mix.
func (o *Orchestrator) Generate(ctx context.Context, in Input) Result {
	content, err := o.generate(ctx, in)
	if err == nil {
		if violations := evals.CriticalViolations(content, in.Facts, in.Slots); len(violations) > 0 {
			err = fmt.Errorf("%w: %s", ErrAccuracyViolation, strings.Join(violations, "; "))
		}
	}
	if err != nil {
		o.logger.Warn("insight generation fell back", "period", in.Slots.PeriodLabel, "error", err)
		content = GetFallbackContent(in.Activity, in.Slots.PeriodLabel)
		return Result{Content: content, UsedFallback: true, FallbackReason: err, Scores: evals.Run(content, in.Facts, in.Slots)}
	}
	return Result{Content: content, Scores: evals.Run(content, in.Facts, in.Slots)}
}

func (o *Orchestrator) generate(ctx context.Context, in Input) (domain.InsightContent, error) {
	var content domain.InsightContent
	if o.client == nil {
		return content, ErrNoClient
	}

	var g errgroup.Group
	g.Go(func() (err error) {
		content.Title, err = o.text(ctx, llm.TaskTitle, prompts.BuildTitle(in.Slots, in.Facts))
		return err
	})
	g.Go(func() (err error) {
		content.Summary, err = o.text(ctx, llm.TaskSummary, prompts.BuildSummary(in.Slots, in.Facts))
		return err
	})
	g.Go(func() (err error) {
		content.Actions, err = o.actions(ctx, in)
		return err
	})
	g.Go(func() (err error) {
		content.AudioScript, err = o.text(ctx, llm.TaskAudio, prompts.BuildAudio(in.Slots, in.Facts))
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.InsightContent{}, err
	}

	story, err := o.text(ctx, llm.TaskStory, prompts.BuildStory(in.Slots, in.Facts))
	if err != nil {
		return domain.InsightContent{}, err
	}
	content.Story = story
	return content, nil
}

func (o *Orchestrator) text(ctx context.Context, task llm.TaskType, prompt string) (string, error) {
	resp, err := o.client.Generate(ctx, llm.GenerateRequest{Task: task, SystemPrompt: systemPrompt, UserPrompt: prompt})
	if err != nil {
		return "", fmt.Errorf("generating %s: %w", task, err)
	}
	text := cleanText(resp.Text)
	if text == "" {
		return "", fmt.Errorf("generating %s: %w: empty response", task, llm.ErrInvalidOutput)
	}
	return text, nil
}

type actionsPayload struct {
	Actions []actionPayload `json:"actions" validate:"dive"`
}

type actionPayload struct {
	Text       string `json:"text" validate:"required"`
	Type       string `json:"type"`
	EntityType string `json:"entityType"`
	EntityID   string `json:"entityId"`
}

// actions asks for next steps when there are candidates. Returned items
// are bound to a candidate; anything the model invented is dropped.
func (o *Orchestrator) actions(ctx context.Context, in Input) ([]domain.ActionItem, error) {
	prompt, ok := prompts.BuildActions(in.Slots, in.Facts)
	if !ok {
		return []domain.ActionItem{}, nil
	}
	resp, err := o.client.Generate(ctx, llm.GenerateRequest{Task: llm.TaskActions, SystemPrompt: systemPrompt, UserPrompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("generating %s: %w", llm.TaskActions, err)
	}
	payload, err := llm.ExtractJSON[actionsPayload](resp.Text, nil)
	if err != nil {
		return nil, fmt.Errorf("parsing actions: %w", err)
	}
	return bindActions(payload.Actions, prompts.Candidates(in.Slots, in.Facts)), nil
}

func bindActions(raw []actionPayload, cands []prompts.Candidate) []domain.ActionItem {
	type key struct {
		typ domain.ActionType
		id  string
	}
	known := make(map[key]prompts.Candidate, len(cands))
	for _, c := range cands {
		known[key{c.Type, c.EntityID}] = c
	}

	out := []domain.ActionItem{}
	for _, a := range raw {
		c, ok := known[key{domain.ActionType(a.Type), a.EntityID}]
		if !ok {
			continue
		}
		out = append(out, domain.ActionItem{
			Text:       cleanText(a.Text),
			Type:       c.Type,
			EntityType: c.EntityType,
			EntityID:   c.EntityID,
		})
		if len(out) == prompts.MaxActions {
			break
		}
	}
	return out
}

// cleanText strips the wrapping models tend to add around a single
// fragment: surrounding quotes and a leading "Title:" style label.
func cleanText(s string) string {
	s = strings.TrimSpace(s)
	for _, label := range []string{"Title:", "Summary:", "Story:", "Script:", "Audio script:"} {
		if len(s) >= len(label) && strings.EqualFold(s[:len(label)], label) {
			s = strings.TrimSpace(s[len(label):])
		}
	}
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			s = strings.TrimSpace(s[1 : len(s)-1])
		}
	}
	return s
}
