package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"
)

// UseCaseEvent is the telemetry recorded once per use-case call.
type UseCaseEvent struct {
	Name      string
	Duration  time.Duration
	Success   bool
	Err       error
	Fields    map[string]any
	StartedAt time.Time
}

// UseCaseObserver receives one event per Generate or ImportSchema call.
type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

// NoopUseCaseObserver ignores all events.
type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

type logUseCaseObserver struct {
	logger *slog.Logger
}

// NewLogUseCaseObserver writes one line per use case to w. Skipped teams
// (insufficient data, disabled) are logged at Warn, other failures at Error.
func NewLogUseCaseObserver(w io.Writer) UseCaseObserver {
	if w == nil {
		return NoopUseCaseObserver{}
	}
	return &logUseCaseObserver{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
}

func (o *logUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	attrs := make([]any, 0, 6+len(event.Fields)*2)
	attrs = append(attrs,
		"use_case", event.Name,
		"duration_ms", event.Duration.Milliseconds(),
		"success", event.Success,
	)
	for k, v := range event.Fields {
		attrs = append(attrs, k, v)
	}
	switch {
	case event.Err == nil:
		o.logger.InfoContext(ctx, "use_case", attrs...)
	case IsSkip(event.Err):
		o.logger.WarnContext(ctx, "use_case", append(attrs, "skipped", event.Err.Error())...)
	default:
		o.logger.ErrorContext(ctx, "use_case", append(attrs, "error", event.Err.Error())...)
	}
}

// IsSkip reports errors that mean "nothing to do for this team" rather
// than a failure.
func IsSkip(err error) bool {
	return errors.Is(err, ErrInsufficientData) || errors.Is(err, ErrInsightsDisabled)
}

func useCaseObserverOrNoop(observers []UseCaseObserver) UseCaseObserver {
	for _, obs := range observers {
		if obs != nil {
			return obs
		}
	}
	return NoopUseCaseObserver{}
}
