package service

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// UseCaseEvent is one completed service operation: a decision save, an
// analysis registration, or a transition request. Fields carries the
// operation's identifiers (item_id, issue counts) for correlation.
type UseCaseEvent struct {
	Name      string
	Duration  time.Duration
	Success   bool
	Err       error
	Fields    map[string]any
	StartedAt time.Time
}

// UseCaseObserver receives use-case events. Services emit one event per
// operation, after the transaction settles; observers must not block.
type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

// NoopUseCaseObserver ignores all events. It is the default when main
// wires no log path.
type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

type logUseCaseObserver struct {
	logger *slog.Logger
}

// NewLogUseCaseObserver writes structured use-case events to w, one line
// per operation. Rejected transitions and failed saves log at error level
// so an editor's "why didn't that publish" question is answerable from
// the log alone.
func NewLogUseCaseObserver(w io.Writer) UseCaseObserver {
	if w == nil {
		return NoopUseCaseObserver{}
	}
	return &logUseCaseObserver{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
}

func (o *logUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	attrs := make([]any, 0, 8+len(event.Fields)*2)
	attrs = append(attrs,
		"use_case", event.Name,
		"duration_ms", event.Duration.Milliseconds(),
		"success", event.Success,
	)
	for k, v := range event.Fields {
		attrs = append(attrs, k, v)
	}
	if event.Err != nil {
		attrs = append(attrs, "error", event.Err.Error())
		o.logger.ErrorContext(ctx, "copydesk_use_case", attrs...)
		return
	}
	o.logger.InfoContext(ctx, "copydesk_use_case", attrs...)
}

// useCaseObserverOrNoop picks the first non-nil observer, so service
// constructors can take observers variadically and callers can omit them.
func useCaseObserverOrNoop(observers []UseCaseObserver) UseCaseObserver {
	for _, obs := range observers {
		if obs != nil {
			return obs
		}
	}
	return NoopUseCaseObserver{}
}
