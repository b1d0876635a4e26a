package insight

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"shopsmart/api/gemini"
	"shopsmart/api/metrics"
	"shopsmart/api/models"
)

const responseMIMEType = "application/json"

// Generator is the external text-generation service.
type Generator interface {
	GenerateContent(ctx context.Context, req gemini.GenerateRequest) (string, error)
}

// Requestor turns an event log into an Insight. It never returns an error:
// every failure becomes models.ErrorInsight.
type Requestor struct {
	gen    Generator
	model  string
	loc    *time.Location
	logger *slog.Logger
}

type Option func(*Requestor)

// WithLocation sets the zone used for event times in the prompt.
func WithLocation(loc *time.Location) Option {
	return func(r *Requestor) {
		if loc != nil {
			r.loc = loc
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Requestor) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func NewRequestor(gen Generator, model string, opts ...Option) *Requestor {
	r := &Requestor{
		gen:    gen,
		model:  model,
		loc:    time.Local,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Analyze asks the model for an insight over events. An empty log short-circuits
// to models.NoDataInsight without contacting the service.
func (r *Requestor) Analyze(ctx context.Context, events []models.Event) models.Insight {
	if len(events) == 0 {
		metrics.InsightRequests.WithLabelValues(metrics.OutcomeNoData).Inc()
		return models.NoDataInsight()
	}

	ctx, span := otel.Tracer("shopsmart/api/insight").Start(ctx, "insight.Analyze")
	defer span.End()
	span.SetAttributes(
		attribute.Int("events.count", len(events)),
		attribute.String("gemini.model", r.model),
	)

	req := gemini.GenerateRequest{
		Model:            r.model,
		Prompt:           BuildPrompt(FormatEventLog(events, r.loc)),
		ResponseMIMEType: responseMIMEType,
		ResponseSchema:   ResponseSchema(),
	}

	start := time.Now()
	text, err := r.gen.GenerateContent(ctx, req)
	metrics.InsightDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return r.fail(span, "AI analysis failed", err)
	}

	in, err := ParseInsight(text)
	if err != nil {
		return r.fail(span, "AI analysis returned an unusable response", err)
	}

	metrics.InsightRequests.WithLabelValues(metrics.OutcomeSuccess).Inc()
	r.logger.Info("AI analysis completed", "events", len(events), "persona", in.UserPersona)
	return in
}

func (r *Requestor) fail(span trace.Span, msg string, err error) models.Insight {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	metrics.InsightRequests.WithLabelValues(metrics.OutcomeFallback).Inc()
	r.logger.Error(msg, "error", err)
	return models.ErrorInsight()
}
