// Package pipeline implements the Pipeline Orchestrator: the single
// Process(question-text, user-tag) operation that sequences the cache,
// intent, data-context, insight, and visualization components into a
// ResponseEnvelope.
package pipeline

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/StephaneWamba/genai-data-insights-platform/config"
	"github.com/StephaneWamba/genai-data-insights-platform/datacontext"
	"github.com/StephaneWamba/genai-data-insights-platform/insightgen"
	"github.com/StephaneWamba/genai-data-insights-platform/intent"
	"github.com/StephaneWamba/genai-data-insights-platform/internal/cache"
	"github.com/StephaneWamba/genai-data-insights-platform/repository"
	"github.com/StephaneWamba/genai-data-insights-platform/types"
	"github.com/StephaneWamba/genai-data-insights-platform/visualization"
)

// Orchestrator sequences the full query-to-insight pipeline.
type Orchestrator struct {
	cache    *cache.Adapter
	repo     *repository.Repository
	intent   *intent.Analyzer
	dataCtx  *datacontext.Retriever
	insights *insightgen.Generator
	viz      *visualization.Builder
	logger   *zap.Logger
	tracer   trace.Tracer
}

func New(
	c *cache.Adapter,
	repo *repository.Repository,
	intentAnalyzer *intent.Analyzer,
	dataCtx *datacontext.Retriever,
	insightGen *insightgen.Generator,
	vizBuilder *visualization.Builder,
	logger *zap.Logger,
) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		cache:    c,
		repo:     repo,
		intent:   intentAnalyzer,
		dataCtx:  dataCtx,
		insights: insightGen,
		viz:      vizBuilder,
		logger:   logger.With(zap.String("component", "orchestrator")),
		tracer:   otel.Tracer("pipeline"),
	}
}

// Process runs a question through the full pipeline: validate, consult the
// cache, classify intent, retrieve data context, generate insights, build
// visualizations, persist, cache the envelope. The only way it returns an
// error is an input-validation failure; every component failure along the
// way is absorbed by that component's fallback policy.
func (o *Orchestrator) Process(ctx context.Context, questionText, userTag string) (types.ResponseEnvelope, *types.Error) {
	ctx, span := o.tracer.Start(ctx, "pipeline.process")
	defer span.End()
	start := time.Now()

	if verr := types.ValidateQuestionText(questionText); verr != nil {
		o.logger.Info("process rejected: validation", zap.String("reason", verr.Message))
		return types.ResponseEnvelope{}, verr
	}
	if verr := types.ValidateUserTag(userTag); verr != nil {
		o.logger.Info("process rejected: validation", zap.String("reason", verr.Message))
		return types.ResponseEnvelope{}, verr
	}

	normalized := Normalize(questionText)
	fingerprint := Fingerprint(normalized)
	cacheKey := "query:" + fingerprint

	o.logger.Info("process started",
		zap.String("fingerprint", fingerprint),
		zap.String("user_tag", userTag),
		zap.Int("text_len", len(questionText)),
	)

	var cached types.ResponseEnvelope
	if o.cache.GetJSON(ctx, cacheKey, &cached) {
		now := time.Now()
		cached.CachedAt = &now
		o.logger.Info("process completed", zap.String("fingerprint", fingerprint),
			zap.Bool("cache_hit", true), zap.Duration("elapsed", time.Since(start)))
		return cached, nil
	}

	question, err := o.repo.Create(ctx, questionText, userTag)
	if err != nil {
		o.logger.Warn("metadata store unavailable, continuing with in-memory question", zap.Error(err))
		question = types.Question{ID: 0, Text: questionText, UserTag: userTag, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	}

	classifiedIntent := o.intent.Classify(ctx, questionText, fingerprint)

	dc, summary := o.dataCtx.Retrieve(ctx, questionText, classifiedIntent)

	questionInsights := o.insights.Generate(ctx, questionText, summary)
	recommendations := insightgen.Recommendations(questionInsights)

	visualizations := o.viz.Build(classifiedIntent, dc)

	if question.ID != 0 {
		if err := o.repo.StoreInsights(ctx, question.ID, questionInsights); err != nil {
			o.logger.Warn("persisting insights failed", zap.Int64("question_id", question.ID), zap.Error(err))
		}
		summaryText := "Processed"
		if len(questionInsights) > 0 {
			summaryText = questionInsights[0].Title
		}
		if err := o.repo.MarkProcessed(ctx, question.ID, summaryText); err != nil {
			o.logger.Warn("marking question processed failed", zap.Int64("question_id", question.ID), zap.Error(err))
		} else {
			question.Processed = true
			question.Response = summaryText
		}
	}

	envelope := types.ResponseEnvelope{
		Success:         true,
		Query:           question,
		Intent:          classifiedIntent,
		Insights:        questionInsights,
		Recommendations: recommendations,
		Visualizations:  visualizations,
		ProcessedAt:     time.Now(),
	}

	o.cache.SetJSON(ctx, cacheKey, envelope, config.QueryCacheTTL)

	o.logger.Info("process completed",
		zap.String("fingerprint", fingerprint),
		zap.Bool("cache_hit", false),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("insights", len(questionInsights)),
	)

	return envelope, nil
}
