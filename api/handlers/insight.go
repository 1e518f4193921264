package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/StephaneWamba/genai-data-insights-platform/api"
	"github.com/StephaneWamba/genai-data-insights-platform/pipeline"
	"github.com/StephaneWamba/genai-data-insights-platform/repository"
	"github.com/StephaneWamba/genai-data-insights-platform/types"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// InsightHandler exposes the Pipeline Orchestrator and Query Repository over
// HTTP: the single question-in, insights-out surface the rest of the
// pipeline exists to serve.
type InsightHandler struct {
	orchestrator *pipeline.Orchestrator
	repo         *repository.Repository
	logger       *zap.Logger
}

func NewInsightHandler(orchestrator *pipeline.Orchestrator, repo *repository.Repository, logger *zap.Logger) *InsightHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InsightHandler{
		orchestrator: orchestrator,
		repo:         repo,
		logger:       logger.With(zap.String("component", "insight_handler")),
	}
}

// HandleProcess handles POST /v1/questions: it runs a question through the
// full pipeline and returns the resulting envelope.
func (h *InsightHandler) HandleProcess(w http.ResponseWriter, r *http.Request) {
	if !ValidateContentType(w, r, h.logger) {
		return
	}

	var req api.ProcessQuestionRequest
	if err := DecodeJSONBody(w, r, &req, h.logger); err != nil {
		return
	}

	envelope, verr := h.orchestrator.Process(r.Context(), req.QueryText, req.UserID)
	if verr != nil {
		WriteError(w, verr, h.logger)
		return
	}

	WriteSuccess(w, envelope)
}

// HandleGet handles GET /v1/questions/{id}.
func (h *InsightHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		WriteErrorMessage(w, http.StatusBadRequest, types.ErrCodeValidation, "id must be a positive integer", h.logger)
		return
	}

	question, ok := h.repo.Get(r.Context(), id)
	if !ok {
		WriteErrorMessage(w, http.StatusNotFound, types.ErrCodeValidation, "question not found", h.logger)
		return
	}

	WriteSuccess(w, question)
}

// HandleList handles GET /v1/questions?offset=&limit=.
func (h *InsightHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	offset := parseIntParam(r, "offset", 0)
	limit := parseIntParam(r, "limit", defaultListLimit)
	if limit <= 0 || limit > maxListLimit {
		limit = defaultListLimit
	}

	questions := h.repo.List(r.Context(), offset, limit)
	summaries := make([]api.QuestionSummary, 0, len(questions))
	for _, q := range questions {
		summaries = append(summaries, api.QuestionSummary{
			ID: q.ID, Text: q.Text, UserID: q.UserTag, Processed: q.Processed, CreatedAt: q.CreatedAt,
		})
	}

	WriteSuccess(w, api.QuestionListResponse{Questions: summaries, Offset: offset, Limit: limit})
}

// HandleInsights handles GET /v1/questions/{id}/insights.
func (h *InsightHandler) HandleInsights(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		WriteErrorMessage(w, http.StatusBadRequest, types.ErrCodeValidation, "id must be a positive integer", h.logger)
		return
	}

	if _, ok := h.repo.Get(r.Context(), id); !ok {
		WriteErrorMessage(w, http.StatusNotFound, types.ErrCodeValidation, "question not found", h.logger)
		return
	}

	WriteSuccess(w, h.repo.InsightsFor(r.Context(), id))
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		if err == nil {
			return 0, strconv.ErrRange
		}
		return 0, err
	}
	return id, nil
}

func parseIntParam(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
