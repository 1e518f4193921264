// Package repository implements the Query Repository: durable,
// transactional storage for Questions and their Insights over a gorm-backed
// metadata store. When no metadata store is configured, Repository degrades
// to an in-memory store rather than failing startup.
package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/StephaneWamba/genai-data-insights-platform/internal/database"
	"github.com/StephaneWamba/genai-data-insights-platform/types"
)

// questionModel is the gorm row for the questions table.
type questionModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	Text      string    `gorm:"column:text"`
	UserID    string    `gorm:"column:user_id"`
	Processed bool      `gorm:"column:processed"`
	Response  string    `gorm:"column:response"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (questionModel) TableName() string { return "questions" }

func (m questionModel) toQuestion() types.Question {
	return types.Question{
		ID:        m.ID,
		Text:      m.Text,
		UserTag:   m.UserID,
		Processed: m.Processed,
		Response:  m.Response,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// insightModel is the gorm row for the insights table. Slice fields are
// stored as strings joined with listSeparator (the \x1f unit separator) —
// the metadata store has no array column
// type portable across the postgres/sqlite dialects this module targets.
type insightModel struct {
	ID              int64     `gorm:"column:id;primaryKey"`
	QuestionID      int64     `gorm:"column:question_id"`
	Title           string    `gorm:"column:title"`
	Description     string    `gorm:"column:description"`
	Category        string    `gorm:"column:category"`
	ConfidenceScore float64   `gorm:"column:confidence_score"`
	ActionItems     string    `gorm:"column:action_items"`
	DataEvidence    string    `gorm:"column:data_evidence"`
	DataSources     string    `gorm:"column:data_sources"`
	CreatedAt       time.Time `gorm:"column:created_at"`
}

func (insightModel) TableName() string { return "insights" }

func (m insightModel) toInsight() types.Insight {
	return types.Insight{
		ID:           m.ID,
		QuestionID:   m.QuestionID,
		Title:        m.Title,
		Description:  m.Description,
		Category:     types.InsightCategory(m.Category),
		Confidence:   m.ConfidenceScore,
		ActionItems:  splitNonEmpty(m.ActionItems),
		DataEvidence: splitNonEmpty(m.DataEvidence),
		DataSources:  toDataSourceTags(splitNonEmpty(m.DataSources)),
		CreatedAt:    m.CreatedAt,
	}
}

// listSeparator joins/splits the string-slice fields the metadata store has
// no portable array column for (action items, data evidence, data sources).
const listSeparator = "\x1f"

func joinList(items []string) string { return strings.Join(items, listSeparator) }

func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, listSeparator)
}

func toDataSourceTags(raw []string) []types.DataSourceTag {
	if raw == nil {
		return nil
	}
	out := make([]types.DataSourceTag, 0, len(raw))
	for _, r := range raw {
		out = append(out, types.DataSourceTag(r))
	}
	return out
}

// QueryRecorder receives every metadata-store operation's duration for
// process-wide metrics. A nil QueryRecorder disables forwarding.
type QueryRecorder interface {
	ObserveMetadataQuery(operation string, seconds float64)
}

// Repository stores Questions and their Insights.
type Repository struct {
	pool     *database.Pool // nil => in-memory fallback
	recorder QueryRecorder
	logger   *zap.Logger

	mu     sync.Mutex
	memQ   map[int64]types.Question
	memI   map[int64][]types.Insight
	nextID int64
}

func New(pool *database.Pool, recorder QueryRecorder, logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{
		pool:     pool,
		recorder: recorder,
		logger:   logger.With(zap.String("component", "repository")),
		memQ:     make(map[int64]types.Question),
		memI:     make(map[int64][]types.Insight),
	}
}

// observe reports one operation's elapsed time. Only paths that reach the
// metadata store record; the in-memory fallback is not a metadata query.
func (r *Repository) observe(operation string, start time.Time) {
	if r.recorder != nil {
		r.recorder.ObserveMetadataQuery(operation, time.Since(start).Seconds())
	}
}

// Create persists a new Question with processed=false.
func (r *Repository) Create(ctx context.Context, text, userTag string) (types.Question, error) {
	now := time.Now()
	if r.pool == nil {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.nextID++
		q := types.Question{ID: r.nextID, Text: text, UserTag: userTag, CreatedAt: now, UpdatedAt: now}
		r.memQ[q.ID] = q
		return q, nil
	}

	defer r.observe("create", now)
	row := questionModel{Text: text, UserID: userTag, CreatedAt: now, UpdatedAt: now}
	if err := r.pool.DB().WithContext(ctx).Create(&row).Error; err != nil {
		return types.Question{}, fmt.Errorf("repository: create question: %w", err)
	}
	return row.toQuestion(), nil
}

// MarkProcessed sets processed=true and the response summary.
func (r *Repository) MarkProcessed(ctx context.Context, id int64, summary string) error {
	now := time.Now()
	if r.pool == nil {
		r.mu.Lock()
		defer r.mu.Unlock()
		q, ok := r.memQ[id]
		if !ok {
			return fmt.Errorf("repository: question %d not found", id)
		}
		q.Processed = true
		q.Response = summary
		q.UpdatedAt = now
		r.memQ[id] = q
		return nil
	}

	defer r.observe("mark_processed", time.Now())
	return r.pool.DB().WithContext(ctx).Model(&questionModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"processed": true, "response": summary, "updated_at": now}).Error
}

// Get retrieves a Question by id.
func (r *Repository) Get(ctx context.Context, id int64) (types.Question, bool) {
	if r.pool == nil {
		r.mu.Lock()
		defer r.mu.Unlock()
		q, ok := r.memQ[id]
		return q, ok
	}

	defer r.observe("get", time.Now())
	var row questionModel
	if err := r.pool.DB().WithContext(ctx).First(&row, id).Error; err != nil {
		return types.Question{}, false
	}
	return row.toQuestion(), true
}

// List returns a page of Questions, newest first.
func (r *Repository) List(ctx context.Context, offset, limit int) []types.Question {
	if r.pool == nil {
		r.mu.Lock()
		defer r.mu.Unlock()
		all := make([]types.Question, 0, len(r.memQ))
		for _, q := range r.memQ {
			all = append(all, q)
		}
		sortQuestionsNewestFirst(all)
		return paginate(all, offset, limit)
	}

	defer r.observe("list", time.Now())
	var rows []questionModel
	if err := r.pool.DB().WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&rows).Error; err != nil {
		r.logger.Warn("list questions failed", zap.Error(err))
		return nil
	}
	out := make([]types.Question, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toQuestion())
	}
	return out
}

// StoreInsights batch-inserts insights for a question, all-or-nothing.
func (r *Repository) StoreInsights(ctx context.Context, questionID int64, insights []types.Insight) error {
	if r.pool == nil {
		r.mu.Lock()
		defer r.mu.Unlock()
		stored := make([]types.Insight, len(insights))
		copy(stored, insights)
		for i := range stored {
			stored[i].QuestionID = questionID
		}
		r.memI[questionID] = stored
		return nil
	}

	defer r.observe("store_insights", time.Now())
	rows := make([]insightModel, 0, len(insights))
	for _, in := range insights {
		rows = append(rows, insightModel{
			QuestionID:      questionID,
			Title:           in.Title,
			Description:     in.Description,
			Category:        string(in.Category),
			ConfidenceScore: in.Confidence,
			ActionItems:     joinList(in.ActionItems),
			DataEvidence:    joinList(in.DataEvidence),
			DataSources:     joinList(dataSourcesToStrings(in.DataSources)),
			CreatedAt:       time.Now(),
		})
	}
	return r.pool.WithTransaction(ctx, func(tx *gorm.DB) error {
		return tx.Create(&rows).Error
	})
}

// InsightsFor returns every Insight stored for a question.
func (r *Repository) InsightsFor(ctx context.Context, questionID int64) []types.Insight {
	if r.pool == nil {
		r.mu.Lock()
		defer r.mu.Unlock()
		return append([]types.Insight(nil), r.memI[questionID]...)
	}

	defer r.observe("insights_for", time.Now())
	var rows []insightModel
	if err := r.pool.DB().WithContext(ctx).Where("question_id = ?", questionID).Find(&rows).Error; err != nil {
		r.logger.Warn("insights_for failed", zap.Error(err))
		return nil
	}
	out := make([]types.Insight, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toInsight())
	}
	return out
}

func dataSourcesToStrings(tags []types.DataSourceTag) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, string(t))
	}
	return out
}

func sortQuestionsNewestFirst(qs []types.Question) {
	for i := 1; i < len(qs); i++ {
		for j := i; j > 0 && qs[j].CreatedAt.After(qs[j-1].CreatedAt); j-- {
			qs[j], qs[j-1] = qs[j-1], qs[j]
		}
	}
}

func paginate(qs []types.Question, offset, limit int) []types.Question {
	if offset >= len(qs) {
		return nil
	}
	end := offset + limit
	if end > len(qs) {
		end = len(qs)
	}
	return qs[offset:end]
}
