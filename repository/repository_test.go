package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/StephaneWamba/genai-data-insights-platform/types"
)

func newInMemoryRepo() *Repository {
	return New(nil, nil, zap.NewNop())
}

func TestCreateAssignsIDAndTimestamps(t *testing.T) {
	repo := newInMemoryRepo()
	ctx := context.Background()

	q, err := repo.Create(ctx, "why are sales down", "user-1")
	require.NoError(t, err)
	assert.NotZero(t, q.ID)
	assert.Equal(t, "why are sales down", q.Text)
	assert.False(t, q.Processed)
	assert.False(t, q.CreatedAt.IsZero())
}

func TestCreateIndependentQuestionsGetDistinctIDs(t *testing.T) {
	repo := newInMemoryRepo()
	ctx := context.Background()

	q1, _ := repo.Create(ctx, "question one", "")
	q2, _ := repo.Create(ctx, "question two", "")
	assert.NotEqual(t, q1.ID, q2.ID)
}

func TestMarkProcessedSetsResponseAndFlag(t *testing.T) {
	repo := newInMemoryRepo()
	ctx := context.Background()
	q, _ := repo.Create(ctx, "why", "")

	require.NoError(t, repo.MarkProcessed(ctx, q.ID, "summary text"))

	got, ok := repo.Get(ctx, q.ID)
	require.True(t, ok)
	assert.True(t, got.Processed)
	assert.Equal(t, "summary text", got.Response)
}

func TestMarkProcessedUnknownQuestionErrors(t *testing.T) {
	repo := newInMemoryRepo()
	err := repo.MarkProcessed(context.Background(), 999, "x")
	assert.Error(t, err)
}

func TestGetMissingQuestion(t *testing.T) {
	repo := newInMemoryRepo()
	_, ok := repo.Get(context.Background(), 123)
	assert.False(t, ok)
}

func TestListNewestFirstWithPagination(t *testing.T) {
	repo := newInMemoryRepo()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		repo.Create(ctx, "q", "")
	}

	page := repo.List(ctx, 0, 2)
	require.Len(t, page, 2)
	assert.True(t, page[0].ID > page[1].ID || page[0].CreatedAt.Equal(page[1].CreatedAt))
}

func TestStoreAndFetchInsights(t *testing.T) {
	repo := newInMemoryRepo()
	ctx := context.Background()
	q, _ := repo.Create(ctx, "why", "")

	insights := []types.Insight{
		{Title: "t1", Description: "d1", Category: types.InsightTrend, Confidence: 0.7, ActionItems: []string{"a1"}},
		{Title: "t2", Description: "d2", Category: types.InsightSummary, Confidence: 0.5},
	}
	require.NoError(t, repo.StoreInsights(ctx, q.ID, insights))

	got := repo.InsightsFor(ctx, q.ID)
	require.Len(t, got, 2)
	assert.Equal(t, q.ID, got[0].QuestionID)
	assert.Equal(t, "t1", got[0].Title)
}

func TestInsightsForUnknownQuestionReturnsEmpty(t *testing.T) {
	repo := newInMemoryRepo()
	got := repo.InsightsFor(context.Background(), 42)
	assert.Empty(t, got)
}
