package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/outlint/internal/check"
	"github.com/roach88/outlint/internal/testutil"
)

func deterministicStore(t *testing.T) *Store {
	t.Helper()
	return createTestStore(t,
		WithIDGenerator(testutil.NewSequentialIDGenerator("report")),
		WithClock(testutil.NewDeterministicClock()),
	)
}

func failingReport(t *testing.T) Report {
	t.Helper()
	result := []any{map[string]any{"text": "An item without id"}}
	r := check.NewRunner().Evaluate(testutil.TriggerMethod("key"), result, nil, check.Bundle{})
	require.False(t, r.Passed())
	return FromCheck(r, result)
}

func passingReport(t *testing.T, method string) Report {
	t.Helper()
	result := []any{map[string]any{"id": 1}}
	r := check.NewRunner().Evaluate(method, result, nil, check.Bundle{})
	require.True(t, r.Passed())
	return FromCheck(r, result)
}

func TestFromCheck(t *testing.T) {
	r := failingReport(t)

	assert.Equal(t, "triggers.key.operation.perform", r.Method)
	assert.Equal(t, "trigger", r.Kind)
	assert.False(t, r.Passed)
	assert.Equal(t, `[{"text":"An item without id"}]`, r.Result)
	require.Len(t, r.Messages(), 1)
	assert.Contains(t, r.Messages()[0], `missing the "id"`)
}

func TestRecordReport_RoundTrip(t *testing.T) {
	s := deterministicStore(t)
	ctx := context.Background()

	id, err := s.RecordReport(ctx, failingReport(t))
	require.NoError(t, err)
	assert.Equal(t, "report-0001", id)

	got, err := s.GetReport(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, id, got.ID)
	assert.Equal(t, int64(1), got.Seq)
	assert.Equal(t, testutil.Epoch, got.RecordedAt)
	assert.False(t, got.Passed)
	assert.Equal(t, failingReport(t).Outcomes, got.Outcomes)
}

func TestRecordReport_PreservesMessageText(t *testing.T) {
	s := deterministicStore(t)
	ctx := context.Background()

	msg := "Got two or more results with primary key of `{\"a\":\"<b>&\"}`, but the primary key must be unique."
	id, err := s.RecordReport(ctx, Report{
		Method: "triggers.x.operation.perform",
		Kind:   "trigger",
		Outcomes: []check.Outcome{
			{Rule: "triggerHasUniquePrimary", Status: check.StatusFailed, Messages: []string{msg}},
		},
	})
	require.NoError(t, err)

	got, err := s.GetReport(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{msg}, got.Messages())
}

func TestRecordReport_DefaultUUIDv7(t *testing.T) {
	s := createTestStore(t)

	id, err := s.RecordReport(context.Background(), passingReport(t, "searches.x.operation.perform"))
	require.NoError(t, err)

	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestRecordReport_KeepsGivenID(t *testing.T) {
	s := deterministicStore(t)
	r := failingReport(t)
	r.ID = "custom"

	id, err := s.RecordReport(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, "custom", id)
}

func TestRecordReport_DuplicateID(t *testing.T) {
	s := createTestStore(t, WithIDGenerator(testutil.NewFixedIDGenerator("dup", "dup")))
	ctx := context.Background()

	_, err := s.RecordReport(ctx, failingReport(t))
	require.NoError(t, err)

	_, err = s.RecordReport(ctx, failingReport(t))
	require.Error(t, err)

	// The failed insert leaves nothing behind.
	all, err := s.ListReports(ctx, Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGetReport_NotFound(t *testing.T) {
	s := deterministicStore(t)

	_, err := s.GetReport(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestListReports(t *testing.T) {
	s := deterministicStore(t)
	ctx := context.Background()

	for _, r := range []Report{
		failingReport(t),
		passingReport(t, "triggers.key.operation.perform"),
		passingReport(t, "searches.find.operation.perform"),
		failingReport(t),
	} {
		_, err := s.RecordReport(ctx, r)
		require.NoError(t, err)
	}

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"all newest first", Filter{}, []string{"report-0004", "report-0003", "report-0002", "report-0001"}},
		{"by method", Filter{Method: "triggers.key.operation.perform"}, []string{"report-0004", "report-0002", "report-0001"}},
		{"failed only", Filter{FailedOnly: true}, []string{"report-0004", "report-0001"}},
		{"limit", Filter{Limit: 2}, []string{"report-0004", "report-0003"}},
		{"no match", Filter{Method: "creates.none.operation.perform"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reports, err := s.ListReports(ctx, tt.filter)
			require.NoError(t, err)
			require.NotNil(t, reports)

			ids := []string{}
			for _, r := range reports {
				ids = append(ids, r.ID)
				assert.NotEmpty(t, r.Outcomes, r.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestListReports_RecordedAtFromClock(t *testing.T) {
	s := deterministicStore(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := s.RecordReport(ctx, failingReport(t))
		require.NoError(t, err)
	}

	reports, err := s.ListReports(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, testutil.Epoch.Add(time.Second), reports[0].RecordedAt)
	assert.Equal(t, testutil.Epoch, reports[1].RecordedAt)
}

func TestDeleteReport_CascadesOutcomes(t *testing.T) {
	s := deterministicStore(t)
	ctx := context.Background()

	id, err := s.RecordReport(ctx, failingReport(t))
	require.NoError(t, err)

	require.NoError(t, s.DeleteReport(ctx, id))
	require.NoError(t, s.DeleteReport(ctx, id))

	var count int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM outcomes WHERE report_id = ?", id).Scan(&count))
	assert.Equal(t, 0, count)
}
