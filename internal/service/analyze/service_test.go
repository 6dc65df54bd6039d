package analyze

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quackview/internal/domain"
	"quackview/internal/session"
	"quackview/internal/testutil"
)

const salesCSV = "City,Price,Quantity\nOslo,100.5,2\nBergen,50,1\nOslo,25,4\n"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func setupService(t *testing.T) (*Service, string, *testutil.MockHistoryRepo) {
	t.Helper()
	registry := session.NewRegistry(time.Hour, t.TempDir(), testLogger())
	t.Cleanup(registry.CloseAll)

	sess, err := registry.Create(context.Background(), "sales.csv", strings.NewReader(salesCSV))
	require.NoError(t, err)

	history := &testutil.MockHistoryRepo{}
	return NewService(registry, history, testLogger()), sess.TaskID, history
}

func TestAnalyzeEndToEnd(t *testing.T) {
	svc, taskID, history := setupService(t)

	res, err := svc.Analyze(context.Background(), taskID, &domain.AnalysisRequest{
		Operations: []domain.AnalysisOperation{
			{Column: "Price", Operation: domain.OpSum},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, `SELECT SUM("Price") AS sum_Price FROM "tbl_sales"`, res.SQLPreview)
	assert.Equal(t, []string{"sum_Price"}, res.Columns)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, 175.5, res.Rows[0][0])

	entry := history.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "ANALYZE", entry.Kind)
	assert.Equal(t, "OK", entry.Status)
	assert.Equal(t, res.SQLPreview, entry.SQL)
}

func TestAnalyzeTopK(t *testing.T) {
	svc, taskID, _ := setupService(t)

	res, err := svc.Analyze(context.Background(), taskID, &domain.AnalysisRequest{
		Operations: []domain.AnalysisOperation{
			{Column: "City", Operation: domain.OpTopK},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"City", "count"}, res.Columns)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, "Oslo", res.Rows[0][0])
	assert.EqualValues(t, 2, res.Rows[0][1])
}

func TestAnalyzeValidationErrorSkipsEngine(t *testing.T) {
	svc, taskID, history := setupService(t)

	_, err := svc.Analyze(context.Background(), taskID, &domain.AnalysisRequest{
		Operations: []domain.AnalysisOperation{
			{Column: "City", Operation: domain.OpSum},
		},
	})
	require.Error(t, err)
	assert.IsType(t, &domain.UnsupportedOperationError{}, err)
	assert.Empty(t, history.Entries, "nothing should be executed or recorded")
}

func TestAnalyzeUnknownSession(t *testing.T) {
	svc, _, _ := setupService(t)

	_, err := svc.Analyze(context.Background(), "ghost", &domain.AnalysisRequest{
		Operations: []domain.AnalysisOperation{{Column: "Price", Operation: domain.OpSum}},
	})
	assert.IsType(t, &domain.SessionNotFoundError{}, err)
}

func TestCustomQueryPassthrough(t *testing.T) {
	svc, taskID, history := setupService(t)

	res, err := svc.CustomQuery(context.Background(),
		taskID, `SELECT COUNT(*) AS n FROM "tbl_sales" WHERE "City" = 'Oslo'`)
	require.NoError(t, err)
	assert.Equal(t, []string{"n"}, res.Columns)
	assert.EqualValues(t, 2, res.Rows[0][0])
	assert.Equal(t, "CUSTOM", history.LastEntry().Kind)
}

func TestCustomQueryRejectsEmptySQL(t *testing.T) {
	svc, taskID, _ := setupService(t)

	_, err := svc.CustomQuery(context.Background(), taskID, "   \n\t")
	require.Error(t, err)
	assert.IsType(t, &domain.ValidationError{}, err)
}

func TestCustomQueryEngineErrorRecorded(t *testing.T) {
	svc, taskID, history := setupService(t)

	_, err := svc.CustomQuery(context.Background(), taskID, "SELEC broken")
	require.Error(t, err)
	assert.IsType(t, &domain.SQLExecutionError{}, err)

	entry := history.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "ERROR", entry.Status)
	assert.NotEmpty(t, entry.ErrorMsg)
}

func TestOptionsListLegalOperationsPerColumn(t *testing.T) {
	svc, taskID, _ := setupService(t)

	opts, err := svc.Options(context.Background(), taskID)
	require.NoError(t, err)
	require.Len(t, opts, 3)

	assert.Equal(t, "City", opts[0].Column)
	assert.Equal(t, domain.FieldText, opts[0].FieldType)
	assert.Equal(t, domain.OpCount, opts[0].Default)
	assert.Contains(t, opts[0].Operations, domain.OpTopK)
	assert.NotContains(t, opts[0].Operations, domain.OpSum)

	assert.Equal(t, "Price", opts[1].Column)
	assert.Equal(t, domain.FieldNumeric, opts[1].FieldType)
	assert.Equal(t, domain.OpAvg, opts[1].Default)
	assert.Contains(t, opts[1].Operations, domain.OpStddevPop)
}

func TestSessionInfo(t *testing.T) {
	svc, taskID, _ := setupService(t)

	info, err := svc.Info(taskID)
	require.NoError(t, err)
	assert.Equal(t, taskID, info.TaskID)
	assert.Equal(t, "sales.csv", info.Filename)
	assert.Equal(t, "tbl_sales", info.TableName)
	assert.EqualValues(t, 3, info.RowCount)
	assert.Equal(t, 3, info.Columns)
	assert.False(t, info.CreatedAt.IsZero())
}

func TestQuickAnalysisAveragesNumericColumns(t *testing.T) {
	svc, taskID, history := setupService(t)

	cols, err := svc.QuickAnalysis(context.Background(), taskID)
	require.NoError(t, err)
	require.Len(t, cols, 2)

	assert.Equal(t, "Price", cols[0].Column)
	assert.Equal(t, 58.5, cols[0].Value)
	assert.Contains(t, cols[0].SQL, `AVG("Price")`)
	assert.Equal(t, "Quantity", cols[1].Column)

	assert.Len(t, history.Entries, 2)
	assert.Equal(t, "QUICK", history.Entries[0].Kind)
}
