package analyze

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"quackview/internal/analysis"
	"quackview/internal/domain"
)

// quickConcurrency caps how many per-column averages run at once.
const quickConcurrency = 4

// QuickColumn is one column's quick-analysis outcome.
type QuickColumn struct {
	Column string      `json:"column"`
	Value  interface{} `json:"value"`
	SQL    string      `json:"sql"`
}

// QuickAnalysis computes the average of every numeric column concurrently.
// Columns whose query fails are skipped with a warning rather than failing
// the whole call. Results come back in schema order.
func (s *Service) QuickAnalysis(ctx context.Context, taskID string) ([]QuickColumn, error) {
	sess, err := s.sessions.Get(taskID)
	if err != nil {
		return nil, err
	}

	var numeric []domain.ColumnInfo
	for _, col := range sess.Schema.Columns {
		if analysis.Classify(col.Type) == domain.FieldNumeric {
			numeric = append(numeric, col)
		}
	}

	results := make([]*QuickColumn, len(numeric))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(quickConcurrency)

	for i, col := range numeric {
		g.Go(func() error {
			req := &domain.AnalysisRequest{
				Operations: []domain.AnalysisOperation{
					{Column: col.Name, Operation: domain.OpAvg},
				},
			}
			validated, err := analysis.Validate(sess.Schema, req)
			if err != nil {
				return err
			}
			compiled := analysis.Compile(sess.TableName, validated)

			start := time.Now()
			rows, err := sess.Exec.Query(gctx, compiled.SQL)
			s.record(gctx, sess.TaskID, kindQuick, compiled.SQL, time.Since(start), rowLen(rows), err)
			if err != nil {
				s.logger.Warn("quick analysis column failed",
					"task_id", sess.TaskID, "column", col.Name, "error", err)
				return nil
			}
			if len(rows.Rows) == 1 && len(rows.Rows[0]) == 1 {
				results[i] = &QuickColumn{Column: col.Name, Value: rows.Rows[0][0], SQL: compiled.SQL}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]QuickColumn, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out, nil
}

func rowLen(rows *domain.QueryRows) int {
	if rows == nil {
		return 0
	}
	return len(rows.Rows)
}
