package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"quackview/internal/domain"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		groupBy []string
		limit   int
		showSQL bool
	)

	cmd := &cobra.Command{
		Use:   "analyze <file> <column:OPERATION> [column:OPERATION ...]",
		Short: "Run analysis operations against a spreadsheet",
		Long: `Run one or more analysis operations against a spreadsheet.

Each operation is given as column:OPERATION, for example:

  quackview analyze sales.csv Price:SUM Quantity:AVG
  quackview analyze sales.csv City:TOP_K
  quackview analyze sales.csv Price:SUM --group-by City --limit 20`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, err := parseOperations(args[1:])
			if err != nil {
				return err
			}

			taskID, svc, cleanup, err := openLocalSession(cmd, args[0])
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := svc.Analyze(cmd.Context(), taskID, &domain.AnalysisRequest{
				Operations: ops,
				GroupBy:    groupBy,
				Limit:      limit,
			})
			if err != nil {
				return err
			}

			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, result)
			}
			if showSQL {
				fmt.Fprintf(os.Stdout, "-- %s\n", result.SQLPreview)
			}
			return printTable(os.Stdout, result.Columns, result.Rows)
		},
	}

	cmd.Flags().StringSliceVar(&groupBy, "group-by", nil, "Columns to group by")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of result rows")
	cmd.Flags().BoolVar(&showSQL, "show-sql", false, "Print the generated SQL before the results")

	return cmd
}

// parseOperations turns column:OPERATION arguments into analysis operations.
// CORRELATION takes its partner as column:CORRELATION:second_column.
func parseOperations(args []string) ([]domain.AnalysisOperation, error) {
	ops := make([]domain.AnalysisOperation, 0, len(args))
	for _, arg := range args {
		parts := strings.SplitN(arg, ":", 3)
		if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("invalid operation %q: expected column:OPERATION", arg)
		}
		op := domain.AnalysisOperation{
			Column:    parts[0],
			Operation: domain.OperationKind(strings.ToUpper(parts[1])),
		}
		if len(parts) == 3 {
			op.SecondColumn = parts[2]
		}
		ops = append(ops, op)
	}
	return ops, nil
}
