package cli

import (
	"os"

	"github.com/spf13/cobra"
)

func newQueryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "query <file> <sql>",
		Short: "Run custom SQL against a spreadsheet",
		Long: `Run a custom SQL statement against a spreadsheet. The table name is
derived from the file name, e.g. sales.csv becomes tbl_sales:

  quackview query sales.csv 'SELECT City, SUM(Price) FROM tbl_sales GROUP BY City'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, svc, cleanup, err := openLocalSession(cmd, args[0])
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := svc.CustomQuery(cmd.Context(), taskID, args[1])
			if err != nil {
				return err
			}

			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, result)
			}
			return printTable(os.Stdout, result.Columns, result.Rows)
		},
	}
}
