package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newDescribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe <file>",
		Short: "Show the schema and legal operations of a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, svc, cleanup, err := openLocalSession(cmd, args[0])
			if err != nil {
				return err
			}
			defer cleanup()

			info, err := svc.Info(taskID)
			if err != nil {
				return err
			}
			options, err := svc.Options(cmd.Context(), taskID)
			if err != nil {
				return err
			}

			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, map[string]interface{}{
					"session": info,
					"options": options,
				})
			}

			fmt.Fprintf(os.Stdout, "%s: table %s, %d rows\n\n", info.Filename, info.TableName, info.RowCount)

			columns := []string{"COLUMN", "TYPE", "FIELD TYPE", "DEFAULT", "OPERATIONS"}
			rows := make([][]interface{}, len(options))
			for i, opt := range options {
				ops := make([]string, len(opt.Operations))
				for j, op := range opt.Operations {
					ops[j] = string(op)
				}
				rows[i] = []interface{}{opt.Column, opt.Type, opt.FieldType, opt.Default, strings.Join(ops, ",")}
			}
			return printTable(os.Stdout, columns, rows)
		},
	}
}
