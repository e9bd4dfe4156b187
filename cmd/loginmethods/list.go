package loginmethods

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stephnangue/lcadmin/api"
	"github.com/stephnangue/lcadmin/cmd/helpers"
)

var ListCmd = newListCmd()

func newListCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List all login methods",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, format)
		},
	}
	cmd.Flags().StringVar(&format, "format", helpers.FormatTable, "Output format (table or json)")
	return cmd
}

func runList(cmd *cobra.Command, format string) error {
	if err := helpers.ValidateFormat(format); err != nil {
		return err
	}

	c, err := helpers.Client()
	if err != nil {
		return err
	}

	methods, err := c.LoginMethods().ListWithContext(cmd.Context())
	if err != nil {
		return fmt.Errorf("error listing login methods: %w", err)
	}

	out := cmd.OutOrStdout()
	if strings.EqualFold(format, helpers.FormatJSON) {
		masked := make([]*api.LoginMethod, 0, len(methods))
		for _, m := range methods {
			masked = append(masked, helpers.MaskLoginMethod(m))
		}
		return helpers.WriteJSON(out, masked)
	}

	if len(methods) == 0 {
		fmt.Fprintln(out, "No login methods found.")
		return nil
	}

	headers := []string{"Name", "Type", "Source", "Target", "Description"}
	data := make([][]any, 0, len(methods))
	for _, m := range methods {
		data = append(data, []any{
			m.Name,
			m.LoginMethodType,
			m.Source,
			m.Target,
			m.Description,
		})
	}

	helpers.PrintTable(out, headers, data)
	return nil
}
