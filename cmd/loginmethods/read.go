package loginmethods

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stephnangue/lcadmin/cmd/helpers"
)

var ReadCmd = newReadCmd()

func newReadCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:           "read <name>",
		Short:         "Read a login method",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRead(cmd, format, args[0])
		},
	}
	cmd.Flags().StringVar(&format, "format", helpers.FormatTable, "Output format (table or json)")
	return cmd
}

func runRead(cmd *cobra.Command, format, name string) error {
	if err := helpers.ValidateFormat(format); err != nil {
		return err
	}

	c, err := helpers.Client()
	if err != nil {
		return err
	}

	method, err := c.LoginMethods().ReadWithContext(cmd.Context(), name)
	if err != nil {
		return fmt.Errorf("error reading login method %s: %w", name, err)
	}
	method = helpers.MaskLoginMethod(method)

	if strings.EqualFold(format, helpers.FormatJSON) {
		return helpers.WriteJSON(cmd.OutOrStdout(), method)
	}

	helpers.PrintKeyValue(cmd.OutOrStdout(),
		[][]any{
			{"Name", method.Name},
			{"Description", method.Description},
			{"Type", method.LoginMethodType},
			{"Source", method.Source},
			{"Target", method.Target},
		},
		helpers.Section{Title: "Source Configuration", Values: method.SourceConfiguration},
		helpers.Section{Title: "Target Configuration", Values: method.TargetConfiguration},
	)
	return nil
}
