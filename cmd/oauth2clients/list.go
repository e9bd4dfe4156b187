package oauth2clients

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stephnangue/lcadmin/cmd/helpers"
)

var ListCmd = newListCmd()

func newListCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List the registered OAuth2 clients",
		Long:          `Lists the external OAuth2 clients that DelegatedAuth login methods can reference.`,
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

	clients, err := c.OAuth2Clients().ListWithContext(cmd.Context())
	if err != nil {
		return fmt.Errorf("error listing oauth2 clients: %w", err)
	}

	out := cmd.OutOrStdout()
	if strings.EqualFold(format, helpers.FormatJSON) {
		return helpers.WriteJSON(out, clients)
	}

	if len(clients) == 0 {
		fmt.Fprintln(out, "No oauth2 clients found.")
		return nil
	}

	data := make([][]any, 0, len(clients))
	for _, cl := range clients {
		data = append(data, []any{cl.Name, cl.ClientID, cl.TokenURL})
	}
	helpers.PrintTable(out, []string{"Name", "Client ID", "Token URL"}, data)
	return nil
}
