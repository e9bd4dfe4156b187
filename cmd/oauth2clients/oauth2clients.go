package oauth2clients

import (
	"github.com/spf13/cobra"
)

var OAuth2ClientsCmd = &cobra.Command{
	Use:     "oauth2-client",
	Aliases: []string{"oauth2-clients"},
	Short:   "Inspect the external OAuth2 client registry",
}

func init() {
	OAuth2ClientsCmd.AddCommand(ListCmd)
}
