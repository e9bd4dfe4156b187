package loginmethods

import (
	"github.com/spf13/cobra"
)

var LoginMethodsCmd = &cobra.Command{
	Use:     "login-method",
	Aliases: []string{"login-methods", "lm"},
	Short:   "Manage login methods",
	Long: `Create, update, inspect and delete login methods.

A login method tells the platform how a managed application's credentials
are obtained (source) and how they are presented to the application (target).
Four families are supported: Credential, Token, SingleSignOn and DelegatedAuth.`,
}

func init() {
	LoginMethodsCmd.AddCommand(ApplyCmd)
	LoginMethodsCmd.AddCommand(ReadCmd)
	LoginMethodsCmd.AddCommand(ListCmd)
	LoginMethodsCmd.AddCommand(DeleteCmd)
}
