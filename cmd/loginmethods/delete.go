package loginmethods

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stephnangue/lcadmin/cmd/helpers"
)

var DeleteCmd = newDeleteCmd()

func newDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:           "delete <name>",
		Short:         "Delete a login method",
		Long:          `Deletes a login method. Applications using it can no longer be signed in to.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(cmd, force, args[0])
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")
	return cmd
}

func runDelete(cmd *cobra.Command, force bool, name string) error {
	out := cmd.OutOrStdout()

	if !force {
		fmt.Fprintf(out, "WARNING: This will permanently delete login method '%s'\n", name)
		fmt.Fprint(out, "Are you sure? (yes/no): ")
		var response string
		fmt.Fscanln(cmd.InOrStdin(), &response)

		if response != "yes" && response != "y" {
			fmt.Fprintln(out, "Deletion cancelled.")
			return nil
		}
	}

	c, err := helpers.Client()
	if err != nil {
		return err
	}

	output, err := c.LoginMethods().DeleteWithContext(cmd.Context(), name)
	if err != nil {
		return fmt.Errorf("error deleting login method: %w", err)
	}

	fmt.Fprintf(out, "Success! %s\n", output.Message)
	return nil
}
