package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stephnangue/lcadmin/cmd/helpers"
	"github.com/stephnangue/lcadmin/cmd/loginmethods"
	"github.com/stephnangue/lcadmin/cmd/oauth2clients"
	"github.com/stephnangue/lcadmin/config"
)

var (
	flagConfig    string
	flagLogLevel  string
	flagLogFormat string

	lcadminCmd = &cobra.Command{
		Use:   "lcadmin",
		Short: "lcadmin manages login methods on the access platform",
		Long: `lcadmin normalizes login method definitions into the platform's wire
format and creates or updates them, so that managed applications can be
signed in to with basic credentials, tokens, SSO tickets or OAuth2.

The platform is addressed with LCADMIN_ADDR and LCADMIN_TOKEN, or with the
address and token settings of the config file (~/.lcadmin.hcl).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := helpers.Configure(flagConfig, flagLogLevel, flagLogFormat); err != nil {
				return err
			}
			if _, err := helpers.InitMetrics(); err != nil {
				return fmt.Errorf("failed to initialize metrics: %w", err)
			}
			return nil
		},
	}
)

func Execute() {
	err := lcadminCmd.Execute()
	helpers.Logger().Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	lcadminCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to the lcadmin config file (default "+config.DefaultPath+")")
	lcadminCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: trace, debug, info, warn or error")
	lcadminCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "Log format: default or json")

	lcadminCmd.AddCommand(loginmethods.LoginMethodsCmd)
	lcadminCmd.AddCommand(oauth2clients.OAuth2ClientsCmd)
}
