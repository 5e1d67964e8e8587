package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tanpawarit/customer-support-api/client"
	logx "github.com/tanpawarit/customer-support-api/pkg/logger"
)

const envPrefix = "SUPPORT_API"

func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:   "supportctl",
		Short: "Client for the Customer Support CrewAI API",
		Long: `supportctl talks to a running customer support API server.
It can check health, read the API information, submit inquiries, and run the
bundled demonstration scripts.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logx.Init(logx.Config{PrettyFormat: true, Debug: v.GetBool("debug")})
		},
	}

	root.PersistentFlags().String("base-url", client.DefaultBaseURL, "base URL of the API server (env SUPPORT_API_BASE_URL)")
	root.PersistentFlags().Duration("timeout", 0, "per-request timeout, 0 disables (env SUPPORT_API_TIMEOUT)")
	root.PersistentFlags().Bool("debug", false, "enable debug logging")
	_ = v.BindPFlags(root.PersistentFlags())

	newClient := func() *client.Client {
		return client.New(v.GetString("base-url"), client.WithTimeout(v.GetDuration("timeout")))
	}

	root.AddCommand(
		newHealthCmd(newClient),
		newInfoCmd(newClient),
		newInquiryCmd(newClient),
		newDemoCmd(newClient),
		newExampleCmd(v),
	)
	return root
}

// clientFactory defers client construction until flags are parsed.
type clientFactory func() *client.Client
