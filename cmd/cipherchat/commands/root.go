package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"cipherchat/internal/app"
)

var (
	v          *viper.Viper
	configFile string
)

func Execute() error {
	v = app.NewViper(app.ClientConfigName, app.ClientEnvPrefix)
	app.SetClientDefaults(v)

	root := &cobra.Command{
		Use:           "cipherchat",
		Short:         "End-to-end encrypted chat over a blind relay",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configFile != "" {
				v.SetConfigFile(configFile)
			}
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file (default ./cipherchat.yaml)")
	pf.String("relay", "", "relay base URL (e.g. http://127.0.0.1:8080)")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-format", "", "log format: console or json")
	_ = v.BindPFlag("relay_url", pf.Lookup("relay"))
	_ = v.BindPFlag("log_level", pf.Lookup("log-level"))
	_ = v.BindPFlag("log_format", pf.Lookup("log-format"))

	root.AddCommand(chatCmd(), fingerprintCmd())
	return root.Execute()
}
