// Package cmd defines the smartwaste command line interface.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tphakala/smartwaste/cmd/classify"
	"github.com/tphakala/smartwaste/cmd/serve"
	"github.com/tphakala/smartwaste/internal/conf"
)

// flagBindings maps persistent flags to their configuration keys.
var flagBindings = map[string]string{
	"debug":   "debug",
	"port":    "webserver.port",
	"model":   "model.path",
	"threads": "model.threads",
}

// RootCommand creates and returns the root command.
func RootCommand(version, buildDate string) *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:           "smartwaste",
		Short:         "Smart waste classification and disposal assistant",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	if err := setupFlags(rootCmd, &configFile); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(serve.Command(), classify.Command())

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		settings, err := conf.LoadFile(configFile)
		if err != nil {
			return err
		}
		settings.Version = version
		settings.BuildDate = buildDate
		return nil
	}

	return rootCmd
}

// setupFlags defines flags that are global to the command line interface and
// binds them to viper so they take precedence over the config file.
func setupFlags(rootCmd *cobra.Command, configFile *string) error {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(configFile, "config", "c", "", "Path to config file")
	flags.BoolP("debug", "d", false, "Enable debug output")
	flags.String("port", "", "Web server port")
	flags.String("model", "", "Path to the TFLite model")
	flags.Int("threads", 0, "Interpreter threads, 0 for automatic")

	for name, key := range flagBindings {
		if err := viper.BindPFlag(key, flags.Lookup(name)); err != nil {
			return fmt.Errorf("error binding flag %s: %w", name, err)
		}
	}
	return nil
}
