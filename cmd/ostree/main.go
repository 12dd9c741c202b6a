// Command ostree builds order statistic red-black trees from the command line, answers rank and select queries on them and
// measures their shape.
package main

import (
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.WithError(err).Error("cannot execute command")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	rootCmd := &cobra.Command{
		Use:   "ostree",
		Short: "order statistic red-black tree tool",

		// SilenceUsage is an option to silence usage when an error occurs.
		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd, v)
		},
	}
	rootCmd.PersistentFlags().Bool("debug", false, "debug flag")
	rootCmd.PersistentFlags().String("config", "", "config file")
	rootCmd.PersistentFlags().Bool("no-color", false, "don't color the tree dump")

	rootCmd.AddCommand(newQueryCmd(v), newMeasureCmd(v))
	return rootCmd
}

// setup binds the flags of the command being run into v, loads the config file if one is given, and configures logging.
func setup(cmd *cobra.Command, v *viper.Viper) error {
	v.SetEnvPrefix("ostree")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.InheritedFlags()); err != nil {
		return errors.Wrap(err, "failed to bind persistent flags")
	}
	if err := v.BindPFlags(cmd.LocalFlags()); err != nil {
		return errors.Wrap(err, "failed to bind local flags")
	}

	if cfg := v.GetString("config"); cfg != "" {
		v.SetConfigFile(cfg)
		if err := v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "failed to load config file %s", cfg)
		}
	}

	log.SetFormatter(&prefixed.TextFormatter{FullTimestamp: true})
	log.SetOutput(cmd.ErrOrStderr())
	if v.GetBool("debug") {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
	if v.GetBool("no-color") {
		color.NoColor = true
	}
	return nil
}
