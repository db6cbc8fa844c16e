package main

import (
	"fmt"
	"strings"

	"github.com/edgeflare/passgen/pkg/config"
	"github.com/edgeflare/passgen/pkg/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// cli carries state shared by all subcommands of one invocation.
type cli struct {
	v        *viper.Viper
	cfg      *config.Config
	logger   *zap.Logger
	cfgFile  string
	logLevel string
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New(), logger: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:   "passgen",
		Short: "passgen generates passwords that satisfy composition rules",
		Long: `passgen generates random passwords of a given length that contain at least one
character of every selected class (lowercase, uppercase, digits, symbols).
It runs locally, as a REST API server, or as a client of such a server.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.initConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			versionFlag, _ := cmd.Flags().GetBool("version")
			if versionFlag {
				fmt.Fprintln(cmd.OutOrStdout(), config.Version)
				return nil
			}
			// If no subcommand is provided, print help
			return cmd.Help()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&c.cfgFile, "config", util.GetEnvOrDefault("PASSGEN_CONFIG", ""), "config file (default is $HOME/.config/passgen.yaml)")
	pf.StringVarP(&c.logLevel, "log-level", "L", "info", "log at this level (debug, info, warn, error, none)")
	rootCmd.Flags().BoolP("version", "v", false, "Print the version number")

	rootCmd.AddCommand(newGenerateCmd(c), newServeCmd(c), newCheckCmd(c))
	return rootCmd
}

// bindFlags records which viper key each flag of cmd sets. Bindings are
// applied only for the command that runs, so commands may share keys.
func bindFlags(cmd *cobra.Command, bindings map[string]string) {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	for flag, key := range bindings {
		cmd.Annotations[flag] = key
	}
}

func (c *cli) initConfig(cmd *cobra.Command, _ []string) error {
	for flag, key := range cmd.Annotations {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := c.v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("binding flag %s: %w", flag, err)
			}
		}
	}

	cfg, err := config.Load(c.v, c.cfgFile)
	if err != nil {
		return err
	}
	c.cfg = cfg

	logger, err := newLogger(c.logLevel)
	if err != nil {
		return err
	}
	c.logger = logger
	return nil
}

// newLogger builds a production zap logger writing to stderr at level.
// "none" disables logging.
func newLogger(level string) (*zap.Logger, error) {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "none" {
		return zap.NewNop(), nil
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}

	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = zap.NewAtomicLevelAt(lvl)
	zapConfig.OutputPaths = []string{"stderr"}
	return zapConfig.Build()
}
