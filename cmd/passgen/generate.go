package main

import (
	"fmt"
	"strings"

	"github.com/edgeflare/passgen/pkg/passgen"
	"github.com/edgeflare/passgen/pkg/rest"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type generateOptions struct {
	count       int
	interactive bool
	remote      string
	user        string
}

func newGenerateCmd(c *cli) *cobra.Command {
	o := &generateOptions{}

	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "Generate passwords",
		Long: `Generate one or more passwords. Every enabled character class appears at
least once in each password. Defaults come from the generator section of the
config file.`,
		Example: `  passgen generate --length 24 --symbols=false --count 5
  passgen generate --seed 42
  passgen generate --remote http://localhost:8080/v1 --user admin:secret`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runGenerate(cmd, o)
		},
	}

	f := cmd.Flags()
	f.IntP("length", "l", 0, "password length (1-1000)")
	f.Bool("lower", true, "include lowercase letters")
	f.Bool("upper", true, "include uppercase letters")
	f.Bool("digits", true, "include digits")
	f.Bool("symbols", true, "include symbols")
	f.Int("max-attempts", 0, "candidates drawn per password before giving up")
	f.Uint64("seed", 0, "seed for a reproducible sequence of passwords (0 uses crypto/rand)")
	f.IntVarP(&o.count, "count", "c", 1, "number of passwords to generate")
	f.BoolVarP(&o.interactive, "interactive", "i", false, "prompt for options on stdin")
	f.StringVar(&o.remote, "remote", "", "generate on a passgen server at this base URL")
	f.StringVar(&o.user, "user", "", "basic auth credentials for --remote as user:password")

	bindFlags(cmd, map[string]string{
		"length":       "generator.length",
		"lower":        "generator.lower",
		"upper":        "generator.upper",
		"digits":       "generator.digits",
		"symbols":      "generator.symbols",
		"max-attempts": "generator.maxAttempts",
		"seed":         "generator.seed",
	})
	return cmd
}

func (c *cli) runGenerate(cmd *cobra.Command, o *generateOptions) error {
	req := c.cfg.Generator.Request()
	count := o.count
	if o.interactive {
		req, count = promptRequest(cmd.InOrStdin(), cmd.ErrOrStderr(), req, count)
	}

	var (
		passwords []string
		err       error
	)
	if o.remote != "" {
		passwords, err = c.generateRemote(cmd, o, req, count)
	} else {
		opts := append(c.cfg.Generator.Options(), passgen.WithLogger(c.logger))
		passwords, err = passgen.New(opts...).GenerateN(cmd.Context(), req, count)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, pw := range passwords {
		fmt.Fprintln(out, pw)
	}
	return nil
}

func (c *cli) generateRemote(cmd *cobra.Command, o *generateOptions, req passgen.Request, count int) ([]string, error) {
	client := rest.NewClient(o.remote)
	client.Logger = c.logger
	if o.user != "" {
		user, password, ok := strings.Cut(o.user, ":")
		if !ok {
			return nil, fmt.Errorf("--user must be in the form user:password")
		}
		client.Username, client.Password = user, password
	}

	c.logger.Debug("requesting passwords", zap.String("remote", o.remote), zap.Int("count", count))
	return client.Generate(cmd.Context(), req, count)
}
