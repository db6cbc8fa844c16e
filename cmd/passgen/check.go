package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/edgeflare/passgen/pkg/passgen"
	"github.com/spf13/cobra"
)

var errMissingClasses = errors.New("password is missing required classes")

func newCheckCmd(c *cli) *cobra.Command {
	var require []string

	cmd := &cobra.Command{
		Use:   "check [password]",
		Short: "Check that a password contains the required character classes",
		Long: `Check reports the character classes found in a password and fails when one of
the required classes is missing. The password is read from the first line of
stdin when no argument is given. Without --require, the classes enabled in the
generator config are required.`,
		Example: `  passgen check 'aB3$xyz'
  echo hunter2 | passgen check --require lower,digits`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			required := c.cfg.Generator.Request().Classes()
			if len(require) > 0 {
				var err error
				if required, err = parseClasses(require); err != nil {
					return err
				}
			}

			password, err := readPassword(cmd, args)
			if err != nil {
				return err
			}

			present := passgen.Classes(password)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "classes: %s\n", present)
			if missing := required &^ present; missing != 0 {
				fmt.Fprintf(out, "missing: %s\n", missing)
				return fmt.Errorf("%w: %s", errMissingClasses, missing)
			}
			fmt.Fprintln(out, "ok")
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&require, "require", "r", nil, "required classes (lower, upper, digits, symbols)")
	return cmd
}

func parseClasses(names []string) (passgen.ClassSet, error) {
	var set passgen.ClassSet
	for _, name := range names {
		class, err := passgen.ParseClass(strings.TrimSpace(name))
		if err != nil {
			return 0, err
		}
		set = set.With(class)
	}
	return set, nil
}

func readPassword(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	scanner := bufio.NewScanner(cmd.InOrStdin())
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return "", errors.New("no password given")
	}
	return strings.TrimRight(scanner.Text(), "\r"), nil
}
