// Command fdstrip copies a subset of named parameters from a flight data
// container into a new file, reporting which of the requested parameters were
// found.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kanav01s/fdc"
)

func main() {
	if err := newRootCommand(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand(out io.Writer) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "fdstrip input_file_path output_file_path parameters [parameters ...]",
		Short:         "Copy named parameters into a new flight data container",
		Long:          "fdstrip reads the container at input_file_path and writes a new container at output_file_path holding only the requested parameters. Requested names missing from the input are skipped, not errors.",
		Args:          cobra.MinimumNArgs(3),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// arguments are valid from here on, so failures are I/O, not usage
			cmd.SilenceUsage = true

			opts := fdc.DefaultStripOptions()

			if configPath != "" {
				var err error

				opts, err = fdc.LoadStripOptions(configPath)
				if err != nil {
					return err
				}
			}

			result, err := fdc.Strip(args[0], args[1], args[2:], opts)
			if err != nil {
				return err
			}

			result.Report(out)

			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a TOML options file")

	return cmd
}
