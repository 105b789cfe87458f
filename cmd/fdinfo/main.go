// Command fdinfo prints the header and parameter inventory of a flight data
// container.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
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
	return &cobra.Command{
		Use:           "fdinfo file",
		Short:         "Show the contents of a flight data container",
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			return describe(out, args[0])
		},
	}
}

func describe(out io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s - %w", path, err)
	}
	defer f.Close()

	dec := fdc.NewDecoder(f)
	if err := dec.ReadAll(); err != nil {
		return fmt.Errorf("failed to read %s - %w", path, err)
	}

	hdr := dec.Header
	fmt.Fprintf(out, "Recording: %s\n", hdr.RecordingID)
	fmt.Fprintf(out, "Tail:      %s\n", hdr.Tail)
	fmt.Fprintf(out, "Duration:  %gs\n", hdr.Duration)
	fmt.Fprintf(out, "Version:   %d\n", hdr.Version)

	if len(dec.Parameters) == 0 {
		fmt.Fprintln(out, "No parameters.")

		return nil
	}

	fmt.Fprintln(out, renderParameterTable(dec.Parameters))

	return nil
}

func renderParameterTable(params []*fdc.Parameter) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Name", "Frequency", "Offset", "Units", "Samples", "Masked"})

	for _, p := range params {
		tw.AppendRow(table.Row{
			p.Name,
			fmt.Sprintf("%g Hz", p.Frequency),
			fmt.Sprintf("%g s", p.Offset),
			p.Units,
			len(p.Samples),
			p.MaskedCount(),
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})

	return tw.Render()
}
