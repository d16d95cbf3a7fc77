package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-vhs/params"
)

var defaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Print the default settings as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := loadSettings()
		if err != nil {
			return err
		}
		out, err := params.Marshal(s)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

var paramsCmd = &cobra.Command{
	Use:   "params",
	Short: "List every option with its alias, default and range",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := loadSettings()
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "KEY\tALIAS\tKIND\tDEFAULT\tRANGE\tVALUE")
		for _, e := range params.Entries() {
			alias := e.Alias
			if alias == "" {
				alias = "-"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%g\t[%g, %g]\t%v\n",
				e.Key, alias, e.Kind, e.Default, e.Min, e.Max, e.Value(s))
		}
		return tw.Flush()
	},
}
