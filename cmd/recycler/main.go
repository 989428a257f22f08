package main

import (
	"fmt"
	"os"
	"runtime"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ajitpratap0/recycler/pkg/json"
	"github.com/ajitpratap0/recycler/pkg/registry"
)

var version = "0.1.0"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load() // Ignore error if .env doesn't exist

	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "recycler",
		Short: "Recycler - policy-driven object pools",
		Long: `Recycler builds bounded, policy-driven object pools from a YAML file and
drives a concurrent rent/return workload against them, reporting hit rates,
latency and throughput.`,
		SilenceUsage: true,
	}

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Recycler v%s\n", version)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	var asJSON bool
	kindsCmd := &cobra.Command{
		Use:   "kinds",
		Short: "List available pool kinds",
		RunE: func(cmd *cobra.Command, _ []string) error {
			kinds := registry.NewRegistry().Kinds()
			if asJSON {
				return json.MarshalToWriter(cmd.OutOrStdout(), kinds)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KIND\tELEMENT\tDESCRIPTION")
			for _, k := range kinds {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", k.Name, k.ElemType, k.Description)
			}
			return tw.Flush()
		},
	}
	kindsCmd.Flags().BoolVar(&asJSON, "json", false, "Print kinds as JSON")
	root.AddCommand(kindsCmd)

	root.AddCommand(newRunCommand(), newServeCommand())
	return root
}
