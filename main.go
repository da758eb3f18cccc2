package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"yacs/internal/config"
	"yacs/internal/ui/services/location"
)

// globalFlags override the matching config file settings
type globalFlags struct {
	configPath  string
	department  string
	apiURL      string
	catalogPath string
	debug       bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:           "yacs",
		Short:         "Browse the course catalog and build a conflict-free schedule",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), flags, openTarget{})
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "Config file (default "+config.DefaultDir()+"/config.toml)")
	pf.StringVarP(&flags.department, "department", "d", "", "Department to browse first, e.g. CSCI")
	pf.StringVar(&flags.apiURL, "api", "", "Course API base URL")
	pf.StringVar(&flags.catalogPath, "catalog", "", "Offline catalog CSV, used instead of the API")
	pf.BoolVar(&flags.debug, "debug", false, "Log at debug level")

	cmd.AddCommand(newOpenCmd(flags), newExportCmd(flags), newConfigCmd(flags))
	return cmd
}

func newOpenCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "open <permalink>",
		Short: "Open a saved selection from its permalink",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, values, err := location.Parse(args[0])
			if err != nil {
				return err
			}
			return runTUI(cmd.Context(), flags, openTarget{id: id, values: values})
		},
	}
}

func newExportCmd(flags *globalFlags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the current semester's courses as catalog CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}
			return runExport(cmd.Context(), flags, w)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "-", "Output file, - for stdout")
	return cmd
}

func newConfigCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := config.NewConfigService(flags.configPath)
			if _, err := os.Stat(svc.Path()); err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s (not created, run 'yacs config init')\n", svc.Path())
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), svc.Path())
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := config.NewConfigService(flags.configPath)
			if _, err := os.Stat(svc.Path()); err == nil {
				return fmt.Errorf("config file already exists: %s", svc.Path())
			}
			if err := svc.Save(config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Wrote", svc.Path())
			return nil
		},
	})
	return cmd
}
