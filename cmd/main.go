package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/Abraxas-365/hireform/internal/config"
	"github.com/Abraxas-365/hireform/pkg/kernel"
	"github.com/Abraxas-365/hireform/pkg/logx"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "hireform",
		Short:        "Job application form intake service",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, configPath, runServer)
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP API",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withContainer(cmd, configPath, runServer)
			},
		},
		&cobra.Command{
			Use:   "init-store",
			Short: "Create the submission store if it does not exist",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withContainer(cmd, configPath, func(ctx context.Context, c *Container) error {
					if err := c.Repository.Init(ctx); err != nil {
						return err
					}
					logx.Info("Submission store ready")
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "show <submission-id>",
			Short: "Print one stored submission as JSON",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withContainer(cmd, configPath, func(ctx context.Context, c *Container) error {
					submission, err := c.ApplicationService.GetSubmission(ctx, kernel.NewSubmissionID(args[0]))
					if err != nil {
						return err
					}
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(submission)
				})
			},
		},
		newExportCmd(&configPath),
		&cobra.Command{
			Use:   "snapshot",
			Short: "Copy the submission store to the configured snapshot target",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withContainer(cmd, configPath, func(ctx context.Context, c *Container) error {
					path, err := c.SnapshotService.Snapshot(ctx)
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), path)
					return nil
				})
			},
		},
	)

	return root
}

func newExportCmd(configPath *string) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every stored submission as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, *configPath, func(ctx context.Context, c *Container) error {
				var w io.Writer = cmd.OutOrStdout()
				if out != "" && out != "-" {
					f, err := os.Create(out)
					if err != nil {
						return err
					}
					defer f.Close()
					w = f
				}
				return c.ApplicationService.ExportCSV(ctx, w)
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file, - for stdout")
	return cmd
}

// withContainer loads configuration, builds the container and runs fn
func withContainer(cmd *cobra.Command, configPath string, fn func(context.Context, *Container) error) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logx.Configure(cfg.Logging.Level, cfg.Logging.Format)
	defer logx.Sync()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	container, err := NewContainer(ctx, cfg)
	if err != nil {
		return err
	}
	defer container.Close()

	return fn(ctx, container)
}
