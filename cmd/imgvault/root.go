package main

import (
	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/imgvault/internal/buildinfo"
	"github.com/dmitrijs2005/imgvault/internal/cli"
	"github.com/dmitrijs2005/imgvault/internal/config"
)

// runShell is a seam for tests.
var runShell = func(cmd *cobra.Command, cfg *config.Config) error {
	app, err := cli.NewApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	app.Run(cmd.Context())
	return nil
}

// migrate is a seam for tests.
var migrate = func(cmd *cobra.Command, cfg *config.Config) error {
	return cli.Migrate(cmd.Context(), cfg, cmd.OutOrStdout())
}

func newRootCmd() *cobra.Command {
	var showVersion bool

	cmd := &cobra.Command{
		Use:           "imgvault",
		Short:         "ImgVault keeps your images in the cloud",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
	}
	flags := config.RegisterFlags(cmd.PersistentFlags())
	cmd.Flags().BoolVarP(&showVersion, "version", "v", false, "print build data and exit")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if showVersion {
			buildinfo.PrintBuildData(cmd.OutOrStdout())
			return nil
		}
		cfg, err := flags.Load()
		if err != nil {
			return err
		}
		return runShell(cmd, cfg)
	}

	cmd.AddCommand(newMigrateCmd(flags))
	return cmd
}

func newMigrateCmd(flags *config.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the document store schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.Load()
			if err != nil {
				return err
			}
			return migrate(cmd, cfg)
		},
	}
}
