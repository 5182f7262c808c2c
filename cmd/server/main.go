package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"symptom-checker/internal/config"
)

var configPath string

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "symptom-checker",
		Short: "Symptom checker API server",
		Long: `Symptom checker: scores selected symptoms against a fixed catalog of
chronic conditions and keeps anonymous sessions in memory.

Running without a subcommand starts the HTTP API.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default "+config.DefaultPath+" when present)")

	cmd.AddCommand(
		migrateCmd(),
		scoreCmd(),
		conditionsCmd(),
	)
	return cmd
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
