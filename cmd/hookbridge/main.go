package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hookbridge/hookbridge/internal/config"
	"github.com/hookbridge/hookbridge/internal/db"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "hookbridge",
		Short: "WhatsApp Cloud API webhook ingestion service",
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the webhook server and ingestion pipeline",
			Run: func(cmd *cobra.Command, args []string) {
				runServe()
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply database migrations and exit",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				return db.Migrate(cfg.Postgres)
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the version",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Println(version)
			},
		},
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
