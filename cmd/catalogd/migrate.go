package main

import (
	"fmt"

	"github.com/fekuna/omnipos-catalog-service/migrations"
	"github.com/spf13/cobra"
)

var listMigrations bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, appLogger, err := bootstrap()
		if err != nil {
			return err
		}
		defer appLogger.Sync()

		dsn := postgresConfig(cfg).DSN()
		if !listMigrations {
			return migrations.Up(cmd.Context(), dsn, appLogger)
		}

		all, err := migrations.Load()
		if err != nil {
			return err
		}
		current, dirty, err := migrations.Version(dsn, appLogger)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, m := range all {
			state := "pending"
			switch {
			case m.Version == current && dirty:
				state = "dirty"
			case m.Version <= current:
				state = "applied"
			}
			fmt.Fprintf(out, "%04d\t%s\t%s\n", m.Version, m.Name, state)
		}
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&listMigrations, "list", false, "Print the embedded migrations and whether each is applied")
}
