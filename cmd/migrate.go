package cmd

import (
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vibast-solutions/ms-go-p2p-payments/config"
)

var migrateSteps int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage database schema migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Run: func(_ *cobra.Command, _ []string) {
		m := mustCreateMigrator()
		defer m.Close()
		if err := m.Up(); err != nil && err != migrate.ErrNoChange {
			logrus.WithError(err).Fatal("Migration up failed")
		}
		logrus.Info("Migrations applied")
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	Run: func(_ *cobra.Command, _ []string) {
		m := mustCreateMigrator()
		defer m.Close()

		var err error
		if migrateSteps > 0 {
			err = m.Steps(-migrateSteps)
		} else {
			err = m.Down()
		}
		if err != nil && err != migrate.ErrNoChange {
			logrus.WithError(err).Fatal("Migration down failed")
		}
		logrus.Info("Migrations rolled back")
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	Run: func(_ *cobra.Command, _ []string) {
		m := mustCreateMigrator()
		defer m.Close()

		version, dirty, err := m.Version()
		if err != nil {
			logrus.WithError(err).Fatal("Failed to read schema version")
		}
		logrus.WithField("version", version).WithField("dirty", dirty).Info("Schema version")
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateVersionCmd)

	migrateDownCmd.Flags().IntVar(&migrateSteps, "steps", 0, "Number of migrations to roll back (0 rolls back everything)")
}

func mustCreateMigrator() *migrate.Migrate {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := configureLogging(cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}

	m, err := migrate.New(
		fmt.Sprintf("file://%s", cfg.MySQL.MigrationsPath),
		fmt.Sprintf("mysql://%s", cfg.MySQL.DSN),
	)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create migrator")
	}
	return m
}
