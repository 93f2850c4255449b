package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/vypar/config"
	"github.com/shashiranjanraj/vypar/database/seeders"
	"github.com/shashiranjanraj/vypar/pkg/database"
	"github.com/shashiranjanraj/vypar/pkg/migration"
)

func openDB() (*gorm.DB, error) {
	if err := config.Load(); err != nil {
		return nil, err
	}
	return database.Connect()
}

// vypar migrate — apply pending migrations.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		return migration.New(db).Run()
	},
}

// vypar migrate:rollback — undo the last migration batch.
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Roll back the most recent migration batch",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		return migration.New(db).Rollback()
	},
}

// vypar migrate:status — show which migrations have run.
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of every migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		return migration.New(db).Status()
	},
}

// vypar seed — populate reference data.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run all registered database seeders",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		fmt.Println("Seeding database…")
		return seeders.RunAll(db)
	},
}
