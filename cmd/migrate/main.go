package main

import (
	"flag"
	"fmt"
	"os"
	"recoverme/internal/config"
	"recoverme/internal/db"
)

func main() {
	down := flag.Bool("down", false, "revert the last applied migration")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	msg := "Migrations are up to date."
	if *down {
		err = db.RollbackMigration(cfg.PostgresqlURL, cfg.MigrationsPath)
		msg = "Last migration has been reverted."
	} else {
		err = db.ApplyMigrations(cfg.PostgresqlURL, cfg.MigrationsPath)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(msg)
}
