// cmd/migrator/main.go
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/javajoker/storefront-backend/internal/config"
)

const (
	databaseURLFlag    = "database-url"
	migrationsPathFlag = "migrations-path"
	stepsFlag          = "steps"
)

// migrationLogger adapts logrus to migrate.Logger.
type migrationLogger struct {
	verbose bool
}

func (l *migrationLogger) Printf(format string, v ...interface{}) {
	logrus.Infof(format, v...)
}

func (l *migrationLogger) Verbose() bool {
	return l.verbose
}

func main() {
	databaseURL := pflag.StringP(databaseURLFlag, "d", "", "postgres URL without scheme (defaults to DB_* settings)")
	migrationsPath := pflag.StringP(migrationsPathFlag, "m", "migrations", "directory holding the SQL migrations")
	steps := pflag.IntP(stepsFlag, "n", 0, "apply n migrations (negative rolls back); 0 with 'up' applies all")
	verbose := pflag.BoolP("verbose", "v", false, "log every migration statement")
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: migrator [flags] up|down|version\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	command := "up"
	if pflag.NArg() > 0 {
		command = pflag.Arg(0)
	}

	if *databaseURL == "" {
		cfg, err := config.Load()
		if err != nil {
			logrus.WithError(err).Fatal("Failed to load configuration")
		}
		*databaseURL = cfg.Database.URL()
	}

	m, err := migrate.New(
		fmt.Sprintf("file://%s", *migrationsPath),
		fmt.Sprintf("pgx5://%s", *databaseURL),
	)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to open migrations")
	}
	defer m.Close()

	m.Log = &migrationLogger{verbose: *verbose}

	if err := run(m, command, *steps); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.Log.Printf("no migrations to apply")
			return
		}
		logrus.WithError(err).WithField("command", command).Fatal("Migration failed")
	}
}

func run(m *migrate.Migrate, command string, steps int) error {
	var err error
	switch command {
	case "up":
		if steps != 0 {
			err = m.Steps(steps)
		} else {
			err = m.Up()
		}
	case "down":
		if steps != 0 {
			err = m.Steps(-abs(steps))
		} else {
			err = m.Down()
		}
	case "version":
	default:
		pflag.Usage()
		os.Exit(2)
	}
	if err != nil {
		return err
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return err
	}
	logrus.WithFields(logrus.Fields{"version": version, "dirty": dirty}).Info("Schema version")
	return nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
