// Command migration applies the postgres schema for the tournament service.
// Subcommands mirror the migrate CLI surface we actually use: up, down,
// version, force.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	if err := run(strings.ToLower(strings.TrimSpace(os.Args[1])), os.Args[2:]); err != nil {
		if errors.Is(err, errUnknownCommand) {
			usage()
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

var errUnknownCommand = errors.New("unknown command")

func run(command string, args []string) error {
	dbURL := strings.TrimSpace(os.Getenv("DB_URL"))
	if dbURL == "" {
		return fmt.Errorf("DB_URL is required")
	}

	dir, err := migrationsDir()
	if err != nil {
		return err
	}
	source := "file://" + filepath.ToSlash(dir)

	m, err := migrate.New(source, dbURL)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			log.Printf("close migration source: %v", srcErr)
		}
		if dbErr != nil {
			log.Printf("close migration db: %v", dbErr)
		}
	}()

	switch command {
	case "up":
		return runUp(m, source)
	case "down":
		return runDown(m, args)
	case "version":
		return runVersion(m)
	case "force":
		return runForce(m, args)
	default:
		return errUnknownCommand
	}
}

func runUp(m *migrate.Migrate, source string) error {
	switch err := m.Up(); {
	case errors.Is(err, migrate.ErrNoChange):
		log.Printf("no migration changes")
	case err != nil:
		return err
	default:
		log.Printf("migrations applied (source=%s)", source)
	}
	return nil
}

func runDown(m *migrate.Migrate, args []string) error {
	steps := 1
	if len(args) > 0 {
		parsed, err := strconv.Atoi(strings.TrimSpace(args[0]))
		if err != nil {
			return fmt.Errorf("invalid down steps %q: %w", args[0], err)
		}
		if parsed <= 0 {
			return fmt.Errorf("down steps must be > 0")
		}
		steps = parsed
	}

	switch err := m.Steps(-steps); {
	case errors.Is(err, migrate.ErrNoChange):
		log.Printf("no migration changes")
	case err != nil:
		return err
	default:
		log.Printf("rolled back %d migration(s)", steps)
	}
	return nil
}

func runVersion(m *migrate.Migrate) error {
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		fmt.Println("version: none")
		fmt.Println("dirty: false")
		return nil
	}
	if err != nil {
		return fmt.Errorf("read version: %w", err)
	}

	fmt.Printf("version: %d\n", version)
	fmt.Printf("dirty: %t\n", dirty)
	return nil
}

func runForce(m *migrate.Migrate, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("force requires a version argument")
	}
	version, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid version %q: %w", args[0], err)
	}
	if version < 0 {
		return fmt.Errorf("version must be >= 0")
	}

	if err := m.Force(int(version)); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	log.Printf("forced version to %d", version)
	return nil
}

// migrationsDir picks the first existing directory out of MIGRATIONS_DIR,
// ./migrations, and the container path /app/migrations.
func migrationsDir() (string, error) {
	for _, candidate := range []string{
		strings.TrimSpace(os.Getenv("MIGRATIONS_DIR")),
		"./migrations",
		"/app/migrations",
	} {
		if candidate == "" {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			return abs, nil
		}
	}

	return "", fmt.Errorf("migration directory not found (checked MIGRATIONS_DIR, ./migrations, /app/migrations)")
}

func usage() {
	name := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "usage: %s <up|down|version|force> [args]\n", name)
	fmt.Fprintln(os.Stderr, "examples:")
	fmt.Fprintf(os.Stderr, "  %s up\n", name)
	fmt.Fprintf(os.Stderr, "  %s down 1\n", name)
	fmt.Fprintf(os.Stderr, "  %s force 1\n", name)
}
