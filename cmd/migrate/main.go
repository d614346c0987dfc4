package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"quote-engine/internal/db"
)

// migrationLockKey serializes concurrent migrators via pg_try_advisory_lock.
const migrationLockKey = 5811407

func main() {
	dir := flag.String("dir", "migrations", "directory containing NNN_description.sql files")
	flag.Parse()

	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	lockConn, err := acquireLock(ctx, pool)
	if err != nil {
		log.Fatalf("lock: %v", err)
	}
	defer lockConn.Release()

	if err := run(ctx, pool, *dir); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	log.Println("all migrations processed")
}

func run(ctx context.Context, pool *pgxpool.Pool, dir string) error {
	const table = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version TEXT PRIMARY KEY,
	filename TEXT NOT NULL,
	checksum TEXT NOT NULL,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`
	if _, err := pool.Exec(ctx, table); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	files, err := discoverMigrations(dir)
	if err != nil {
		return err
	}

	for _, filename := range files {
		if err := applyMigration(ctx, pool, dir, filename); err != nil {
			return err
		}
	}
	return nil
}

func acquireLock(ctx context.Context, pool *pgxpool.Pool) (*pgxpool.Conn, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}

	var locked bool
	if err := conn.QueryRow(ctx, "SELECT pg_try_advisory_lock($1)", migrationLockKey).Scan(&locked); err != nil {
		conn.Release()
		return nil, fmt.Errorf("failed to query advisory lock: %w", err)
	}
	if !locked {
		conn.Release()
		return nil, fmt.Errorf("another migrator is currently running")
	}
	return conn, nil
}

func discoverMigrations(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	seen := make(map[string]bool)
	var filenames []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		version, err := extractVersion(entry.Name())
		if err != nil {
			return nil, err
		}
		if seen[version] {
			return nil, fmt.Errorf("duplicate migration version %s", version)
		}
		seen[version] = true
		filenames = append(filenames, entry.Name())
	}

	sort.Strings(filenames)
	return filenames, nil
}

func extractVersion(filename string) (string, error) {
	parts := strings.SplitN(filename, "_", 2)
	if len(parts) < 2 {
		return "", fmt.Errorf("invalid migration filename %s, expected NNN_description.sql", filename)
	}
	return parts[0], nil
}

func applyMigration(ctx context.Context, pool *pgxpool.Pool, dir, filename string) error {
	version, err := extractVersion(filename)
	if err != nil {
		return err
	}

	sqlBytes, err := os.ReadFile(filepath.Join(dir, filename))
	if err != nil {
		return fmt.Errorf("failed to read migration %s: %w", filename, err)
	}
	hash := sha256.Sum256(sqlBytes)
	checksum := hex.EncodeToString(hash[:])

	var existing string
	err = pool.QueryRow(ctx, "SELECT checksum FROM schema_migrations WHERE version = $1", version).Scan(&existing)
	switch {
	case err == nil:
		if existing != checksum {
			return fmt.Errorf("checksum mismatch for %s: recorded %s, file %s", filename, existing, checksum)
		}
		log.Printf("skip  %s", filename)
		return nil
	case err == pgx.ErrNoRows:
		// not yet applied
	default:
		return fmt.Errorf("failed to query schema_migrations for %s: %w", filename, err)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for %s: %w", filename, err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, string(sqlBytes)); err != nil {
		return fmt.Errorf("failed to execute migration %s: %w", filename, err)
	}
	if _, err := tx.Exec(ctx,
		"INSERT INTO schema_migrations (version, filename, checksum) VALUES ($1, $2, $3)",
		version, filename, checksum); err != nil {
		return fmt.Errorf("failed to record migration %s: %w", filename, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit migration %s: %w", filename, err)
	}

	log.Printf("apply %s", filename)
	return nil
}
