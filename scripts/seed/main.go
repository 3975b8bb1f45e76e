// Seed adds sample tasks for one user to the postgres task store.
// Run from project root: go run ./scripts/seed -user <user-id> -n 50
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"taskboard/internal/config"
	"taskboard/internal/database"
	"taskboard/internal/models"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")

	userID := flag.String("user", "dev-user", "owner of the seeded tasks")
	total := flag.Int("n", 50, "number of tasks")
	flag.Parse()

	cfg := config.Get()
	if cfg.DatabaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL not set")
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := database.Open(ctx, cfg.DatabaseURL, cfg.DBPoolSize)
	if err != nil {
		fmt.Fprintln(os.Stderr, "DB connection failed:", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.MigrateOrCreateSchema(ctx, db); err != nil {
		fmt.Fprintln(os.Stderr, "Schema failed:", err)
		os.Exit(1)
	}

	const batchSize = 100
	start := time.Now()
	day := time.Now().UTC().Truncate(24 * time.Hour)

	for done := 0; done < *total; done += batchSize {
		n := min(batchSize, *total-done)
		args := make([]interface{}, 0, n*6)
		placeholders := make([]string, 0, n)
		for i := 0; i < n; i++ {
			k := done + i + 1
			placeholders = append(placeholders, fmt.Sprintf("($%d,$%d,$%d,$%d,$%d,$%d)",
				6*i+1, 6*i+2, 6*i+3, 6*i+4, 6*i+5, 6*i+6))
			args = append(args,
				uuid.New().String(),
				fmt.Sprintf("Task %d", k),
				string(models.Priorities[k%len(models.Priorities)]),
				day.AddDate(0, 0, k%30).Format("2006-01-02"),
				k%4 == 0,
				*userID,
			)
		}
		q := `INSERT INTO tasks (id, title, priority, deadline, completed, user_id) VALUES ` +
			strings.Join(placeholders, ",")
		if _, err := db.ExecContext(ctx, q, args...); err != nil {
			fmt.Fprintln(os.Stderr, "Insert failed:", err)
			os.Exit(1)
		}
		fmt.Printf("\rInserted %d / %d", done+n, *total)
	}

	fmt.Printf("\nDone: %d tasks for %s in %v\n", *total, *userID, time.Since(start))
}
