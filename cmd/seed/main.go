// Command seed loads the sample doctors and demo patient into the database
// named by DATABASE_URL.
package main

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mhalligan/clinicbook/internal/doctors"
	"github.com/mhalligan/clinicbook/internal/seed"
	"github.com/mhalligan/clinicbook/internal/users"
	"github.com/mhalligan/clinicbook/pkg/logging"
)

func main() {
	databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("ping db: %v", err)
	}

	logger := logging.New("info")
	if err := seed.Run(ctx, users.NewPostgresRepository(pool), doctors.NewPostgresRepository(pool), logger); err != nil {
		logger.Error("seeding failed", "error", err)
		os.Exit(1)
	}
	logger.Info("seeding complete")
}
