package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/oksasatya/bienesraices/config"
	"github.com/oksasatya/bienesraices/internal/application"
	"github.com/oksasatya/bienesraices/pkg/helpers"
)

var categories = []string{"Casa", "Departamento", "Bodega", "Terreno", "Cabaña"}

var prices = []string{
	"0 - $10,000 USD",
	"$10,000 - $30,000 USD",
	"$30,000 - $50,000 USD",
	"$50,000 - $75,000 USD",
	"$75,000 - $100,000 USD",
	"$100,000 - $150,000 USD",
	"$150,000 - $200,000 USD",
	"$200,000 - $300,000 USD",
	"$300,000 - $500,000 USD",
	"+ $500,000 USD",
}

const (
	demoName     = "Demo"
	demoEmail    = "demo@bienesraices.com"
	demoPassword = "password123"
)

func main() {
	doImport := flag.Bool("i", false, "import categories, prices and a confirmed demo user")
	doErase := flag.Bool("e", false, "erase every table's data")
	flag.Parse()
	if *doImport == *doErase {
		fmt.Fprintln(os.Stderr, "usage: seed -i | -e")
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	ctx := context.Background()
	if *doErase {
		if err := erase(ctx, db); err != nil {
			log.Fatalf("erase failed: %v", err)
		}
		fmt.Println("data erased")
	} else {
		if err := seed(ctx, db); err != nil {
			log.Fatalf("import failed: %v", err)
		}
		fmt.Printf("data imported; demo login %s / %s\n", demoEmail, demoPassword)
	}

	// the running app caches the catalog; drop it so the change shows up
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()
	if err := helpers.RedisDel(ctx, rdb, application.CatalogCacheKey); err != nil {
		log.Printf("catalog cache not cleared: %v", err)
	}
}

func seed(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, name := range categories {
		if _, err := tx.ExecContext(ctx, `INSERT INTO categories (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name); err != nil {
			return fmt.Errorf("category %q: %w", name, err)
		}
	}
	for _, name := range prices {
		if _, err := tx.ExecContext(ctx, `INSERT INTO prices (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name); err != nil {
			return fmt.Errorf("price %q: %w", name, err)
		}
	}

	hash, err := helpers.HashPassword(demoPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	var id string
	err = tx.QueryRowContext(ctx, `
		INSERT INTO users (name, email, password, confirmed)
		VALUES ($1, $2, $3, TRUE)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, demoName, demoEmail, hash).Scan(&id)
	if err != nil {
		return fmt.Errorf("demo user: %w", err)
	}
	fmt.Printf("seeded user: id=%s email=%s\n", id, demoEmail)

	return tx.Commit()
}

func erase(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `TRUNCATE messages, properties, categories, prices, audit_logs, users RESTART IDENTITY CASCADE`)
	return err
}
