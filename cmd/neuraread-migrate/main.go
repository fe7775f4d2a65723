package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/you/neuraread/internal/config"
	"github.com/you/neuraread/internal/infrastructure/auth"
	"github.com/you/neuraread/internal/infrastructure/database"
)

// Creates the schema and the default access policies, then prints the row
// count of every table so a fresh deployment can be checked at a glance.
func main() {
	dsn := flag.String("dsn", "", "database DSN (defaults to the configured one)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *dsn == "" {
		*dsn = cfg.DSN
	}

	db, err := database.Open(*dsn, cfg.DBLogLevel)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get underlying sql.DB: %v", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	fmt.Println("database connection ok")

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run auto-migration: %v", err)
	}
	fmt.Println("schema migrated")

	cas, err := auth.NewCasbinService(db)
	if err != nil {
		log.Fatalf("Failed to init casbin: %v", err)
	}
	seeded, err := cas.SeedDefaults(cfg.APIBase)
	if err != nil {
		log.Fatalf("Failed to seed policies: %v", err)
	}
	if seeded {
		fmt.Println("default policies seeded")
	}

	for _, table := range []string{"users", "user_contacts", "user_photos", "book_categories", "books", "casbin_rule"} {
		var n int64
		if err := db.Table(table).Count(&n).Error; err != nil {
			log.Fatalf("Failed to query %s: %v", table, err)
		}
		fmt.Printf("  %-14s %d rows\n", table, n)
	}
}
