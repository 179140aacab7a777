package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/studyhall/membership-backend/internal/config"
	"github.com/studyhall/membership-backend/internal/database"
)

// clear-data wipes all transactional data (members, payments, attendance,
// notifications) while keeping plans, settings and staff accounts. Meant
// for resetting a demo or test environment, never production.
func main() {
	var dbPathFlag string
	flag.StringVar(&dbPathFlag, "database-path", "", "SQLite database path (overrides DATABASE_PATH)")
	flag.Parse()

	// Try loading .env from current working directory (optional)
	_ = godotenv.Load()

	dbPath := dbPathFlag
	if dbPath == "" {
		dbPath = os.Getenv("DATABASE_PATH")
	}
	if dbPath == "" {
		log.Fatal("DATABASE_PATH is not set and -database-path was not provided")
	}

	db, err := database.NewConnection(config.DatabaseConfig{Path: dbPath})
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	fmt.Println("Connected to database. Clearing transactional data...")

	// Children first so foreign keys never block the delete
	tables := []string{"notifications", "attendance", "payments", "members"}
	for _, t := range tables {
		if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", t)); err != nil {
			log.Fatalf("failed to clear %s: %v", t, err)
		}
		if _, err := db.Exec("DELETE FROM sqlite_sequence WHERE name = ?", t); err != nil {
			log.Fatalf("failed to reset id sequence for %s: %v", t, err)
		}
	}

	fmt.Println("All transactional data cleared (plans, settings and staff kept).")

	fmt.Println("Post-clear row counts:")
	for _, t := range tables {
		var count int
		if err := db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", t)).Scan(&count); err != nil {
			fmt.Printf("  %s: error: %v\n", t, err)
			continue
		}
		fmt.Printf("  %s: %d\n", t, count)
	}
}
