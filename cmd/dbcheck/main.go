// Command dbcheck verifies database connectivity with the configured
// credentials before the server is deployed.
package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/9yuq/nexus/internal/config"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	_ = godotenv.Load()
	cfg := config.LoadDatabaseConfig()

	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		fmt.Printf("❌ Failed to open connection: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		fmt.Printf("❌ Failed to ping %s:%s/%s: %v\n", cfg.Host, cfg.Port, cfg.Name, err)
		os.Exit(1)
	}

	fmt.Printf("✅ Connected to %s:%s/%s\n", cfg.Host, cfg.Port, cfg.Name)
}
