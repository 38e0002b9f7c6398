package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"pdptw-plan-service/internal/adapters/cache"
	"pdptw-plan-service/internal/adapters/distance"
	"pdptw-plan-service/internal/adapters/repositories"
	"pdptw-plan-service/internal/adapters/solver"
	"pdptw-plan-service/internal/api"
	"pdptw-plan-service/internal/config"
	"pdptw-plan-service/internal/platform/db"
)

// main is the application composition root.
// It wires concrete adapters (SQLite, great-circle, golpa) behind ports and
// starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	dbPath := config.Get("DB_PATH", "data/app.db")
	seedPath := config.Get("SEED_PATH", "data/seeds/problem.json")
	solverCfgPath := config.Get("SOLVER_CONFIG", "configs/solver.yaml")
	port := config.Get("PORT", "8080")

	solverCfg, err := config.LoadSolverConfig(solverCfgPath)
	if err != nil {
		log.Fatal(err)
	}

	conn, err := db.Open("sqlite", dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	// Initialize schema and seed demo data on startup for local runs.
	if err := initAndSeed(conn, seedPath); err != nil {
		log.Fatal(err)
	}

	// The pure great-circle provider gets a persistent cache so repeated
	// problem loads skip recomputing the matrix.
	distanceCache := cache.NewSQLDistanceCache(conn)
	provider := distance.NewCachedDistanceProvider(distance.NewGreatCircleProvider(), distanceCache)

	repo := repositories.NewSqliteProblemRepository(conn)
	router := api.NewRouter(repo, provider, solver.NewGolpaSolver(), api.RouterConfig{
		DefaultTimeLimit: time.Duration(solverCfg.TimeLimitSec) * time.Second,
		MaxTimeLimit:     time.Duration(solverCfg.MaxTimeLimitSec) * time.Second,
		PlansPerMinute:   solverCfg.PlansPerMinute,
	})

	// Write timeout leaves headroom over the solver time limit cap.
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      time.Duration(solverCfg.MaxTimeLimitSec+60) * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func initAndSeed(conn *sql.DB, seedPath string) error {
	if err := repositories.InitSchema(conn); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := repositories.SeedFromJSON(conn, repositories.DialectSqlite, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}
