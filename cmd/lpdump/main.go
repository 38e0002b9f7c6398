// lpdump builds the MIP for the stored problem and writes it as a CPLEX-LP
// file, which is handy for inspecting the formulation in external tools.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"pdptw-plan-service/internal/adapters/distance"
	"pdptw-plan-service/internal/adapters/repositories"
	"pdptw-plan-service/internal/config"
	"pdptw-plan-service/internal/platform/db"
	"pdptw-plan-service/internal/services"
)

func main() {
	out := flag.String("o", "plan.lp", "output file path")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	dbPath := config.Get("DB_PATH", "data/app.db")

	conn, err := db.Open("sqlite", dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	ctx := context.Background()
	repo := repositories.NewSqliteProblemRepository(conn)

	data, err := repo.LoadProblem(ctx)
	if err != nil {
		log.Fatalf("load problem: %v", err)
	}

	p, err := services.NewProblem(ctx, data, distance.NewGreatCircleProvider())
	if err != nil {
		log.Fatalf("build problem: %v", err)
	}

	pm, err := services.BuildPlanModel(ctx, p)
	if err != nil {
		log.Fatalf("build model: %v", err)
	}

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("create %q: %v", *out, err)
	}
	defer f.Close()

	if err := pm.Model.WriteLP(f); err != nil {
		log.Fatalf("write LP: %v", err)
	}

	log.Printf("Wrote %s: vars=%d constraints=%d", *out, pm.Model.VariableCount(), pm.Model.ConstraintCount())
}
