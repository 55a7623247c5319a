package main

import (
	"context"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/heythambi/backend/internal/curriculum"
	"github.com/heythambi/backend/internal/database"
	"github.com/heythambi/backend/internal/generator"
	"github.com/heythambi/backend/internal/models"
)

// The seeder runs the whole generation pipeline: one provider call in flight
// at a time, committed lessons only, resumable by re-running it. Interrupt
// it mid-run and the store keeps every lesson that finished; the next run
// picks up at the first missing one.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	provider, err := generator.NewProvider()
	if err != nil {
		log.Fatalf("Failed to select provider: %v", err)
	}

	mode := models.RunModeFull
	if os.Getenv("TEST_MODE") == "true" {
		mode = models.RunModeSmoke
	}

	seed := time.Now().UnixNano()
	if v := os.Getenv("SEED"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			log.Fatalf("SEED must be an integer, got %q", v)
		}
		seed = n
	}
	rng := rand.New(rand.NewSource(seed))

	ledger := generator.LedgerFromEnv()
	scheduler := generator.NewScheduler()
	contexts := generator.NewContextGenerator(provider, scheduler, ledger)
	questions := generator.NewQuestionSetGenerator(rng, ledger)
	store := curriculum.NewStore(db)

	log.Printf("[seeder] provider=%s mode=%s seed=%d", provider.Name, mode, seed)

	driver := curriculum.NewDriver(store, contexts, questions, provider.Name, mode)
	run, err := driver.Run(ctx)
	if err != nil {
		// run is nil when the run row itself could not be created.
		if ctx.Err() != nil && run != nil {
			log.Printf("[seeder] interrupted: %d lessons committed, %d skipped", run.LessonsCommitted, run.LessonsSkipped)
			return
		}
		log.Fatalf("Run failed: %v", err)
	}

	log.Printf("[seeder] done: %d lessons committed, %d skipped, %d questions written",
		run.LessonsCommitted, run.LessonsSkipped, run.QuestionsWritten)
}
