package main

import (
	"log"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/kairo-app/scrapper/internal/config"
	"github.com/kairo-app/scrapper/internal/pipeline"
	"github.com/kairo-app/scrapper/internal/worker"
	"github.com/kairo-app/scrapper/pkg/tasks"
)

// CommitSHA is set at build time via ldflags
var CommitSHA = "unknown"

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file")
	}

	cfg := config.Load()

	client := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.Queue.RedisAddr})
	defer client.Close()

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.Queue.RedisAddr},
		asynq.Config{
			// One task at a time keeps the merge store single-writer;
			// its read-merge-write cycle is not safe to run concurrently.
			Concurrency: 1,
			RetryDelayFunc: func(n int, err error, task *asynq.Task) time.Duration {
				delay := 5 * time.Minute
				maxDelay := 6 * time.Hour

				for i := 0; i < n; i++ {
					delay *= 2
					if delay > maxDelay {
						delay = maxDelay
						break
					}
				}

				log.Printf("Task %s failed %d times, retrying in %v", task.Type(), n+1, delay)
				return delay
			},
		},
	)

	p := pipeline.New(cfg)
	taskHandler := worker.NewTaskHandler(p, client)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeIngestProvider, taskHandler.HandleIngestProviderTask)
	mux.HandleFunc(tasks.TypeIngestAll, taskHandler.HandleIngestAllTask)

	log.Printf("Worker starting (commit: %s)", CommitSHA)
	if err := srv.Run(mux); err != nil {
		log.Fatalf("could not run server: %v", err)
	}
}
