package worker

// retry_cron.go
// Background goroutine that periodically drains the closing-report DLQ back
// onto the live queue once the webhook circuit breaker has recovered. Report
// delivery is best-effort but should eventually happen for every closing.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 2 * time.Minute
	retryBatchSize    = 10
)

// StartRetryCron launches a goroutine that ticks every 2 minutes and, while
// the circuit breaker is not open, moves DLQ'd report jobs back to the queue.
// It respects the context for graceful shutdown.
func StartRetryCron(ctx context.Context, rdb *redis.Client, cb *infra.CircuitBreaker) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				redeliverDLQ(ctx, rdb, cb)
			}
		}
	}()
}

func redeliverDLQ(ctx context.Context, rdb *redis.Client, cb *infra.CircuitBreaker) {
	// Skip the tick entirely while the webhook endpoint is known to be down.
	if cb.State() == infra.CBOpen {
		log.Debug().Msg("retry_cron: circuit breaker is open, skipping tick")
		return
	}

	dlqKey := DLQPrefix + QueueClosingReport
	for i := 0; i < retryBatchSize; i++ {
		raw, err := rdb.RPop(ctx, dlqKey).Result()
		if err != nil {
			return // empty or redis unavailable
		}

		var entry DLQEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			log.Error().Err(err).Msg("retry_cron: corrupt DLQ entry dropped")
			continue
		}

		// Re-enter the live queue with a fresh attempt budget.
		job := Job{Type: entry.JobType, Payload: entry.Payload, Attempts: 0}
		encoded, err := json.Marshal(job)
		if err != nil {
			continue
		}
		if err := rdb.LPush(ctx, QueueClosingReport, encoded).Err(); err != nil {
			log.Error().Err(err).Msg("retry_cron: failed to requeue DLQ entry")
			return
		}
		log.Info().Str("job_type", entry.JobType).Msg("retry_cron: DLQ entry redelivered")
	}
}
