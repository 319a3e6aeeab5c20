package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"haulaway/backend"
	"haulaway/config"
	"haulaway/services/proof"
	"haulaway/services/session"
	"haulaway/services/tasks"
	"haulaway/utils"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

// InitPreloadWorker runs the best-effort background preload worker. Failures
// here are logged and retried by asynq; they never surface to the user.
func InitPreloadWorker(bk backend.Client, store *session.Store, proofStore proof.Store, cache *redis.Client) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisPreloadQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypePreloadTrucks, handlePreloadTrucks(bk, store, cache))
	mux.HandleFunc(tasks.TypePrecacheProof, handlePrecacheProof(bk, store, proofStore))

	go monitorRedisConnection()

	go func() {
		log.Println("[PreloadWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[PreloadWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[PreloadWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

// sessionCtx loads the session's credential and binds it to the task context.
func sessionCtx(ctx context.Context, store *session.Store, sessionID string) (context.Context, error) {
	sess, err := store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return backend.WithToken(ctx, sess.Token), nil
}

func handlePreloadTrucks(bk backend.Client, store *session.Store, cache *redis.Client) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.PreloadTrucksPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[PreloadWorker] invalid trucks payload: %v", err)
			return err
		}

		callCtx, err := sessionCtx(ctx, store, p.SessionID)
		if err != nil {
			// Session is gone; nothing to warm for it.
			log.Printf("[PreloadWorker] session %s unavailable: %v", p.SessionID, err)
			return nil
		}

		trucks, err := bk.GetTrucks(callCtx)
		if err != nil {
			log.Printf("[PreloadWorker] truck preload failed: %v", err)
			return err
		}

		data, err := json.Marshal(trucks)
		if err != nil {
			return err
		}
		return cache.Set(ctx, utils.TruckCacheKey, data, utils.TruckCacheTTL).Err()
	}
}

func handlePrecacheProof(bk backend.Client, store *session.Store, proofStore proof.Store) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.PrecacheProofPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[PreloadWorker] invalid proof payload: %v", err)
			return err
		}

		callCtx, err := sessionCtx(ctx, store, p.SessionID)
		if err != nil {
			log.Printf("[PreloadWorker] session %s unavailable: %v", p.SessionID, err)
			return nil
		}

		rec, err := bk.GetPaymentByOrder(callCtx, p.OrderID)
		if err != nil {
			log.Printf("[PreloadWorker] proof precache fetch failed: %v", err)
			return err
		}

		url := rec.ConfirmationURL
		if url == "" {
			url = rec.ConfirmationURLAlt
		}
		if url == "" {
			return nil
		}
		return proofStore.SetProofURL(ctx, p.OrderID, url)
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisPreloadQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[PreloadWorker] redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
