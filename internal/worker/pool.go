package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/alfalink2000/Sistema-de-Ventas-POS-Backend/internal/infra"
	"github.com/alfalink2000/Sistema-de-Ventas-POS-Backend/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// QueueEspejo carries stock snapshot updates from the sale path to the
// denormalized inventario table. Producers fire and forget: the queue is on
// the best-effort side of the mirror and must never fail a sale.
const QueueEspejo = "jobs:espejo_stock"

const espejoMaxIntentos = 3

// EspejoJob is one snapshot update for a producto.
type EspejoJob struct {
	ProductoID  uuid.UUID `json:"producto_id"`
	StockActual int       `json:"stock_actual"`
	StockMinimo int       `json:"stock_minimo"`
	EncoladoEn  time.Time `json:"encolado_en"`
	Intentos    int       `json:"intentos"`
}

// Dispatcher enqueues mirror jobs into a Redis list consumed by the worker
// pool. Built without a redis client (unit tests, degraded deployments) it
// upserts the snapshot synchronously instead.
type Dispatcher struct {
	rdb  *redis.Client
	repo repository.InventarioRepository
}

func NewDispatcher(rdb *redis.Client, repo repository.InventarioRepository) *Dispatcher {
	return &Dispatcher{rdb: rdb, repo: repo}
}

// EncolarEspejo pushes a snapshot update. Every failure here is logged and
// swallowed — the authoritative write already committed.
func (d *Dispatcher) EncolarEspejo(ctx context.Context, job EspejoJob) {
	if d == nil {
		return
	}
	if job.EncoladoEn.IsZero() {
		job.EncoladoEn = time.Now().UTC()
	}

	if d.rdb == nil {
		if err := d.repo.Upsert(ctx, job.ProductoID, job.StockActual, job.StockMinimo); err != nil {
			log.Warn().Err(err).Str("producto_id", job.ProductoID.String()).
				Msg("espejo: fallo el upsert sincronico del snapshot")
		}
		return
	}

	data, err := json.Marshal(job)
	if err != nil {
		log.Warn().Err(err).Msg("espejo: no se pudo serializar el job")
		return
	}
	if err := d.rdb.LPush(ctx, QueueEspejo, data).Err(); err != nil {
		log.Warn().Err(err).Str("producto_id", job.ProductoID.String()).
			Msg("espejo: no se pudo encolar el job")
	}
}

// StartWorkerPool launches numWorkers goroutines consuming the mirror queue.
// Each blocks on BRPOP — zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, repo repository.InventarioRepository, cb *infra.CircuitBreaker, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, repo, cb, i)
	}
	log.Info().Int("workers", numWorkers).Msg("worker pool de espejo iniciado")
}

func runWorker(ctx context.Context, rdb *redis.Client, repo repository.InventarioRepository, cb *infra.CircuitBreaker, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Int("worker", id).Msg("espejo: worker detenido")
			return
		default:
			result, err := rdb.BRPop(ctx, 5*time.Second, QueueEspejo).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			procesarEspejo(ctx, rdb, repo, cb, result[1])
		}
	}
}

func procesarEspejo(ctx context.Context, rdb *redis.Client, repo repository.InventarioRepository, cb *infra.CircuitBreaker, raw string) {
	var job EspejoJob
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Err(err).Msg("espejo: job ilegible")
		return
	}

	err := cb.Execute(func() error {
		return repo.Upsert(ctx, job.ProductoID, job.StockActual, job.StockMinimo)
	})
	if err == nil {
		return
	}

	job.Intentos++
	if job.Intentos >= espejoMaxIntentos {
		payload, _ := json.Marshal(job)
		SendToDLQ(ctx, rdb, QueueEspejo, payload, err.Error(), job.Intentos)
		return
	}

	// Requeue for a later attempt; losing the job is acceptable (the repair
	// pass reconciles), but we try before giving up.
	data, _ := json.Marshal(job)
	if pushErr := rdb.LPush(ctx, QueueEspejo, data).Err(); pushErr != nil {
		log.Warn().Err(pushErr).Str("producto_id", job.ProductoID.String()).
			Msg("espejo: no se pudo reencolar, se descarta el job")
	}
}
