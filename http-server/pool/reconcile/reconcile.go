package reconcile

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"log/slog"

	"dyeing-bom/internal/service/importer"
)

type PoolReconciler interface {
	ReconcilePool(ctx context.Context) (*importer.Result, error)
}

// ReconcilePool pulls any new article BOMs from the source into the
// unallocated pool and returns the pool. Safe to call repeatedly.
func ReconcilePool(log *slog.Logger, service PoolReconciler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.pool.reconcile.ReconcilePool"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		result, err := service.ReconcilePool(ctx)
		if err != nil {
			log.Error("pool reconciliation failed", slog.String("error", err.Error()))
			http.Error(w, "pool reconciliation failed", http.StatusInternalServerError)
			return
		}

		log.Info("pool reconciled",
			slog.Int("imported", result.Imported),
			slog.Int("skipped", result.Skipped),
			slog.Int("errors", result.Errors),
		)

		render.JSON(w, r, result)
	}
}
