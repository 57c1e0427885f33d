package get

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"log/slog"

	"dyeing-bom/internal/storage"
)

type PlanProvider interface {
	Plans(ctx context.Context) ([]storage.DyeingPlan, error)
	PlanBOMs(ctx context.Context, dplanNo string) ([]storage.BOMIndexItem, error)
}

func GetPlans(log *slog.Logger, provider PlanProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.plan.get.GetPlans"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		plans, err := provider.Plans(ctx)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("failed to list dyeing plans")
			http.Error(w, "failed to list dyeing plans", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, plans)
	}
}

func GetPlanBOMs(log *slog.Logger, provider PlanProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.plan.get.GetPlanBOMs"

		dplanNo := chi.URLParam(r, "dplan_no")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		items, err := provider.PlanBOMs(ctx, dplanNo)
		if err != nil {
			if errors.Is(err, storage.ErrBlankPlanNo) {
				http.Error(w, "dplan_no is required", http.StatusBadRequest)
				return
			}
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("failed to list plan BOMs")
			http.Error(w, "failed to list plan BOMs", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, items)
	}
}
