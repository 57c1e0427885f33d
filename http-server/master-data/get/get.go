package get

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"log/slog"

	"dyeing-bom/internal/service/masterdata"
	"dyeing-bom/internal/storage"
)

func GetMasterData(log *slog.Logger, provider masterdata.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.master-data.get.GetMasterData"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
		defer cancel()

		data, err := masterdata.LoadAll(ctx, provider)
		if err != nil {
			log.Error("failed to load master data", slog.String("error", err.Error()))
			http.Error(w, "failed to load master data", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, data)
	}
}

type FabricsProvider interface {
	ListFabrics(ctx context.Context) ([]storage.FabricQuality, error)
}

func GetFabrics(log *slog.Logger, provider FabricsProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.master-data.get.GetFabrics"

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		fabrics, err := provider.ListFabrics(ctx)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("failed to load fabric qualities")
			http.Error(w, "failed to load fabric qualities", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, fabrics)
	}
}
