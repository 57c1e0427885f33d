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

type BOMProvider interface {
	GetBOM(ctx context.Context, uid string) (*storage.BOM, error)
	GetBOMIndex(ctx context.Context, filter storage.BOMFilter) ([]storage.BOMIndexItem, error)
}

func GetBOM(log *slog.Logger, provider BOMProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.bom.get.GetBOM"

		uid := chi.URLParam(r, "uid")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		bom, err := provider.GetBOM(ctx, uid)
		if err != nil {
			if errors.Is(err, storage.ErrBOMNotFound) {
				http.Error(w, "BOM not found", http.StatusNotFound)
				return
			}
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("failed to load BOM")
			http.Error(w, "failed to load BOM", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, bom)
	}
}

// GetBOMList lists header rows, optionally narrowed by ?status= and
// ?dplan_no=.
func GetBOMList(log *slog.Logger, provider BOMProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.bom.get.GetBOMList"

		filter := storage.BOMFilter{
			Status:  r.URL.Query().Get("status"),
			DplanNo: r.URL.Query().Get("dplan_no"),
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		items, err := provider.GetBOMIndex(ctx, filter)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("failed to list BOMs")
			http.Error(w, "failed to list BOMs", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, items)
	}
}
