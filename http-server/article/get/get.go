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

type ArticleBOMLoader interface {
	LoadArticleBOM(ctx context.Context, sheetName string) (*storage.BOM, error)
}

// GetArticleBOM loads the working BOM straight from an article sheet.
func GetArticleBOM(log *slog.Logger, provider ArticleBOMLoader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.article.get.GetArticleBOM"

		sheetName := chi.URLParam(r, "sheet_name")
		if sheetName == "" {
			http.Error(w, "sheet_name is required", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
		defer cancel()

		bom, err := provider.LoadArticleBOM(ctx, sheetName)
		if err != nil {
			if errors.Is(err, storage.ErrSheetNotFound) {
				http.Error(w, "article sheet not found", http.StatusNotFound)
				return
			}
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("failed to load article BOM")
			http.Error(w, "failed to load article BOM", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, bom)
	}
}
