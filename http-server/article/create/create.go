package create

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"log/slog"

	"dyeing-bom/internal/storage"
)

type ArticleCreator interface {
	MaterializeArticle(ctx context.Context, artNo string) (string, error)
}

type Request struct {
	ArtNo string `json:"art_no"`
}

type Response struct {
	SheetName string `json:"sheet_name,omitempty"`
	Error     string `json:"error,omitempty"`
}

// CreateArticle materializes a working sheet for a new article from the
// master template. A duplicate sheet is an expected condition and comes
// back as an error payload, not a failure.
func CreateArticle(log *slog.Logger, provider ArticleCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.article.create.CreateArticle"

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
		defer cancel()

		sheetName, err := provider.MaterializeArticle(ctx, req.ArtNo)
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrBlankArtNo):
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, Response{Error: "art_no is required"})
			case errors.Is(err, storage.ErrSheetExists):
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, Response{Error: "sheet '" + req.ArtNo + "' already exists"})
			default:
				log.Error("failed to create article sheet", slog.String("op", op), slog.String("error", err.Error()))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, Response{Error: "failed to create article sheet"})
			}
			return
		}

		render.JSON(w, r, Response{SheetName: sheetName})
	}
}
