package save

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/render"
	"log/slog"

	"dyeing-bom/internal/storage"
)

type BOMSaver interface {
	SaveBOM(ctx context.Context, uid string, header storage.BOMHeader, combos []storage.Combo) (string, error)
}

type Request struct {
	UID    string            `json:"uid"`
	Header storage.BOMHeader `json:"header"`
	Combos []storage.Combo   `json:"combos"`
}

type Response struct {
	UID     string `json:"uid,omitempty"`
	Message string `json:"message,omitempty"`
	Status  string `json:"status,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SaveBOM creates a BOM when the request carries no uid, otherwise
// replaces the stored one.
func SaveBOM(log *slog.Logger, saver BOMSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.bom.save.SaveBOM"

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		uid, err := saver.SaveBOM(ctx, req.UID, req.Header, req.Combos)
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrNoCombos):
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, Response{Error: "BOM must contain at least one combo"})
			case errors.Is(err, storage.ErrNoLines):
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, Response{Error: "every combo must contain at least one BOM line"})
			case errors.Is(err, storage.ErrBOMNotFound):
				w.WriteHeader(http.StatusNotFound)
				render.JSON(w, r, Response{Error: "BOM not found"})
			default:
				log.Error("failed to save BOM", slog.String("op", op), slog.String("error", err.Error()))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, Response{Error: "failed to save BOM"})
			}
			return
		}

		render.JSON(w, r, Response{
			UID:     uid,
			Message: fmt.Sprintf("BOM %s saved", uid),
			Status:  strconv.Itoa(http.StatusOK),
		})
	}
}
