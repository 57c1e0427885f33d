package allocate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"log/slog"

	"dyeing-bom/internal/service/allocation"
	"dyeing-bom/internal/storage"
)

type Allocator interface {
	Allocate(ctx context.Context, uids []string, dplanNo string) (*allocation.Result, error)
	Unallocate(ctx context.Context, uids []string) (*allocation.Result, error)
}

type Request struct {
	UIDs    []string `json:"uids"`
	DplanNo string   `json:"dplan_no"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// AllocateBOMs assigns the listed BOMs to a dyeing plan. A blank plan
// number rejects the whole batch; an unknown uid is reported in the result
// while the rest still go through.
func AllocateBOMs(log *slog.Logger, service Allocator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.plan.allocate.AllocateBOMs"

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		result, err := service.Allocate(ctx, req.UIDs, req.DplanNo)
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrBlankPlanNo):
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, ErrorResponse{Error: "dplan_no is required"})
			case errors.Is(err, allocation.ErrNoUIDs):
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, ErrorResponse{Error: "no BOMs selected"})
			default:
				log.Error("allocation failed", slog.String("op", op), slog.String("error", err.Error()))
				http.Error(w, "allocation failed", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, r, result)
	}
}

// UnallocateBOMs returns the listed BOMs to the pool. Unallocating a BOM
// that is already in the pool is a no-op.
func UnallocateBOMs(log *slog.Logger, service Allocator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.plan.allocate.UnallocateBOMs"

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		result, err := service.Unallocate(ctx, req.UIDs)
		if err != nil {
			if errors.Is(err, allocation.ErrNoUIDs) {
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, ErrorResponse{Error: "no BOMs selected"})
				return
			}
			log.Error("unallocation failed", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "unallocation failed", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, result)
	}
}
