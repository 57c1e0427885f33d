package get

import (
	"net/http"

	"github.com/go-chi/render"
	"log/slog"
)

type StatusProvider interface {
	DemoMode() bool
	StatusMessage() string
}

type Response struct {
	Status           string `json:"status"`
	DemoMode         bool   `json:"demo_mode"`
	Message          string `json:"message"`
	SheetsConfigured bool   `json:"spreadsheet_configured"`
}

func GetBOMStatus(log *slog.Logger, provider StatusProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, Response{
			Status:           "ok",
			DemoMode:         provider.DemoMode(),
			Message:          provider.StatusMessage(),
			SheetsConfigured: !provider.DemoMode(),
		})
	}
}
