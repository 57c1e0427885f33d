package main

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	createarticle "dyeing-bom/http-server/article/create"
	articlebom "dyeing-bom/http-server/article/get"
	getbom "dyeing-bom/http-server/bom/get"
	savebom "dyeing-bom/http-server/bom/save"
	getmasterdata "dyeing-bom/http-server/master-data/get"
	allocateplan "dyeing-bom/http-server/plan/allocate"
	getplan "dyeing-bom/http-server/plan/get"
	reconcilepool "dyeing-bom/http-server/pool/reconcile"
	getstatus "dyeing-bom/http-server/status/get"
	"dyeing-bom/internal/config"
	"dyeing-bom/internal/middleware/auth"
	"dyeing-bom/internal/service/allocation"
	"dyeing-bom/internal/service/importer"
	"dyeing-bom/internal/service/masterdata"
	"dyeing-bom/internal/storage/mysql"
)

func routes(cfg config.Config, log *slog.Logger, storage *mysql.Storage, provider masterdata.Provider,
	allocService *allocation.Service, importService *importer.Service) *chi.Mux {
	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:8081", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Route("/api/bom", func(r chi.Router) {
		// Guarded only when admin credentials are configured
		if cfg.AdminLogin != "" {
			r.Use(auth.BasicAuth(cfg.AdminLogin, cfg.AdminPass))
		}

		r.Get("/status", getstatus.GetBOMStatus(log, provider))

		r.Get("/master-data", getmasterdata.GetMasterData(log, provider))
		r.Get("/fabrics", getmasterdata.GetFabrics(log, provider))

		r.Post("/articles", createarticle.CreateArticle(log, provider))
		r.Get("/articles/{sheet_name}", articlebom.GetArticleBOM(log, provider))

		r.Post("/", savebom.SaveBOM(log, storage))
		r.Get("/list", getbom.GetBOMList(log, storage))

		r.Post("/import", reconcilepool.ReconcilePool(log, importService))

		r.Post("/allocate", allocateplan.AllocateBOMs(log, allocService))
		r.Post("/unallocate", allocateplan.UnallocateBOMs(log, allocService))

		r.Get("/plans", getplan.GetPlans(log, allocService))
		r.Get("/plans/{dplan_no}", getplan.GetPlanBOMs(log, allocService))

		// Keep last so the uid route does not shadow the fixed paths
		r.Get("/{uid}", getbom.GetBOM(log, storage))
	})

	// Static SPA build, when present
	frontendDir := "./frontend-dist"
	if _, err := os.Stat(frontendDir); os.IsNotExist(err) {
		log.Warn("frontend build not found, serving API only", slog.String("path", frontendDir))
		return router
	}

	fileServer := http.StripPrefix("/", http.FileServer(http.Dir(frontendDir)))

	router.Handle("/assets/*", fileServer)
	router.Handle("/js/*", fileServer)
	router.Handle("/css/*", fileServer)
	router.Handle("/img/*", fileServer)

	// SPA fallback: any other path serves index.html
	router.HandleFunc("/*", func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(frontendDir, r.URL.Path)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			http.ServeFile(w, r, path)
			return
		}
		http.ServeFile(w, r, filepath.Join(frontendDir, "index.html"))
	})

	return router
}
