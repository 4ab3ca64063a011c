package router

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"flyer-builder/app/controller"
)

type Controllers struct {
	Flyer *controller.FlyerController
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// SetupRoutes registers the admin API, metrics and the generated files on mux
func SetupRoutes(mux *http.ServeMux, controllers *Controllers, outputDir string) {
	// Ping endpoint
	mux.HandleFunc("/ping", pingHandler)

	// Flyer runs
	mux.HandleFunc("/admin/flyers/generate", controllers.Flyer.GenerateFlyers)
	mux.HandleFunc("/admin/flyers/runs", controllers.Flyer.ListRuns)
	mux.HandleFunc("/admin/flyers/links", controllers.Flyer.GetLinks)

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())

	// Generated pages and documents
	mux.Handle("/flyers/", http.StripPrefix("/flyers/", http.FileServer(http.Dir(outputDir))))
}
