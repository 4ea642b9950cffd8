package web

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// NewRouter mounts the API under /api.
func NewRouter(service *Service, logger zerolog.Logger) *mux.Router {
	router := mux.NewRouter()
	router.Use(Logging(logger))
	router.Use(CORS)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", service.HealthHandler).Methods("GET")
	api.HandleFunc("/ai/move", service.AIMoveHandler).Methods("POST", "OPTIONS")
	api.HandleFunc("/ai/evaluate", service.EvaluateHandler).Methods("POST", "OPTIONS")
	api.HandleFunc("/moves", service.MakeMoveHandler).Methods("POST", "OPTIONS")
	api.HandleFunc("/moves/legal", service.LegalMovesHandler).Methods("POST", "OPTIONS")
	api.HandleFunc("/status", service.StatusHandler).Methods("POST", "OPTIONS")
	if service.hub != nil {
		api.HandleFunc("/games/{id}/spectators", service.SpectatorCountHandler).Methods("GET")
		api.HandleFunc("/ws", service.WebSocketHandler(service.hub)).Methods("GET")
	}

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "NotFound", Message: "no route for " + r.URL.Path})
	})
	return router
}
