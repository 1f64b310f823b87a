package router

import (
	"context"
	"net/http"

	"secondbrain/config"
	knowledgeHandler "secondbrain/internal/knowledge"
	"secondbrain/internal/knowledge/repository"
	"secondbrain/internal/knowledge/service"
	"secondbrain/middleware"
	"secondbrain/socket"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Setup builds the HTTP handler. Background upkeep started here stops when ctx is done.
func Setup(ctx context.Context, cfg config.ServerConfig, auth config.AuthConfig, repo repository.NoteRepository, gen service.GenerationProvider, hub *socket.Hub) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("Server Running"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	// WebSocket
	requireAuth := middleware.Auth(auth.JWTSecret)
	wsHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		socket.ServeWs(hub, w, r, middleware.UserID(r.Context()))
	})
	mux.Handle("/ws/knowledge", requireAuth(wsHandler))

	// REST API
	knowledgeService := service.NewKnowledgeService(repo, gen, hub)
	h := knowledgeHandler.NewKnowledgeHandler(knowledgeService)
	limiter := middleware.NewRateLimiter(cfg.QueryRateLimit, cfg.QueryRateBurst, cfg.TrustedProxies...)
	go limiter.Cleanup(ctx)

	route := func(pattern string, handler http.Handler) {
		mux.Handle(pattern, middleware.Metrics(pattern, handler))
	}
	route("/api/knowledge", requireAuth(http.HandlerFunc(h.Notes)))
	route("/api/knowledge/ask", requireAuth(http.HandlerFunc(h.Ask)))
	route("/api/knowledge/query", limiter.Middleware(http.HandlerFunc(h.Query)))

	return middleware.CORS(cfg.AllowedOrigins)(mux)
}
