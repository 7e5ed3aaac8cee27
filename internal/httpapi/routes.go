package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hexfront/territory-backend/internal/hub"
	"github.com/hexfront/territory-backend/internal/ws"
)

func SetupRoutes(h *hub.Hub, log *zap.SugaredLogger) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(h, log))
	return r
}
