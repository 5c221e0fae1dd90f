package get_schedule_config

import (
	"net/http"

	"github.com/m04kA/SMC-ClinicService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicService/internal/scheduler"
)

type Handler struct {
	window scheduler.Window
	logger Logger
}

func NewHandler(window scheduler.Window, logger Logger) *Handler {
	return &Handler{
		window: window,
		logger: logger,
	}
}

// Handle GET /api/v1/schedule/config
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("GET /schedule/config - open=%s, close=%s, slot=%d", h.window.Open, h.window.Close, h.window.SlotMinutes)
	handlers.RespondJSON(w, http.StatusOK, FromWindow(h.window))
}
