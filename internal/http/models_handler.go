package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/thependalorian/buffrhost-sub014/internal/service"
)

type ModelsHandler struct {
	svc    *service.ModelService
	logger *zap.Logger
}

func NewModelsHandler(svc *service.ModelService, logger *zap.Logger) *ModelsHandler {
	return &ModelsHandler{svc: svc, logger: logger}
}

func (h *ModelsHandler) ListModels(w http.ResponseWriter, r *http.Request) {
	models, err := h.svc.ListModels(r.Context())
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(models))
}

func (h *ModelsHandler) GetModel(w http.ResponseWriter, r *http.Request, name string) {
	m, err := h.svc.GetModel(r.Context(), name)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(m))
}

func (h *ModelsHandler) Evaluate(w http.ResponseWriter, r *http.Request, name string) {
	var req service.EvaluateRequest
	if err := readBodyJSON(w, r, maxBodyBytes, &req); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	ev, err := h.svc.Evaluate(r.Context(), name, req)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(ev))
}
