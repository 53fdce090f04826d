package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/thependalorian/buffrhost-sub014/internal/service"
)

type PropertiesHandler struct {
	svc    *service.PropertyService
	logger *zap.Logger
}

func NewPropertiesHandler(svc *service.PropertyService, logger *zap.Logger) *PropertiesHandler {
	return &PropertiesHandler{svc: svc, logger: logger}
}

// ListProperties handles GET /api/properties?page=&pageSize=&status=&country=.
func (h *PropertiesHandler) ListProperties(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := h.svc.ListProperties(r.Context(), service.ListPropertiesRequest{
		Page:     parseInt(q.Get("page"), 1),
		PageSize: parseInt(q.Get("pageSize"), 20),
		Status:   q.Get("status"),
		Country:  q.Get("country"),
	})
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(res))
}
