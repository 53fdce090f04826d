package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/thependalorian/buffrhost-sub014/internal/apperr"
	"github.com/thependalorian/buffrhost-sub014/internal/domain"
	"github.com/thependalorian/buffrhost-sub014/internal/service"
)

// Supported actions, in the order they are listed to clients.
var (
	crossProjectGetActions  = []string{"user-lookup", "property-lookup", "unified-dashboard", "property-owner"}
	crossProjectPostActions = []string{"create-user", "create-property", "sync-user", "validate-auth"}
)

// CrossProjectHandler serves /api/cross-project. Every action validates its
// input, calls one CrossProjectService method and wraps the result.
type CrossProjectHandler struct {
	svc    *service.CrossProjectService
	logger *zap.Logger
}

func NewCrossProjectHandler(svc *service.CrossProjectService, logger *zap.Logger) *CrossProjectHandler {
	return &CrossProjectHandler{svc: svc, logger: logger}
}

func invalidAction(actions []string) error {
	return apperr.Validation("Invalid action. Supported actions: %s", strings.Join(actions, ", "))
}

// Get dispatches ?action= reads.
func (h *CrossProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ctx := r.Context()

	switch q.Get("action") {
	case "user-lookup":
		if strings.TrimSpace(q.Get("identifier")) == "" {
			writeError(w, h.logger, r, apperr.Validation("identifier is required"))
			return
		}
		out, err := h.svc.LookupUser(ctx, service.LookupUserRequest{
			Identifier: q.Get("identifier"),
			Country:    q.Get("country"),
		})
		h.respond(w, r, out, err, "")

	case "property-lookup":
		if strings.TrimSpace(q.Get("identifier")) == "" || strings.TrimSpace(q.Get("buffrId")) == "" {
			writeError(w, h.logger, r, apperr.Validation("identifier and buffrId are required"))
			return
		}
		out, err := h.svc.LookupProperties(ctx, service.LookupPropertiesRequest{
			Identifier: q.Get("identifier"),
			BuffrID:    q.Get("buffrId"),
			Country:    q.Get("country"),
		})
		h.respond(w, r, out, err, "")

	case "unified-dashboard":
		if strings.TrimSpace(q.Get("buffrId")) == "" {
			writeError(w, h.logger, r, apperr.Validation("buffrId is required"))
			return
		}
		out, err := h.svc.UnifiedDashboard(ctx, q.Get("buffrId"))
		h.respond(w, r, out, err, "")

	case "property-owner":
		if strings.TrimSpace(q.Get("buffrId")) == "" {
			writeError(w, h.logger, r, apperr.Validation("buffrId is required"))
			return
		}
		out, err := h.svc.PropertyOwner(ctx, q.Get("buffrId"))
		h.respond(w, r, out, err, "")

	default:
		writeError(w, h.logger, r, invalidAction(crossProjectGetActions))
	}
}

type actionRequest struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

// Post dispatches {action, data} writes.
func (h *CrossProjectHandler) Post(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if err := readBodyJSON(w, r, maxBodyBytes, &req); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	ctx := r.Context()

	switch req.Action {
	case "create-user":
		var in domain.NewUser
		if !h.decodeData(w, r, req.Data, &in) {
			return
		}
		out, err := h.svc.CreateUser(ctx, in)
		msg := ""
		if err == nil {
			msg = fmt.Sprintf("User created in %d project(s)", len(out.Results))
		}
		h.respond(w, r, out, err, msg)

	case "create-property":
		var in domain.NewProperty
		if !h.decodeData(w, r, req.Data, &in) {
			return
		}
		out, err := h.svc.CreateProperty(ctx, in)
		msg := ""
		if err == nil {
			msg = fmt.Sprintf("Property created in %d project(s)", len(out.Results))
		}
		h.respond(w, r, out, err, msg)

	case "sync-user":
		var in service.SyncUserRequest
		if !h.decodeData(w, r, req.Data, &in) {
			return
		}
		out, err := h.svc.SyncUser(ctx, in)
		msg := ""
		if err == nil {
			msg = fmt.Sprintf("User synced, %d record(s) updated", out.TotalUpdated)
		}
		h.respond(w, r, out, err, msg)

	case "validate-auth":
		var in service.ValidateAuthRequest
		if !h.decodeData(w, r, req.Data, &in) {
			return
		}
		out, err := h.svc.ValidateAuth(ctx, in)
		h.respond(w, r, out, err, "")

	default:
		writeError(w, h.logger, r, invalidAction(crossProjectPostActions))
	}
}

// ExportProperties streams the owner's properties across projects as XLSX.
func (h *CrossProjectHandler) ExportProperties(w http.ResponseWriter, r *http.Request) {
	buffrID := strings.TrimSpace(r.URL.Query().Get("buffrId"))
	if buffrID == "" {
		writeError(w, h.logger, r, apperr.Validation("buffrId is required"))
		return
	}
	owner, err := h.svc.PropertyOwner(r.Context(), buffrID)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	data, err := GeneratePropertyExport(owner)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="properties-%s.xlsx"`, exportFileSafe(buffrID)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// decodeData unmarshals the action payload; a missing payload decodes as empty
// so the service reports the missing fields.
func (h *CrossProjectHandler) decodeData(w http.ResponseWriter, r *http.Request, raw json.RawMessage, out any) bool {
	if len(raw) == 0 || string(raw) == "null" {
		return true
	}
	if err := json.Unmarshal(raw, out); err != nil {
		writeError(w, h.logger, r, apperr.Validation("Invalid data payload"))
		return false
	}
	return true
}

func (h *CrossProjectHandler) respond(w http.ResponseWriter, r *http.Request, data any, err error, message string) {
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, OkWithMessage(data, message))
}
