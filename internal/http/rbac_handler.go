package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/thependalorian/buffrhost-sub014/internal/apperr"
	"github.com/thependalorian/buffrhost-sub014/internal/auth"
	"github.com/thependalorian/buffrhost-sub014/internal/domain"
	"github.com/thependalorian/buffrhost-sub014/internal/service"
)

// RBACHandler serves /api/rbac/permissions. Writes need an admin bearer token
// when jwtSecret is set.
type RBACHandler struct {
	svc       *service.PermissionService
	jwtSecret []byte
	logger    *zap.Logger
}

func NewRBACHandler(svc *service.PermissionService, jwtSecret []byte, logger *zap.Logger) *RBACHandler {
	return &RBACHandler{svc: svc, jwtSecret: jwtSecret, logger: logger}
}

func (h *RBACHandler) ListPermissions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	perms, err := h.svc.ListPermissions(r.Context(), domain.PermissionFilter{
		Resource: q.Get("resource"),
		Action:   q.Get("action"),
	})
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(perms))
}

func (h *RBACHandler) CreatePermission(w http.ResponseWriter, r *http.Request) {
	if err := h.requireAdmin(r); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	var req service.CreatePermissionRequest
	if err := readBodyJSON(w, r, maxBodyBytes, &req); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	p, err := h.svc.CreatePermission(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, OkWithMessage(p, "Permission created"))
}

func (h *RBACHandler) requireAdmin(r *http.Request) error {
	if len(h.jwtSecret) == 0 {
		return nil
	}
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return &apperr.UnauthorizedError{Msg: "Missing bearer token"}
	}
	claims, err := auth.ParseToken(strings.TrimSpace(token), h.jwtSecret)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			return &apperr.UnauthorizedError{Msg: "Token expired"}
		}
		return &apperr.UnauthorizedError{Msg: "Invalid token"}
	}
	if claims.Role != auth.RoleAdmin {
		return &apperr.ForbiddenError{Msg: "Admin role required"}
	}
	return nil
}
