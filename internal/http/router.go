package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Router uses the standard http.ServeMux.
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// HealthCheck reports a dependency failure.
type HealthCheck func(ctx context.Context) error

// RegisterHealthRoutes registers /healthz. Every check must pass within two seconds.
func (r *Router) RegisterHealthRoutes(checks map[string]HealthCheck) {
	r.Handle("/healthz", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()

		for name, check := range checks {
			if err := check(ctx); err != nil {
				r.logger.Warn("Health check failed", zap.String("check", name), zap.Error(err))
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "failed": name})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

func (r *Router) RegisterCrossProjectRoutes(h *CrossProjectHandler) {
	r.Handle("/api/cross-project", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			h.Get(w, req)
		case http.MethodPost:
			h.Post(w, req)
		default:
			methodNotAllowed(w)
		}
	})
	r.Handle("/api/cross-project/export", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		h.ExportProperties(w, req)
	})
}

func (r *Router) RegisterRBACRoutes(h *RBACHandler) {
	r.Handle("/api/rbac/permissions", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			h.ListPermissions(w, req)
		case http.MethodPost:
			h.CreatePermission(w, req)
		default:
			methodNotAllowed(w)
		}
	})
}

func (r *Router) RegisterPropertyRoutes(h *PropertiesHandler) {
	r.Handle("/api/properties", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		h.ListProperties(w, req)
	})
}

// RegisterModelRoutes registers /api/ml/models, /api/ml/models/{name} and
// /api/ml/models/{name}/evaluate.
func (r *Router) RegisterModelRoutes(h *ModelsHandler) {
	r.Handle("/api/ml/models", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		h.ListModels(w, req)
	})
	r.Handle("/api/ml/models/", func(w http.ResponseWriter, req *http.Request) {
		rest := strings.Trim(strings.TrimPrefix(req.URL.Path, "/api/ml/models/"), "/")
		parts := strings.Split(rest, "/")
		switch {
		case len(parts) == 1 && parts[0] != "":
			if req.Method != http.MethodGet {
				methodNotAllowed(w)
				return
			}
			h.GetModel(w, req, parts[0])
		case len(parts) == 2 && parts[0] != "" && parts[1] == "evaluate":
			if req.Method != http.MethodPost {
				methodNotAllowed(w)
				return
			}
			h.Evaluate(w, req, parts[0])
		default:
			writeJSON(w, http.StatusNotFound, Fail("Not found"))
		}
	})
}
