package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/osamahameedprojects/blood-pressure-simulator/internal/service"
)

// Router 使用标准库 http.ServeMux（无需第三方路由依赖）
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

// HandleHandler 支持 http.Handler 接口
func (r *Router) HandleHandler(pattern string, h http.Handler) {
	r.mux.Handle(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func methodOnly(method string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if req.Method != method {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h(w, req)
	}
}

// RegisterAuthRoutes 注册认证路由
func (r *Router) RegisterAuthRoutes(h *AuthHandler) {
	r.Handle("/api/v1/auth/signup", methodOnly(http.MethodPost, h.Signup))
	r.Handle("/api/v1/auth/login", methodOnly(http.MethodPost, h.Login))
	r.Handle("/api/v1/auth/logout", methodOnly(http.MethodPost, h.Logout))
}

// RegisterTrainingRoutes 注册训练会话路由
func (r *Router) RegisterTrainingRoutes(h *TrainingHandler, auth *service.AuthService) {
	r.Handle("/api/v1/training/scenarios", methodOnly(http.MethodGet, h.Scenarios(auth)))
	r.Handle("/api/v1/training/session", methodOnly(http.MethodPost, h.StartSession))
	r.Handle("/api/v1/training/session/pump", methodOnly(http.MethodPost, h.Pump))
	r.Handle("/api/v1/training/session/state", methodOnly(http.MethodGet, h.State))
	r.Handle("/api/v1/training/session/reading", methodOnly(http.MethodPost, h.SubmitReading))
	r.Handle("/api/v1/training/session/abort", methodOnly(http.MethodPost, h.AbortSession))
}

// RegisterProgressRoutes 注册进度查询路由
func (r *Router) RegisterProgressRoutes(h *ProgressHandler) {
	r.Handle("/api/v1/progress", methodOnly(http.MethodGet, h.GetProgress))
	r.Handle("/api/v1/progress/badges", methodOnly(http.MethodGet, h.GetBadges))
	r.Handle("/api/v1/progress/pressure", methodOnly(http.MethodGet, h.GetPressure))
	r.Handle("/api/v1/progress/export", methodOnly(http.MethodGet, h.ExportAttempts))
}

// RegisterBridgeRoutes 注册 WebSocket 桥路由
func (r *Router) RegisterBridgeRoutes(handleWS http.HandlerFunc) {
	r.Handle("/api/v1/bridge/ws", handleWS)
}

// RegisterHealthRoutes 健康检查
func (r *Router) RegisterHealthRoutes() {
	r.Handle("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}
