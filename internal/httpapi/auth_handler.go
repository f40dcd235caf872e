package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/osamahameedprojects/blood-pressure-simulator/internal/service"
)

// AuthHandler 账号注册/登录/登出
type AuthHandler struct {
	auth   *service.AuthService
	logger *zap.Logger
}

func NewAuthHandler(auth *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

type signupRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Success bool `json:"success"`
}

// Signup 注册并自动登录；邮箱已占用时 success=false
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// 1. 参数解析
	var req signupRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}
	if req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusOK, Fail("email and password are required"))
		return
	}

	// 2. 调用 Service
	ok, err := h.auth.Signup(ctx, req.Email, req.Name, req.Password)
	if err != nil {
		h.logger.Error("Signup failed", zap.Error(err))
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}

	// 3. 返回响应（重复邮箱不是错误，success=false）
	writeJSON(w, http.StatusOK, Ok(authResponse{Success: ok}))
}

// Login 登录；邮箱未知或密码不符时 success=false
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}

	ok, err := h.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		h.logger.Error("Login failed", zap.Error(err))
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, Ok(authResponse{Success: ok}))
}

// Logout 仅清除活动会话指针
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.auth.Logout(ctx); err != nil {
		h.logger.Error("Logout failed", zap.Error(err))
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, Ok(authResponse{Success: true}))
}
