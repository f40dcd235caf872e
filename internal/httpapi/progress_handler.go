package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/osamahameedprojects/blood-pressure-simulator/internal/domain"
	"github.com/osamahameedprojects/blood-pressure-simulator/internal/report"
	"github.com/osamahameedprojects/blood-pressure-simulator/internal/service"
	"github.com/osamahameedprojects/blood-pressure-simulator/internal/store"
)

// ProgressHandler 进度查询与导出
type ProgressHandler struct {
	auth     *service.AuthService
	sessions *store.SessionStore
	logger   *zap.Logger
}

func NewProgressHandler(auth *service.AuthService, sessions *store.SessionStore, logger *zap.Logger) *ProgressHandler {
	return &ProgressHandler{auth: auth, sessions: sessions, logger: logger}
}

// GetProgress 当前用户的完整进度聚合
func (h *ProgressHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	p, err := h.auth.CurrentProgress()
	if err != nil {
		writeJSON(w, http.StatusOK, Fail("not logged in"))
		return
	}

	// 密码不出接口
	sanitized := *p
	sanitized.User.Password = ""
	writeJSON(w, http.StatusOK, Ok(&sanitized))
}

// GetBadges 勋章目录 + 当前用户已获得的勋章
func (h *ProgressHandler) GetBadges(w http.ResponseWriter, r *http.Request) {
	p, err := h.auth.CurrentProgress()
	if err != nil {
		writeJSON(w, http.StatusOK, Fail("not logged in"))
		return
	}

	writeJSON(w, http.StatusOK, Ok(map[string]any{
		"available": domain.AvailableBadges,
		"earned":    p.Badges,
	}))
}

// GetPressure 仪表盘读取缓存的实时压力快照
func (h *ProgressHandler) GetPressure(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	p, err := h.auth.CurrentProgress()
	if err != nil {
		writeJSON(w, http.StatusOK, Fail("not logged in"))
		return
	}

	snap, err := h.sessions.GetPressure(ctx, p.User.ID)
	if err != nil {
		if errors.Is(err, store.ErrCacheMiss) {
			writeJSON(w, http.StatusOK, Ok[any](nil))
			return
		}
		h.logger.Error("GetPressure failed", zap.Error(err))
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, Ok(snap))
}

// ExportAttempts 测量历史导出为 Excel 下载
func (h *ProgressHandler) ExportAttempts(w http.ResponseWriter, r *http.Request) {
	p, err := h.auth.CurrentProgress()
	if err != nil {
		writeJSON(w, http.StatusOK, Fail("not logged in"))
		return
	}

	data, err := report.GenerateAttemptExport(p)
	if err != nil {
		h.logger.Error("ExportAttempts failed", zap.Error(err))
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}

	filename := fmt.Sprintf("bp-attempts-%s.xlsx", time.Now().Format("20060102-150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
