package httpapi

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/osamahameedprojects/blood-pressure-simulator/internal/domain"
	"github.com/osamahameedprojects/blood-pressure-simulator/internal/progress"
	"github.com/osamahameedprojects/blood-pressure-simulator/internal/scenario"
	"github.com/osamahameedprojects/blood-pressure-simulator/internal/service"
)

// TrainingHandler 训练会话 API
type TrainingHandler struct {
	training *service.TrainingService
	logger   *zap.Logger
}

func NewTrainingHandler(training *service.TrainingService, logger *zap.Logger) *TrainingHandler {
	return &TrainingHandler{training: training, logger: logger}
}

type startSessionRequest struct {
	ScenarioKey string `json:"scenarioKey"`
}

type submitReadingRequest struct {
	Systolic  int `json:"systolic"`
	Diastolic int `json:"diastolic"`
}

type scenarioInfo struct {
	Key       domain.ScenarioKey `json:"key"`
	Name      string             `json:"name"`
	Unlocked  bool               `json:"unlocked"`
	Completed bool               `json:"completed"`
	Range     *scenario.Range    `json:"range"`
}

// StartSession 开始一次训练会话
func (h *TrainingHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req startSessionRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}

	err := h.training.StartSession(ctx, domain.ScenarioKey(req.ScenarioKey))
	if err != nil {
		switch {
		case errors.Is(err, progress.ErrNoActiveUser):
			writeJSON(w, http.StatusOK, Fail("not logged in"))
		case errors.Is(err, service.ErrUnknownScenario):
			writeJSON(w, http.StatusOK, Fail("unknown scenario"))
		case errors.Is(err, service.ErrScenarioLocked):
			writeJSON(w, http.StatusOK, Fail("scenario is locked"))
		default:
			h.logger.Error("StartSession failed", zap.Error(err))
			writeJSON(w, http.StatusOK, Fail(err.Error()))
		}
		return
	}

	writeJSON(w, http.StatusOK, Ok(map[string]any{"started": true}))
}

// Pump 手动打气一步（与设备桥按钮等价）
func (h *TrainingHandler) Pump(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	state, err := h.training.Pump(ctx)
	if err != nil {
		if errors.Is(err, service.ErrNoActiveSession) {
			writeJSON(w, http.StatusOK, Fail("no active training session"))
			return
		}
		h.logger.Error("Pump failed", zap.Error(err))
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, Ok(state))
}

// State 会话状态快照
func (h *TrainingHandler) State(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	state, err := h.training.State(ctx)
	if err != nil {
		if errors.Is(err, service.ErrNoActiveSession) {
			writeJSON(w, http.StatusOK, Fail("no active training session"))
			return
		}
		h.logger.Error("State failed", zap.Error(err))
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, Ok(state))
}

// SubmitReading 提交读数：结束会话、评分并更新进度
func (h *TrainingHandler) SubmitReading(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req submitReadingRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}
	if req.Systolic <= 0 || req.Diastolic <= 0 {
		writeJSON(w, http.StatusOK, Fail("systolic and diastolic must be positive"))
		return
	}

	result, err := h.training.SubmitReading(ctx, domain.BPReading{
		Systolic:  req.Systolic,
		Diastolic: req.Diastolic,
	})
	if err != nil {
		if errors.Is(err, service.ErrNoActiveSession) {
			writeJSON(w, http.StatusOK, Fail("no active training session"))
			return
		}
		h.logger.Error("SubmitReading failed", zap.Error(err))
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, Ok(result))
}

// AbortSession 放弃当前会话（不评分）
func (h *TrainingHandler) AbortSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.training.AbortSession(ctx); err != nil {
		if errors.Is(err, service.ErrNoActiveSession) {
			writeJSON(w, http.StatusOK, Fail("no active training session"))
			return
		}
		h.logger.Error("AbortSession failed", zap.Error(err))
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, Ok(map[string]any{"aborted": true}))
}

// Scenarios 场景目录（含解锁状态和教学参考范围）
func (h *TrainingHandler) Scenarios(auth *service.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := auth.CurrentProgress()
		if err != nil {
			writeJSON(w, http.StatusOK, Fail("not logged in"))
			return
		}

		infos := make([]scenarioInfo, 0, len(domain.ScenarioKeys))
		for _, key := range domain.ScenarioKeys {
			sp := p.Scenario(key)
			if sp == nil {
				continue
			}
			infos = append(infos, scenarioInfo{
				Key:       key,
				Name:      domain.ScenarioNames[key],
				Unlocked:  sp.Unlocked,
				Completed: sp.Completed,
				Range:     scenario.Ranges(key),
			})
		}

		writeJSON(w, http.StatusOK, Ok(infos))
	}
}
