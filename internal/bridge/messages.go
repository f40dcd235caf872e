package bridge

// Wire events shared by the WebSocket and MQTT bridges.
const (
	EventBPUpdate      = "bp_update"
	EventBPEnd         = "bp_end"
	EventButtonPressed = "button_pressed"
	EventPulseStart    = "pulse_start"
	EventPulseStop     = "pulse_stop"
)

// UpdateMessage 出站压力状态（每个推送周期一条）
type UpdateMessage struct {
	Event    string `json:"event"`
	Pressure int    `json:"pressure"`
	OverMax  bool   `json:"overMax"`
}

// EndMessage 出站会话结束信号
type EndMessage struct {
	Event string `json:"event"`
}

// PulseMessage 出站脉搏提示音控制（入窗开始/出窗停止）
type PulseMessage struct {
	Event  string `json:"event"`
	BeatMs int64  `json:"beatMs,omitempty"`
}

// InboundMessage 入站事件（目前仅 button_pressed）
type InboundMessage struct {
	Event string `json:"event"`
}
