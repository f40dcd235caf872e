package bridge

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// clientBufferSize 每个连接的发送缓冲。写满即丢弃该条消息：
// 桥是尽力而为的，慢客户端不能拖住压力更新。
const clientBufferSize = 16

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub 浏览器/设备 WebSocket 桥。
//
// 出站：压力更新、会话结束、脉搏提示音控制，广播给所有连接。
// 入站：button_pressed 事件等价于一次手动打气，经 OnButton 回调交给会话。
// 无连接时所有推送静默丢弃，核心不感知桥的存在与否。
type Hub struct {
	logger *zap.Logger

	mu      sync.Mutex
	clients map[*client]struct{}

	// OnButton 入站按钮事件回调（由服务层接线到当前会话的 Pump）
	onButton func()
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		logger:  logger,
		clients: make(map[*client]struct{}),
	}
}

// SetOnButton wires the inbound button event to a pump action.
func (h *Hub) SetOnButton(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onButton = fn
}

// HandleWS upgrades the request and runs the connection until it closes.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, clientBufferSize),
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("bridge client connected", zap.Int("clients", count))

	go h.writePump(c)
	h.readPump(c)
}

func (h *Hub) readPump(c *client) {
	defer h.removeClient(c)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg InboundMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.logger.Warn("malformed bridge message", zap.Error(err))
			continue
		}

		if msg.Event == EventButtonPressed {
			h.mu.Lock()
			fn := h.onButton
			h.mu.Unlock()
			if fn != nil {
				fn()
			}
		}
	}
}

func (h *Hub) writePump(c *client) {
	for data := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
}

func (h *Hub) removeClient(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	count := len(h.clients)
	h.mu.Unlock()

	c.conn.Close()
	h.logger.Info("bridge client disconnected", zap.Int("clients", count))
}

// broadcast 非阻塞投递：缓冲写满直接丢弃该客户端的这条消息
func (h *Hub) broadcast(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("failed to marshal bridge message", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
		}
	}
}

// PushUpdate implements simulator.BridgeNotifier.
func (h *Hub) PushUpdate(pressure int, overMax bool) {
	h.broadcast(UpdateMessage{
		Event:    EventBPUpdate,
		Pressure: pressure,
		OverMax:  overMax,
	})
}

// PushEnd implements simulator.BridgeNotifier.
func (h *Hub) PushEnd() {
	h.broadcast(EndMessage{Event: EventBPEnd})
}

// Start implements simulator.PulsePlayer: tells clients to begin looping the
// pulse cue at the given beat interval.
func (h *Hub) Start(beat time.Duration) {
	h.broadcast(PulseMessage{
		Event:  EventPulseStart,
		BeatMs: beat.Milliseconds(),
	})
}

// Stop implements simulator.PulsePlayer: stops and rewinds the cue.
func (h *Hub) Stop() {
	h.broadcast(PulseMessage{Event: EventPulseStop})
}

// CloseAll tears down every connection (service shutdown).
func (h *Hub) CloseAll() {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		h.removeClient(c)
	}
}
