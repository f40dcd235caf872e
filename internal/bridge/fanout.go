package bridge

import "sync"

// Fanout 将会话推送复制到多个桥（浏览器 WebSocket + 可选 MQTT 袖带）
type Fanout struct {
	mu        sync.RWMutex
	notifiers []Notifier
}

// Notifier mirrors simulator.BridgeNotifier so the session only sees one target.
type Notifier interface {
	PushUpdate(pressure int, overMax bool)
	PushEnd()
}

func NewFanout(notifiers ...Notifier) *Fanout {
	targets := make([]Notifier, 0, len(notifiers))
	for _, n := range notifiers {
		if n != nil {
			targets = append(targets, n)
		}
	}
	return &Fanout{notifiers: targets}
}

// Add attaches another bridge. Intended for startup wiring; safe afterwards too.
func (f *Fanout) Add(n Notifier) {
	if n == nil {
		return
	}
	f.mu.Lock()
	f.notifiers = append(f.notifiers, n)
	f.mu.Unlock()
}

func (f *Fanout) PushUpdate(pressure int, overMax bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, n := range f.notifiers {
		n.PushUpdate(pressure, overMax)
	}
}

func (f *Fanout) PushEnd() {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, n := range f.notifiers {
		n.PushEnd()
	}
}
