package bridge

import (
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/osamahameedprojects/blood-pressure-simulator/common/mqtt"
)

// publishBufferSize 出站发布队列长度；broker 跟不上时丢最新消息
const publishBufferSize = 32

// MQTTBridge Arduino 袖带桥：订阅按钮主题，发布压力状态主题。
//
// 发布走单独的 goroutine，PushUpdate/PushEnd 本身永不阻塞压力循环。
type MQTTBridge struct {
	client      *mqtt.Client
	logger      *zap.Logger
	buttonTopic string
	statusTopic string
	qos         byte

	queue chan []byte
	once  sync.Once
	done  chan struct{}
}

// NewMQTTBridge subscribes to the button topic and starts the publish loop.
// onButton is invoked for each inbound button_pressed event.
func NewMQTTBridge(client *mqtt.Client, buttonTopic, statusTopic string, qos byte, onButton func(), logger *zap.Logger) (*MQTTBridge, error) {
	b := &MQTTBridge{
		client:      client,
		logger:      logger,
		buttonTopic: buttonTopic,
		statusTopic: statusTopic,
		qos:         qos,
		queue:       make(chan []byte, publishBufferSize),
		done:        make(chan struct{}),
	}

	err := client.Subscribe(buttonTopic, qos, func(topic string, payload []byte) error {
		var msg InboundMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			return fmt.Errorf("malformed bridge payload: %w", err)
		}
		if msg.Event == EventButtonPressed && onButton != nil {
			onButton()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	go b.publishLoop()

	return b, nil
}

func (b *MQTTBridge) publishLoop() {
	for {
		select {
		case <-b.done:
			return
		case data := <-b.queue:
			if err := b.client.Publish(b.statusTopic, b.qos, false, data); err != nil {
				b.logger.Warn("mqtt status publish failed", zap.Error(err))
			}
		}
	}
}

// enqueue 非阻塞入队，队列满时丢弃
func (b *MQTTBridge) enqueue(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		b.logger.Error("failed to marshal bridge message", zap.Error(err))
		return
	}
	select {
	case b.queue <- data:
	default:
	}
}

// PushUpdate implements simulator.BridgeNotifier.
func (b *MQTTBridge) PushUpdate(pressure int, overMax bool) {
	b.enqueue(UpdateMessage{
		Event:    EventBPUpdate,
		Pressure: pressure,
		OverMax:  overMax,
	})
}

// PushEnd implements simulator.BridgeNotifier.
func (b *MQTTBridge) PushEnd() {
	b.enqueue(EndMessage{Event: EventBPEnd})
}

// Close stops the publish loop and unsubscribes from the button topic.
func (b *MQTTBridge) Close() {
	b.once.Do(func() {
		close(b.done)
		if err := b.client.Unsubscribe(b.buttonTopic); err != nil {
			b.logger.Warn("mqtt unsubscribe failed", zap.Error(err))
		}
	})
}
