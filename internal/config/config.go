package config

import (
	"os"
	"strconv"
	"time"

	"github.com/osamahameedprojects/blood-pressure-simulator/common/config"
)

// Config 训练模拟器服务配置
type Config struct {
	HTTP struct {
		Addr string // 监听地址，如 ":8080"
	}

	// DBEnabled 为 false 时使用内存仓储（本地联测/演示模式）
	DBEnabled bool

	Database config.DatabaseConfig
	Redis    config.RedisConfig

	// Bridge 设备桥配置（Arduino 袖带按钮，可选）
	Bridge struct {
		MQTTEnabled bool
		MQTT        config.MQTTConfig
		ButtonTopic string // 入站按钮事件主题
		StatusTopic string // 出站压力状态主题
	}

	// Simulator 会话定时参数
	Simulator struct {
		DeflateInterval time.Duration // 放气 tick 周期，默认 100ms
		PushInterval    time.Duration // 桥推送周期，默认 100ms
	}

	// Stream 测量记录发布的 Redis Stream
	Stream struct {
		AttemptStream string
	}

	Log struct {
		Level  string
		Format string
	}
}

// Load 加载配置
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")
	cfg.DBEnabled = getEnvBool("DB_ENABLED", false)

	// 从环境变量加载（默认值）
	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = getEnvInt("DB_PORT", 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "bp_simulator")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = getEnvInt("DB_MAX_CONNS", 10)
	cfg.Database.MaxIdle = getEnvInt("DB_MAX_IDLE", 5)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvInt("REDIS_DB", 0)

	// 设备桥（默认关闭，缺席时静默降级为纯 UI 输入）
	cfg.Bridge.MQTTEnabled = getEnvBool("BRIDGE_MQTT_ENABLED", false)
	cfg.Bridge.MQTT.Broker = getEnv("BRIDGE_MQTT_BROKER", "tcp://localhost:1883")
	cfg.Bridge.MQTT.ClientID = getEnv("BRIDGE_MQTT_CLIENT_ID", "bp-simulator")
	cfg.Bridge.MQTT.Username = getEnv("BRIDGE_MQTT_USERNAME", "")
	cfg.Bridge.MQTT.Password = getEnv("BRIDGE_MQTT_PASSWORD", "")
	cfg.Bridge.MQTT.QoS = byte(getEnvInt("BRIDGE_MQTT_QOS", 1))
	cfg.Bridge.ButtonTopic = getEnv("BRIDGE_BUTTON_TOPIC", "bp/cuff/button")
	cfg.Bridge.StatusTopic = getEnv("BRIDGE_STATUS_TOPIC", "bp/cuff/status")

	cfg.Simulator.DeflateInterval = getEnvDuration("SIM_DEFLATE_INTERVAL_MS", 100)
	cfg.Simulator.PushInterval = getEnvDuration("SIM_PUSH_INTERVAL_MS", 100)

	cfg.Stream.AttemptStream = getEnv("ATTEMPT_STREAM", "bp:attempt:stream")

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultMillis int) time.Duration {
	return time.Duration(getEnvInt(key, defaultMillis)) * time.Millisecond
}
