package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 服务端配置
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Redis    RedisConfig    `yaml:"redis"`
	Security SecurityConfig `yaml:"security"`
	Game     GameConfig     `yaml:"game"`
}

// ServerConfig WebSocket 服务器配置
type ServerConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	MaxConnections int    `yaml:"max_connections"`
}

// RedisConfig Redis 配置（仅用于对局结果与排行榜，房间状态全部驻留内存）
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	AllowedOrigins    []string `yaml:"allowed_origins"`
	ConnPerSecond     float64  `yaml:"conn_per_second"` // 每 IP 每秒允许的新连接数
	ConnBurst         int      `yaml:"conn_burst"`      // 每 IP 突发连接数
	MessagesPerSecond int      `yaml:"msgs_per_second"` // 每客户端每秒消息数
}

// GameConfig 游戏配置（时长均为秒）
type GameConfig struct {
	MinPlayers int `yaml:"min_players"`
	MaxPlayers int `yaml:"max_players"`
	DuckRatio  int `yaml:"duck_ratio"` // 每多少名玩家分配一只鸭子

	RoleReveal  int `yaml:"role_reveal"`  // 亮身份阶段时长
	GreenLight  int `yaml:"green_light"`  // 移动阶段时长
	YellowLight int `yaml:"yellow_light"` // 到达确认阶段时长
	RedLight    int `yaml:"red_light"`    // 危险阶段时长
	Meeting     int `yaml:"meeting"`      // 会议讨论时长
	MeetingExt  int `yaml:"meeting_ext"`  // 会议延长时长（每场会议最多一次）
	Voting      int `yaml:"voting"`       // 投票时长
	Execution   int `yaml:"execution"`    // 处决公示时长

	OxygenMax    float64 `yaml:"oxygen_max"`    // 初始/上限氧气（秒）
	OxygenDrain  float64 `yaml:"oxygen_drain"`  // 每秒氧气消耗
	AssistOxygen float64 `yaml:"assist_oxygen"` // 单次援助转移的氧气量
	TaskRefill   float64 `yaml:"task_refill"`   // 任务成功的氧气补给
	LeakDrain    float64 `yaml:"leak_drain"`    // 任务失败后追加的氧气泄漏速率
}

// RoleRevealDuration 返回亮身份阶段时长
func (c *GameConfig) RoleRevealDuration() time.Duration {
	return time.Duration(c.RoleReveal) * time.Second
}

// GreenLightDuration 返回移动阶段时长
func (c *GameConfig) GreenLightDuration() time.Duration {
	return time.Duration(c.GreenLight) * time.Second
}

// YellowLightDuration 返回到达确认阶段时长
func (c *GameConfig) YellowLightDuration() time.Duration {
	return time.Duration(c.YellowLight) * time.Second
}

// RedLightDuration 返回危险阶段时长
func (c *GameConfig) RedLightDuration() time.Duration {
	return time.Duration(c.RedLight) * time.Second
}

// MeetingDuration 返回会议讨论时长
func (c *GameConfig) MeetingDuration() time.Duration {
	return time.Duration(c.Meeting) * time.Second
}

// MeetingExtDuration 返回会议延长时长
func (c *GameConfig) MeetingExtDuration() time.Duration {
	return time.Duration(c.MeetingExt) * time.Second
}

// VotingDuration 返回投票时长
func (c *GameConfig) VotingDuration() time.Duration {
	return time.Duration(c.Voting) * time.Second
}

// ExecutionDuration 返回处决公示时长
func (c *GameConfig) ExecutionDuration() time.Duration {
	return time.Duration(c.Execution) * time.Second
}

// Load 加载配置文件
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Default 返回默认配置
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults 为零值字段填入默认值
func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 1917
	}
	if c.Server.MaxConnections == 0 {
		c.Server.MaxConnections = 1024
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.Security.ConnPerSecond == 0 {
		c.Security.ConnPerSecond = 5
	}
	if c.Security.ConnBurst == 0 {
		c.Security.ConnBurst = 10
	}
	if c.Security.MessagesPerSecond == 0 {
		c.Security.MessagesPerSecond = 20
	}

	g := &c.Game
	if g.MinPlayers == 0 {
		g.MinPlayers = 5
	}
	if g.MaxPlayers == 0 {
		g.MaxPlayers = 10
	}
	if g.DuckRatio == 0 {
		g.DuckRatio = 4
	}
	if g.RoleReveal == 0 {
		g.RoleReveal = 10
	}
	if g.GreenLight == 0 {
		g.GreenLight = 90
	}
	if g.YellowLight == 0 {
		g.YellowLight = 10
	}
	if g.RedLight == 0 {
		g.RedLight = 60
	}
	if g.Meeting == 0 {
		g.Meeting = 60
	}
	if g.MeetingExt == 0 {
		g.MeetingExt = 30
	}
	if g.Voting == 0 {
		g.Voting = 30
	}
	if g.Execution == 0 {
		g.Execution = 8
	}
	if g.OxygenMax == 0 {
		g.OxygenMax = 300
	}
	if g.OxygenDrain == 0 {
		g.OxygenDrain = 1
	}
	if g.AssistOxygen == 0 {
		g.AssistOxygen = 60
	}
	if g.TaskRefill == 0 {
		g.TaskRefill = 45
	}
	if g.LeakDrain == 0 {
		g.LeakDrain = 0.5
	}
}
