package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/The-Joker-Game/fool-stone-sub000/internal/config"
	"github.com/The-Joker-Game/fool-stone-sub000/internal/game/room"
	"github.com/The-Joker-Game/fool-stone-sub000/internal/logger"
	"github.com/The-Joker-Game/fool-stone-sub000/internal/metrics"
	"github.com/The-Joker-Game/fool-stone-sub000/internal/network/server/handlers"
	"github.com/The-Joker-Game/fool-stone-sub000/internal/protocol"
	"github.com/The-Joker-Game/fool-stone-sub000/internal/storage"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// CheckOrigin 在 NewServer 中按配置注入
	EnableCompression: false,
}

// 等待中的房间超时时间
const lobbyRoomTimeout = 10 * time.Minute

// Server WebSocket 服务器
type Server struct {
	config      *config.Config
	redis       *redis.Client
	resultStore *storage.ResultStore
	roomManager *room.RoomManager
	handler     *handlers.Handler

	clients   map[string]*Client
	clientsMu sync.RWMutex

	// 安全组件
	connLimiter    *IPRateLimiter
	messageLimiter *MessageRateLimiter

	// 连接控制
	maxConnections int
	semaphore      chan struct{} // 信号量控制并发连接数
}

// NewServer 创建服务器实例。Redis 不可用时降级运行，排行榜与对局历史不可用。
func NewServer(cfg *config.Config) (*Server, error) {
	s := &Server{
		config:         cfg,
		clients:        make(map[string]*Client),
		connLimiter:    NewIPRateLimiter(cfg.Security.ConnPerSecond, cfg.Security.ConnBurst),
		messageLimiter: NewMessageRateLimiter(cfg.Security.MessagesPerSecond),
		maxConnections: cfg.Server.MaxConnections,
		semaphore:      make(chan struct{}, cfg.Server.MaxConnections),
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("⚠️ Redis 连接失败（%v），排行榜与对局历史不可用", err)
		_ = rdb.Close()
	} else {
		s.redis = rdb
		s.resultStore = storage.NewResultStore(rdb)
	}

	var recorder room.ResultRecorder
	if s.resultStore != nil {
		recorder = s.resultStore
	}
	s.roomManager = room.NewRoomManager(&cfg.Game, recorder, lobbyRoomTimeout)
	s.handler = handlers.NewHandler(s)

	upgrader.CheckOrigin = originChecker(cfg.Security.AllowedOrigins)

	log.Printf("🔒 安全配置: 连接限制=%.0f/s, 消息限制=%d/s, 最大连接数=%d",
		cfg.Security.ConnPerSecond, cfg.Security.MessagesPerSecond, cfg.Server.MaxConnections)

	return s, nil
}

// originChecker 按配置构建来源校验，未配置时放行所有来源
func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		set[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || set[origin]
	}
}

// Start 启动服务器
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	go s.monitorStats()

	log.Printf("🚀 服务器启动在 ws://%s/ws (CPU核心数: %d)", addr, runtime.NumCPU())
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second, // 防止 Slowloris 攻击
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return server.ListenAndServe()
}

// handleWebSocket 处理 WebSocket 连接
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	clientIP := GetClientIP(r)

	// 连接数限制检查
	select {
	case s.semaphore <- struct{}{}:
	default:
		log.Printf("🚫 达到最大连接数限制 (%d), IP: %s", s.maxConnections, clientIP)
		metrics.ConnectionsRejected.WithLabelValues("server_full").Inc()
		http.Error(w, "Server Full", http.StatusServiceUnavailable)
		return
	}

	// 速率限制检查
	if !s.connLimiter.Allow(clientIP) {
		<-s.semaphore
		log.Printf("🚫 IP %s 连接过于频繁", clientIP)
		metrics.ConnectionsRejected.WithLabelValues("rate_limit").Inc()
		http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		<-s.semaphore
		log.Printf("WebSocket 升级失败: %v", err)
		return
	}

	client := NewClient(s, conn)
	client.IP = clientIP
	s.registerClient(client)
	metrics.WSConnectionsActive.Inc()

	client.SendMessage(protocol.MustNewMessage(protocol.MsgConnected, protocol.ConnectedPayload{
		PlayerID:   client.ID,
		PlayerName: client.Name,
	}))

	log.Printf("✅ 玩家 %s (%s) 已连接", client.Name, client.ID)

	go client.ReadPump()
	go client.WritePump()
}

// handleHealth 健康检查接口
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) registerClient(client *Client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	s.clients[client.ID] = client
}

func (s *Server) unregisterClient(client *Client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	if _, ok := s.clients[client.ID]; ok {
		delete(s.clients, client.ID)
		<-s.semaphore
		metrics.WSConnectionsActive.Dec()
		log.Printf("❌ 玩家 %s (%s) 已断开", client.Name, client.ID)
	}
}

// GetOnlineCount 获取在线人数
func (s *Server) GetOnlineCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

// RoomManager 供消息处理器访问房间管理器
func (s *Server) RoomManager() *room.RoomManager {
	return s.roomManager
}

// ResultStore 供消息处理器访问战绩存储，可能为 nil
func (s *Server) ResultStore() *storage.ResultStore {
	return s.resultStore
}

// monitorStats 定期监控服务器状态
func (s *Server) monitorStats() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		log.Printf("📊 [监控] 在线: %d | 对局中: %d | Goroutines: %d | 活跃连接: %d/%d | 内存: %.2f MB",
			s.GetOnlineCount(),
			s.roomManager.GetActiveGamesCount(),
			runtime.NumGoroutine(),
			len(s.semaphore),
			s.maxConnections,
			float64(m.Alloc)/1024/1024)
	}
}

// Shutdown 关闭所有客户端连接与 Redis
func (s *Server) Shutdown() {
	s.clientsMu.Lock()
	for _, client := range s.clients {
		client.Close()
	}
	s.clientsMu.Unlock()

	if s.redis != nil {
		_ = s.redis.Close()
	}

	log.Println("服务器已关闭")
	logger.Close()
}
