package server

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// IPRateLimiter 按 IP 限制新连接频率，防御连接风暴
type IPRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*ipLimiterEntry

	perSecond float64
	burst     int
}

type ipLimiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewIPRateLimiter(perSecond float64, burst int) *IPRateLimiter {
	rl := &IPRateLimiter{
		limiters:  make(map[string]*ipLimiterEntry),
		perSecond: perSecond,
		burst:     burst,
	}

	// 定期回收久未出现的 IP，防止 map 无限增长
	go rl.cleanupLoop()

	return rl
}

// Allow 该 IP 的新连接是否放行
func (rl *IPRateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	entry, ok := rl.limiters[ip]
	if !ok {
		entry = &ipLimiterEntry{limiter: rate.NewLimiter(rate.Limit(rl.perSecond), rl.burst)}
		rl.limiters[ip] = entry
	}
	entry.lastSeen = time.Now()
	rl.mu.Unlock()

	return entry.limiter.Allow()
}

func (rl *IPRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-10 * time.Minute)
		rl.mu.Lock()
		for ip, entry := range rl.limiters {
			if entry.lastSeen.Before(cutoff) {
				delete(rl.limiters, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// MessageRateLimiter 按客户端限制消息频率
type MessageRateLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*rate.Limiter
	perSecond int
}

func NewMessageRateLimiter(perSecond int) *MessageRateLimiter {
	return &MessageRateLimiter{
		limiters:  make(map[string]*rate.Limiter),
		perSecond: perSecond,
	}
}

// Allow 该客户端的一条消息是否放行
func (ml *MessageRateLimiter) Allow(clientID string) bool {
	ml.mu.Lock()
	limiter, ok := ml.limiters[clientID]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(ml.perSecond), ml.perSecond*2)
		ml.limiters[clientID] = limiter
	}
	ml.mu.Unlock()

	return limiter.Allow()
}

// Remove 客户端断开后释放其限流器
func (ml *MessageRateLimiter) Remove(clientID string) {
	ml.mu.Lock()
	delete(ml.limiters, clientID)
	ml.mu.Unlock()
}

// GetClientIP 提取真实客户端 IP，兼容反向代理
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx >= 0 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
