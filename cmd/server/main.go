package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/The-Joker-Game/fool-stone-sub000/internal/config"
	"github.com/The-Joker-Game/fool-stone-sub000/internal/logger"
	"github.com/The-Joker-Game/fool-stone-sub000/internal/network/server"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "配置文件路径")
	flag.Parse()

	if err := logger.Init(); err != nil {
		log.Printf("日志初始化失败: %v", err)
	} else {
		log.Printf("📋 日志文件: %s", logger.GetLogPath())
	}

	// 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("加载配置文件失败，使用默认配置: %v", err)
		cfg = config.Default()
	}

	// 创建服务器
	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("创建服务器失败: %v", err)
	}

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("正在关闭服务器...")
		srv.Shutdown()
		os.Exit(0)
	}()

	// 启动服务器
	log.Println("🦢 鹅鸭杀服务器启动中...")
	if err := srv.Start(); err != nil {
		log.Fatalf("服务器启动失败: %v", err)
	}
}
