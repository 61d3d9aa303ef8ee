package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/vitos/dex_trade_engine/internal/infrastructure/chain"
	"github.com/vitos/dex_trade_engine/internal/infrastructure/logger"
	"github.com/vitos/dex_trade_engine/internal/infrastructure/storage"
	"github.com/vitos/dex_trade_engine/internal/web"
)

type Config struct {
	Node struct {
		WSEndpoint string `yaml:"ws_endpoint"`
	} `yaml:"node"`
	Cache struct {
		Path string `yaml:"path"`
	} `yaml:"cache"`
	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
}

func loadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	flag.Parse()

	// 1. Load Config
	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Init Logger
	log, err := logger.NewLogger(cfg.Logging.Level)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// 3. Init Storage
	store, err := storage.NewSQLiteStore(cfg.Cache.Path)
	if err != nil {
		log.Fatal("Failed to init sqlite", zap.Error(err))
	}
	defer store.Close()

	// 4. Init Node Gateway
	node := chain.NewNodeClient(cfg.Node.WSEndpoint)
	connectCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	if err := node.Connect(connectCtx); err != nil {
		cancel()
		log.Fatal("Failed to connect to node", zap.String("endpoint", cfg.Node.WSEndpoint), zap.Error(err))
	}
	cancel()
	defer node.Close()

	// 5. Init Web Server
	server := web.NewServer(cfg.Server.Port, node, store, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		log.Info("Shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			log.Error("Web server failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Shutdown error", zap.Error(err))
	}
}
