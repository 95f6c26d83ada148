package main

import (
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/freshcart/internal/app"
	"github.com/freshcart/internal/config"
	"github.com/freshcart/internal/logger"

	"github.com/gin-gonic/gin"
)

const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiDim   = "\033[2m"
	ansiGreen = "\033[32m"
	ansiCyan  = "\033[36m"
)

func main() {
	printStartupBanner()

	// 加载配置
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if isWeakSecret(cfg.Storage.Secret) {
		if cfg.Server.Mode == "release" && cfg.Storage.Driver != "memory" {
			stdLog.Fatalf("存储加密密钥过弱或未配置，请在生产环境中配置 storage.secret")
		}
		stdLog.Printf("警告: 存储加密密钥过弱或未配置，会话将以明文或弱密钥保存")
	}

	// 设置 Gin 模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
	}); err != nil {
		stdLog.Fatalf("服务运行失败: %v", err)
	}
}

func printStartupBanner() {
	fmt.Println(ansiCyan + ansiBold + "freshcart storefront core" + ansiReset)
	fmt.Println(ansiGreen + "cart · pricing · session" + ansiReset)
	fmt.Println(ansiDim + "--------------------------------------------------------------" + ansiReset)
}

func isWeakSecret(secret string) bool {
	if len(secret) < 32 {
		return true
	}
	normalized := strings.ToLower(secret)
	return strings.Contains(normalized, "change-me") || strings.Contains(normalized, "your-secret-key")
}
