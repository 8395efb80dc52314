package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/vladimiradmaev/diabetes-diary/internal/config"
)

func main() {
	fmt.Println("🔍 Checking configuration...")

	if err := godotenv.Load(); err != nil {
		fmt.Printf("⚠️  .env file not found: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("❌ Configuration is invalid:\n%v\n", err)
		os.Exit(1)
	}

	fmt.Println("✅ Configuration is valid!")
	fmt.Printf("📋 Configuration details:\n")
	fmt.Printf("  - Storage Backend: %s\n", cfg.Storage.Backend)
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		fmt.Printf("  - Storage Path: %s\n", cfg.Storage.Path)
	case config.BackendPostgres:
		fmt.Printf("  - DB Host: %s\n", cfg.DB.Host)
		fmt.Printf("  - DB Port: %s\n", cfg.DB.Port)
		fmt.Printf("  - DB User: %s\n", cfg.DB.User)
		fmt.Printf("  - DB Password: %s\n", maskToken(cfg.DB.Password))
		fmt.Printf("  - DB Name: %s\n", cfg.DB.Name)
	case config.BackendRedis:
		fmt.Printf("  - Redis Address: %s\n", cfg.Redis.Addr())
		fmt.Printf("  - Redis Password: %s\n", maskToken(cfg.Redis.Password))
		fmt.Printf("  - Redis DB: %d\n", cfg.Redis.DB)
	}
	if cfg.Storage.Prefix != "" {
		fmt.Printf("  - Key Prefix: %s\n", cfg.Storage.Prefix)
	}
	fmt.Printf("  - Timezone: %s\n", cfg.Timezone)
	fmt.Printf("  - Report Cache Size: %d\n", cfg.ReportCacheSize)
	fmt.Printf("  - Log Level: %v\n", cfg.Logger.Level)
	fmt.Printf("  - Log Output: %s\n", cfg.Logger.Output)
	fmt.Printf("  - Log Format: %s\n", cfg.Logger.Format)
}

func maskToken(token string) string {
	if token == "" {
		return "<not set>"
	}
	if len(token) <= 8 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
