package configs

import (
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// AppConfig holds the application configuration.
// It's populated once by LoadConfig.
var AppConfig Configuration
var once sync.Once

// Configuration defines the structure for application settings.
type Configuration struct {
	SessionSecret      string
	SessionTTL         time.Duration
	ServerPort         string
	PageSize           int
	CORSAllowedOrigins []string
}

const (
	defaultSessionSecret = "qms-dev-secret"        // Default session secret, used if env var is not set.
	envSessionSecretKey  = "SESSION_SECRET_KEY"    // Environment variable name for the session secret.
	defaultServerPort    = "8081"                  // Default server port.
	envServerPortKey     = "SERVER_PORT"           // Environment variable name for the server port.
	defaultPageSize      = 20                      // 默认分页大小
	envPageSizeKey       = "PAGE_SIZE"             // 分页大小环境变量名
	defaultCORSOrigins   = "http://localhost:3000" // 默认允许的前端来源
	envCORSOriginsKey    = "CORS_ALLOWED_ORIGINS"  // 允许来源列表环境变量名，逗号分隔
	sessionTTL           = 24 * time.Hour          // 会话有效期
)

// LoadConfig loads configuration from environment variables or defaults.
// It should be called once at application startup.
func LoadConfig() {
	once.Do(func() {
		sessionSecret := os.Getenv(envSessionSecretKey)
		if sessionSecret == "" {
			sessionSecret = defaultSessionSecret
			log.Printf("警告: %s 环境变量未设置。正在使用默认的会话密钥。请在生产环境中设置此变量以保证安全。", envSessionSecretKey)
		}

		serverPort := os.Getenv(envServerPortKey)
		if serverPort == "" {
			serverPort = defaultServerPort
			log.Printf("信息: %s 环境变量未设置。正在使用默认端口 %s。", envServerPortKey, defaultServerPort)
		}

		pageSize := defaultPageSize
		if raw := os.Getenv(envPageSizeKey); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				log.Printf("警告: %s 的值 %q 无效，使用默认分页大小 %d。", envPageSizeKey, raw, defaultPageSize)
			} else {
				pageSize = parsed
			}
		}

		originsRaw := os.Getenv(envCORSOriginsKey)
		if originsRaw == "" {
			originsRaw = defaultCORSOrigins
			log.Printf("信息: %s 环境变量未设置。正在使用默认前端来源 %s。这在生产环境中可能不正确。", envCORSOriginsKey, defaultCORSOrigins)
		}
		var origins []string
		for _, o := range strings.Split(originsRaw, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				origins = append(origins, trimmed)
			}
		}

		AppConfig = Configuration{
			SessionSecret:      sessionSecret,
			SessionTTL:         sessionTTL,
			ServerPort:         serverPort,
			PageSize:           pageSize,
			CORSAllowedOrigins: origins,
		}

		log.Println("应用配置已加载。")
	})
}
