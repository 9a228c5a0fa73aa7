package config

import (
	"github.com/spf13/viper"
	"sync"
)

var once sync.Once

func InitConfig() {
	once.Do(func() {
		viper.AutomaticEnv()

		viper.BindEnv("metrics_port", "METRICS_PORT")
		viper.BindEnv("telegram_bot_token", "TELEGRAM_BOT_TOKEN")
		viper.BindEnv("redis_addr", "REDIS_ADDR")
		viper.BindEnv("redis_password", "REDIS_PASSWORD")
		viper.BindEnv("redis_db", "REDIS_DB")
		viper.BindEnv("db_path", "DB_PATH")
		viper.BindEnv("check_interval_seconds", "CHECK_INTERVAL_SECONDS")
		viper.BindEnv("price_cache_ttl_seconds", "PRICE_CACHE_TTL_SECONDS")
		viper.BindEnv("max_assets", "MAX_ASSETS")
		viper.BindEnv("dispatch_workers", "DISPATCH_WORKERS")
		viper.BindEnv("debug", "DEBUG")
		viper.BindEnv("lang", "LANG")

		viper.SetDefault("metrics_port", 9090)
		viper.SetDefault("redis_addr", "localhost:6379")
		viper.SetDefault("redis_db", 0)
		viper.SetDefault("db_path", "/app/data/bot.db")
		viper.SetDefault("check_interval_seconds", 60)
		viper.SetDefault("price_cache_ttl_seconds", 55)
		viper.SetDefault("max_assets", 20)
		viper.SetDefault("dispatch_workers", 8)
		viper.SetDefault("debug", false)
		viper.SetDefault("lang", "en")
	})
}

func GetString(key string) string {
	InitConfig()
	return viper.GetString(key)
}

func GetInt(key string) int {
	InitConfig()
	return viper.GetInt(key)
}

func GetBool(key string) bool {
	InitConfig()
	return viper.GetBool(key)
}
