// Package config загружает конфигурацию сервиса из переменных окружения.
// Используется envconfig для маппинга переменных окружения на поля структуры.
//
// Тарифная политика (лимиты Free/Premium/VIP) вынесена в конфиг намеренно:
// дефолты соответствуют продуктовым, но в стейджинге их удобно крутить
// без пересборки.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config содержит ВСЕ настройки приложения.
type Config struct {
	// --- Database ---
	// В Docker внутри контейнера "localhost" почти всегда неправильно.
	// Дефолт ставим "postgres" (имя сервиса в docker-compose), а для локалки переопределяй DB_HOST=localhost.
	DBHost     string `envconfig:"DB_HOST" default:"postgres"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"lottouser"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" default:"lotto_backend"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	DBMaxConns int32  `envconfig:"DB_MAX_CONNS" default:"25"`
	DBMinConns int32  `envconfig:"DB_MIN_CONNS" default:"5"`

	// --- Application ---
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	AppLogLevel string `envconfig:"APP_LOG_LEVEL" default:"debug"`

	// --- Тариф Free ---
	FreeDailyBonus  int64 `envconfig:"TIER_FREE_DAILY_BONUS" default:"3"`
	FreeMaxBalance  int64 `envconfig:"TIER_FREE_MAX_BALANCE" default:"100"`
	FreeAdReward    int64 `envconfig:"TIER_FREE_AD_REWARD" default:"1"`
	FreeMaxAdPerDay int   `envconfig:"TIER_FREE_MAX_ADS_PER_DAY" default:"3"`

	// --- Тариф Premium ---
	PremiumMaxBalance  int64 `envconfig:"TIER_PREMIUM_MAX_BALANCE" default:"1000"`
	PremiumAdReward    int64 `envconfig:"TIER_PREMIUM_AD_REWARD" default:"1"`
	PremiumMaxAdPerDay int   `envconfig:"TIER_PREMIUM_MAX_ADS_PER_DAY" default:"3"`
	// Premium получает награду за рекламу только при низком балансе:
	// реклама нужна как "дозаправка", а не как источник дохода.
	PremiumAdThreshold int64 `envconfig:"TIER_PREMIUM_AD_THRESHOLD" default:"10"`

	// --- Переводы ---
	// Потолок одного перевода и ставка комиссии (комиссия удерживается платформой).
	TransferCeiling int64   `envconfig:"TRANSFER_CEILING" default:"1000"`
	TransferFeeRate float64 `envconfig:"TRANSFER_FEE_RATE" default:"0.1"`

	// --- Призовые суммы по рангам (воны) ---
	PrizeRank1 int64 `envconfig:"PRIZE_RANK_1" default:"2000000000"`
	PrizeRank2 int64 `envconfig:"PRIZE_RANK_2" default:"50000000"`
	PrizeRank3 int64 `envconfig:"PRIZE_RANK_3" default:"1500000"`
	PrizeRank4 int64 `envconfig:"PRIZE_RANK_4" default:"50000"`
	PrizeRank5 int64 `envconfig:"PRIZE_RANK_5" default:"5000"`

	// --- Планировщик ---
	// Расчёт тиража запускается после субботнего розыгрыша (20:00 KST).
	SchedulerEnabled  bool   `envconfig:"SCHEDULER_ENABLED" default:"true"`
	SchedulerTimezone string `envconfig:"SCHEDULER_TIMEZONE" default:"Asia/Seoul"`
	SettleCronSpec    string `envconfig:"SETTLE_CRON_SPEC" default:"0 21 * * 6"`
}

// DatabaseDSN возвращает строку подключения к PostgreSQL в формате DSN.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// Validate проверяет согласованность настроек.
func (c *Config) Validate() error {
	if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("некорректные DB_MIN_CONNS/DB_MAX_CONNS")
	}
	if c.FreeMaxBalance <= 0 || c.PremiumMaxBalance <= 0 {
		return fmt.Errorf("потолок баланса должен быть положительным")
	}
	if c.TransferCeiling <= 0 {
		return fmt.Errorf("TRANSFER_CEILING должен быть > 0")
	}
	if c.TransferFeeRate < 0 || c.TransferFeeRate >= 1 {
		return fmt.Errorf("TRANSFER_FEE_RATE должен быть в [0, 1)")
	}
	if c.PrizeRank1 <= 0 || c.PrizeRank2 <= 0 || c.PrizeRank3 <= 0 ||
		c.PrizeRank4 <= 0 || c.PrizeRank5 <= 0 {
		return fmt.Errorf("призовые суммы должны быть положительными")
	}
	return nil
}

// Load читает переменные окружения и заполняет структуру Config.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("не удалось загрузить конфигурацию: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
