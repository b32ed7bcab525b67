package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"sistema-asistencia/internal/shared/connection"
)

// Policy holds the attendance and ledger rules that operators may tune.
type Policy struct {
	DailyCapHours       float64
	StaleThresholdHours float64
	StaleCreditHours    float64
	CapThresholdHours   float64
	CapCreditHours      float64
	MinSessionHours     float64
	MaxAdjustmentHours  float64
	MinReasonLength     int
}

type Config struct {
	Port            string
	DB              connection.DBConfig
	RedisAddr       string
	KafkaBroker     string
	JWTSecret       string
	CORSOrigins     []string
	MaintenanceCron string
	Policy          Policy
}

func defaults(v *viper.Viper) {
	v.SetDefault("port", "3000")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_password", "")
	v.SetDefault("db_name", "asistencia")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_sslmode", "disable")
	v.SetDefault("redis_addr", "")
	v.SetDefault("kafka_broker", "")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("cors_origins", "http://localhost:3000")
	v.SetDefault("maintenance_cron", "@every 15m")

	v.SetDefault("daily_cap_hours", 10.0)
	v.SetDefault("stale_threshold_hours", 24.0)
	v.SetDefault("stale_credit_hours", 4.0)
	v.SetDefault("cap_threshold_hours", 10.0)
	v.SetDefault("cap_credit_hours", 10.0)
	v.SetDefault("min_session_hours", 3.0)
	v.SetDefault("max_adjustment_hours", 100.0)
	v.SetDefault("min_reason_length", 10)
}

// Load reads .env when present, then the process environment. Keys are the upper-cased names, e.g. DB_HOST.
func Load() Config {
	_ = godotenv.Load()

	v := viper.New()
	v.SetTypeByDefaultValue(true)
	defaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) Config {
	return Config{
		Port: v.GetString("port"),
		DB: connection.DBConfig{
			Host:     v.GetString("db_host"),
			User:     v.GetString("db_user"),
			Password: v.GetString("db_password"),
			Name:     v.GetString("db_name"),
			Port:     v.GetString("db_port"),
			SSLMode:  v.GetString("db_sslmode"),
		},
		RedisAddr:       v.GetString("redis_addr"),
		KafkaBroker:     v.GetString("kafka_broker"),
		JWTSecret:       v.GetString("jwt_secret"),
		CORSOrigins:     splitList(v.GetString("cors_origins")),
		MaintenanceCron: v.GetString("maintenance_cron"),
		Policy: Policy{
			DailyCapHours:       v.GetFloat64("daily_cap_hours"),
			StaleThresholdHours: v.GetFloat64("stale_threshold_hours"),
			StaleCreditHours:    v.GetFloat64("stale_credit_hours"),
			CapThresholdHours:   v.GetFloat64("cap_threshold_hours"),
			CapCreditHours:      v.GetFloat64("cap_credit_hours"),
			MinSessionHours:     v.GetFloat64("min_session_hours"),
			MaxAdjustmentHours:  v.GetFloat64("max_adjustment_hours"),
			MinReasonLength:     v.GetInt("min_reason_length"),
		},
	}
}

func DefaultPolicy() Policy {
	v := viper.New()
	defaults(v)
	return fromViper(v).Policy
}

// Hours converts a fractional hour setting to a duration.
func Hours(h float64) time.Duration {
	return time.Duration(h * float64(time.Hour))
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
