package config

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	App struct {
		Env       string `env:"APP_ENV" env-default:"development"`
		Port      int    `env:"APP_PORT" env-default:"8080"`
		PublicURL string `env:"APP_PUBLIC_URL" env-default:"http://localhost:8080" env-description:"Base URL the OAuth providers redirect back to"`
		Scope     string `env:"APP_SCOPE" env-default:"default" env-description:"Owner scope of the persisted pending authorization"`
		SentryUrl string `env:"SENTRY_URL"`
	}
	Backend struct {
		URL           string        `env:"API_URL" env-default:"http://127.0.0.1:8000"`
		SchedulingURL string        `env:"SCHEDULING_URL" env-default:"https://calendly.com/directorflow/demo"`
		Timeout       time.Duration `env:"API_TIMEOUT" env-default:"30s"`
		UploadTimeout time.Duration `env:"UPLOAD_TIMEOUT" env-default:"10m" env-description:"Deadline for one segment upload"`
		PollInterval  time.Duration `env:"POLL_INTERVAL" env-default:"1s"`
	}
	Capture struct {
		FFmpeg        string `env:"CAPTURE_FFMPEG" env-default:"ffmpeg"`
		FrontDevice   string `env:"CAPTURE_FRONT_DEVICE" env-default:"/dev/video0"`
		RearDevice    string `env:"CAPTURE_REAR_DEVICE" env-default:"/dev/video1"`
		AudioFormat   string `env:"CAPTURE_AUDIO_FORMAT" env-default:"alsa"`
		AudioDevice   string `env:"CAPTURE_AUDIO_DEVICE" env-default:"default"`
		UploadWorkers int    `env:"UPLOAD_WORKERS" env-default:"4"`
	}
	Session struct {
		Token     string `env:"SESSION_TOKEN"`
		JWTSecret string `env:"SESSION_JWT_SECRET"`
	}
	Telegram struct {
		User  int64  `env:"TELEGRAM_USER"`
		Token string `env:"TELEGRAM_TOKEN"`
	}
	Pending struct {
		Store string        `env:"PENDING_STORE" env-default:"postgres" env-description:"postgres or redis"`
		TTL   time.Duration `env:"PENDING_TTL" env-default:"15m"`
	}
	Postgres struct {
		Port    int    `env:"POSTGRES_PORT" env-default:"5432"`
		Host    string `env:"POSTGRES_HOST" env-default:"localhost"`
		User    string `env:"POSTGRES_USER"`
		Pass    string `env:"POSTGRES_PASS"`
		Name    string `env:"POSTGRES_NAME"`
		SslMode string `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	}
	Redis struct {
		Addr     string `env:"REDIS_ADDR" env-default:"localhost:6379"`
		Password string `env:"REDIS_PASSWORD"`
		DB       int    `env:"REDIS_DB" env-default:"0"`
	}
}

var (
	once sync.Once
	cfg  *Config
)

func New() (*Config, error) {
	once.Do(func() {
		cfg = &Config{}
		if err := cleanenv.ReadEnv(cfg); err != nil {
			help, _ := cleanenv.GetDescription(cfg, nil)
			log.Fatalf("Failed to read configuration: %v\n%v", err, help)
		}
	})
	return cfg, nil
}

func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Postgres.User,
		c.Postgres.Pass,
		c.Postgres.Host,
		c.Postgres.Port,
		c.Postgres.Name,
		c.Postgres.SslMode,
	)
}

// CallbackURL is the route OAuth providers must redirect to.
func (c *Config) CallbackURL() string {
	return c.App.PublicURL + "/auth/callback"
}
