package config

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/spf13/viper"
)

type Config struct {
	OutputBucket string        `yaml:"output_bucket"`
	App          App           `yaml:"app"`
	Ledger       Ledger        `yaml:"ledger"`
	Engine       Engine        `yaml:"engine"`
	Server       Server        `yaml:"server"`
	DB           *sql.DB       `yaml:"db"`
	Queue        *RabbitMQ     `yaml:"rabbitmq"`
	Storage      *minio.Client `yaml:"storage"`
}

type App struct {
	Environment string `yaml:"environment"`
	UploadDir   string `yaml:"upload_dir"`
	OutputDir   string `yaml:"output_dir"`
}

type Server struct {
	HttpPort string `yaml:"http_port"`
}

type Ledger struct {
	BaseURL    string        `yaml:"base_url"`
	ServiceKey string        `yaml:"service_key"`
	Timeout    time.Duration `yaml:"timeout"`
}

type Engine struct {
	Binary    string   `yaml:"binary"`
	FFProbe   string   `yaml:"ffprobe"`
	Providers []string `yaml:"providers"`
}

type RabbitMQ struct {
	Host         string `json:"host"`
	Port         int    `json:"port"`
	User         string `json:"user"`
	Pass         string `json:"pass"`
	ExchangeName string `json:"exchange_name"`
	Kind         string `json:"kind"`
}

func Load(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	viper.SetDefault("app.upload_dir", "uploads")
	viper.SetDefault("app.output_dir", "outputs")
	viper.SetDefault("server.port", "8000")
	viper.SetDefault("engine.binary", "roop")
	viper.SetDefault("engine.ffprobe", "ffprobe")
	viper.SetDefault("engine.providers", []string{"cpu", "cuda"})
	viper.SetDefault("ledger.timeout", 30*time.Second)

	ledger := Ledger{
		BaseURL:    viper.GetString("ledger.base_url"),
		ServiceKey: viper.GetString("ledger.service_key"),
		Timeout:    viper.GetDuration("ledger.timeout"),
	}
	if ledger.BaseURL == "" {
		return nil, errors.New("ledger.base_url is required")
	}
	// A missing shared secret must fail startup, not surface as a 401 on the
	// first balance check.
	if ledger.ServiceKey == "" {
		return nil, errors.New("ledger.service_key is required")
	}

	var db *sql.DB
	if host := viper.GetString("postgresql_host"); host != "" {
		var err error
		db, err = sql.Open("postgres", host)
		if err != nil {
			return nil, err
		}
	}

	var rabbitmq *RabbitMQ
	if viper.GetString("rabbitmq_host") != "" {
		rabbitmq = &RabbitMQ{
			Host: viper.GetString("rabbitmq_host"),
			Port: viper.GetInt("rabbitmq_port"),
			User: viper.GetString("rabbitmq_user"),
			Pass: viper.GetString("rabbitmq_pass"),
			Kind: viper.GetString("rabbitmq_kind"),
		}
	}

	var minioClient *minio.Client
	if viper.GetString("minio.url") != "" {
		var err error
		minioClient, err = minio.New(viper.GetString("minio.url"), &minio.Options{
			Creds:  credentials.NewStaticV4(viper.GetString("minio.access_id"), viper.GetString("minio.secret_access_key"), ""),
			Secure: false,
		})
		if err != nil {
			return nil, err
		}
	}

	return &Config{
		OutputBucket: viper.GetString("minio.bucket"),
		App: App{
			Environment: viper.GetString("app.environment"),
			UploadDir:   viper.GetString("app.upload_dir"),
			OutputDir:   viper.GetString("app.output_dir"),
		},
		Ledger: ledger,
		Engine: Engine{
			Binary:    viper.GetString("engine.binary"),
			FFProbe:   viper.GetString("engine.ffprobe"),
			Providers: viper.GetStringSlice("engine.providers"),
		},
		Server: Server{
			HttpPort: viper.GetString("server.port"),
		},
		DB:      db,
		Queue:   rabbitmq,
		Storage: minioClient,
	}, nil
}
