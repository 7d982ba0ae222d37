package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const AppName = "FindGreatSchool.com"

type (
	ServerConfig struct {
		Host            string
		DebugHost       string
		ShutdownTimeout time.Duration
	}

	DatabaseConfig struct {
		Engine        string
		Host          string
		Port          string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}

	RedisConfig struct {
		Addr     string
		Password string
		DB       int
		PoolSize int
		CacheTTL time.Duration
	}

	KafkaConfig struct {
		Brokers []string
		Topic   string
	}

	BlobConfig struct {
		Bucket          string
		Region          string
		Endpoint        string // S3-compatible endpoint (MinIO), AWS when empty
		PathStyle       bool
		PublicBaseURL   string
		AccessKeyID     string // default credentials chain when empty
		SecretAccessKey string
	}

	AuthConfig struct {
		// JWTSecret is the HS256 secret shared with the auth provider issuing user tokens.
		JWTSecret   string
		AdminUserID string
	}

	// ClientConfig configures the command-line client.
	ClientConfig struct {
		APIBaseURL string
		Token      string // bearer token issued by the auth provider
		StatePath  string // SQLite file holding the compare selection; default location when empty
	}

	Config struct {
		Env              string
		Build            string
		Debug            bool
		TestMode         bool
		FrontendBaseURL  string
		RollbarToken     string
		SendgridApiKey   string
		defaultFromEmail string

		Server   ServerConfig
		Database DatabaseConfig
		Redis    RedisConfig
		Kafka    KafkaConfig
		Blob     BlobConfig
		Auth     AuthConfig
		Client   ClientConfig
	}
)

func (c DatabaseConfig) Address() string {
	return c.Host + ":" + c.Port
}

func (c *Config) DefaultFromEmail() mail.Address {
	return mail.Address{Name: AppName, Address: c.defaultFromEmail}
}

// NewConfig loads the configuration of the current ENV (DEV by default) from
// the environment, after loading config/.env.<env> when it exists.
func NewConfig() *Config {
	conf := viper.New()

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", env == "DEV" || env == "TEST")
	conf.SetDefault("testMode", env == "TEST")
	conf.SetDefault("build", "develop")
	conf.SetDefault("frontendBaseURL", "http://localhost:3000")
	conf.SetDefault("defaultFromEmail", "noreply@findgreatschool.com")
	conf.SetDefault("rollbarToken", "")
	conf.SetDefault("sendgridApiKey", "")

	conf.SetDefault("serverHost", ":8000")
	conf.SetDefault("serverDebugHost", ":4000")
	conf.SetDefault("serverShutdownTimeout", 5*time.Second)

	conf.SetDefault("databaseEngine", "postgres")
	conf.SetDefault("databaseHost", "localhost")
	conf.SetDefault("databasePort", "5432")
	conf.SetDefault("databaseName", "findgreatschool")
	conf.SetDefault("databaseUser", "findgreatschool")
	conf.SetDefault("databasePassword", "findgreatschool")
	conf.SetDefault("databaseAdminUser", "")
	conf.SetDefault("databaseAdminPassword", "")
	conf.SetDefault("databaseDisableTLS", env == "DEV" || env == "TEST")

	conf.SetDefault("redisAddr", "")
	conf.SetDefault("redisPassword", "")
	conf.SetDefault("redisDB", 0)
	conf.SetDefault("redisPoolSize", 10)
	conf.SetDefault("redisCacheTTL", 2*time.Minute)

	conf.SetDefault("kafkaBrokers", "")
	conf.SetDefault("kafkaTopic", "findgreatschool.events")

	conf.SetDefault("blobBucket", "institution-images")
	conf.SetDefault("blobRegion", "ap-south-1")
	conf.SetDefault("blobEndpoint", "")
	conf.SetDefault("blobPathStyle", false)
	conf.SetDefault("blobPublicBaseURL", "")
	conf.SetDefault("blobAccessKeyID", "")
	conf.SetDefault("blobSecretAccessKey", "")

	conf.SetDefault("jwtSecret", "q8x*7fk2$1zqp-0h+u3=c6m9!edv4w(sbn5y#ra")
	conf.SetDefault("adminUserID", "")

	conf.SetDefault("apiBaseURL", "http://localhost:8000")
	conf.SetDefault("apiToken", "")
	conf.SetDefault("clientStatePath", "")

	conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	if wd, err := os.Getwd(); err == nil {
		dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
		if _, err := os.Stat(dotEnvPath); err == nil {
			if err := godotenv.Load(dotEnvPath); err != nil {
				log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
			}
		} else if !os.IsNotExist(err) {
			log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
		}
	}
	conf.AutomaticEnv()

	var brokers []string
	for _, b := range strings.Split(conf.GetString("kafkaBrokers"), ",") {
		if b = CleanString(b); b != "" {
			brokers = append(brokers, b)
		}
	}

	return &Config{
		Env:              env,
		Build:            conf.GetString("build"),
		Debug:            conf.GetBool("debug"),
		TestMode:         conf.GetBool("testMode"),
		FrontendBaseURL:  conf.GetString("frontendBaseURL"),
		RollbarToken:     conf.GetString("rollbarToken"),
		SendgridApiKey:   conf.GetString("sendgridApiKey"),
		defaultFromEmail: conf.GetString("defaultFromEmail"),
		Server: ServerConfig{
			Host:            conf.GetString("serverHost"),
			DebugHost:       conf.GetString("serverDebugHost"),
			ShutdownTimeout: conf.GetDuration("serverShutdownTimeout"),
		},
		Database: DatabaseConfig{
			Engine:        conf.GetString("databaseEngine"),
			Host:          conf.GetString("databaseHost"),
			Port:          conf.GetString("databasePort"),
			Name:          conf.GetString("databaseName"),
			User:          conf.GetString("databaseUser"),
			Password:      conf.GetString("databasePassword"),
			AdminUser:     conf.GetString("databaseAdminUser"),
			AdminPassword: conf.GetString("databaseAdminPassword"),
			DisableTLS:    conf.GetBool("databaseDisableTLS"),
		},
		Redis: RedisConfig{
			Addr:     conf.GetString("redisAddr"),
			Password: conf.GetString("redisPassword"),
			DB:       conf.GetInt("redisDB"),
			PoolSize: conf.GetInt("redisPoolSize"),
			CacheTTL: conf.GetDuration("redisCacheTTL"),
		},
		Kafka: KafkaConfig{
			Brokers: brokers,
			Topic:   conf.GetString("kafkaTopic"),
		},
		Blob: BlobConfig{
			Bucket:          conf.GetString("blobBucket"),
			Region:          conf.GetString("blobRegion"),
			Endpoint:        conf.GetString("blobEndpoint"),
			PathStyle:       conf.GetBool("blobPathStyle"),
			PublicBaseURL:   conf.GetString("blobPublicBaseURL"),
			AccessKeyID:     conf.GetString("blobAccessKeyID"),
			SecretAccessKey: conf.GetString("blobSecretAccessKey"),
		},
		Auth: AuthConfig{
			JWTSecret:   conf.GetString("jwtSecret"),
			AdminUserID: conf.GetString("adminUserID"),
		},
		Client: ClientConfig{
			APIBaseURL: conf.GetString("apiBaseURL"),
			Token:      conf.GetString("apiToken"),
			StatePath:  conf.GetString("clientStatePath"),
		},
	}
}

// NewTestConfig returns the configuration used by tests; it never reads the environment.
func NewTestConfig() *Config {
	return &Config{
		Env:              "TEST",
		Build:            "test",
		Debug:            true,
		TestMode:         true,
		FrontendBaseURL:  "http://localhost:3000",
		defaultFromEmail: "noreply@findgreatschool.com",
		Server:           ServerConfig{Host: ":0", ShutdownTimeout: time.Second},
		Redis:            RedisConfig{CacheTTL: time.Minute},
		Kafka:            KafkaConfig{Topic: "findgreatschool.events"},
		Blob:             BlobConfig{Bucket: "institution-images", Region: "ap-south-1", PublicBaseURL: "https://cdn.test/institution-images"},
		Auth:             AuthConfig{JWTSecret: "test-secret", AdminUserID: "admin-user"},
		Client:           ClientConfig{APIBaseURL: "http://localhost:8000", StatePath: ":memory:"},
	}
}
