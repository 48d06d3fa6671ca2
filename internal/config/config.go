package config

import (
	"time"

	"github.com/spf13/viper"
)

type AppConf struct {
	Env            string `mapstructure:"env"`
	Port           int    `mapstructure:"port"`
	ShutdownSecond int    `mapstructure:"shutdown_seconds"`
	FrontendURL    string `mapstructure:"frontend_url"`
}

type MongoConf struct {
	URI             string `mapstructure:"uri"`
	Database        string `mapstructure:"database"`
	UsersCollection string `mapstructure:"users_collection"`
	PostsCollection string `mapstructure:"posts_collection"`
}

type RedisConf struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConf struct {
	Secret           string `mapstructure:"secret"`
	AccessTTLMinutes int    `mapstructure:"access_ttl_minutes"`
	RefreshTTLDays   int    `mapstructure:"refresh_ttl_days"`
}

type UploadConf struct {
	Dir                 string `mapstructure:"dir"`
	CleanupGraceSeconds int    `mapstructure:"cleanup_grace_seconds"`
}

type TwitterConf struct {
	ConsumerKey    string `mapstructure:"consumer_key"`
	ConsumerSecret string `mapstructure:"consumer_secret"`
}

type PlatformsConf struct {
	Twitter        TwitterConf `mapstructure:"twitter"`
	TimeoutSeconds int         `mapstructure:"timeout_seconds"`
}

type Config struct {
	App       AppConf       `mapstructure:"app"`
	Mongo     MongoConf     `mapstructure:"mongodb"`
	Redis     RedisConf     `mapstructure:"redis"`
	JWT       JWTConf       `mapstructure:"jwt"`
	Upload    UploadConf    `mapstructure:"upload"`
	Platforms PlatformsConf `mapstructure:"platforms"`

	// derived
	ShutdownTimeout time.Duration
	AccessTTL       time.Duration
	RefreshTTL      time.Duration
	CleanupGrace    time.Duration
	PlatformTimeout time.Duration
}

func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.App.Port == 0 {
		cfg.App.Port = 5000
	}
	if cfg.App.ShutdownSecond == 0 {
		cfg.App.ShutdownSecond = 15
	}
	if cfg.JWT.AccessTTLMinutes == 0 {
		cfg.JWT.AccessTTLMinutes = 60 * 24
	}
	if cfg.JWT.RefreshTTLDays == 0 {
		cfg.JWT.RefreshTTLDays = 30
	}
	if cfg.Upload.Dir == "" {
		cfg.Upload.Dir = "/tmp/uploads"
	}
	if cfg.Upload.CleanupGraceSeconds == 0 {
		cfg.Upload.CleanupGraceSeconds = 5
	}
	if cfg.Platforms.TimeoutSeconds == 0 {
		cfg.Platforms.TimeoutSeconds = 30
	}
	if cfg.Mongo.UsersCollection == "" {
		cfg.Mongo.UsersCollection = "users"
	}
	if cfg.Mongo.PostsCollection == "" {
		cfg.Mongo.PostsCollection = "posts"
	}

	cfg.ShutdownTimeout = time.Duration(cfg.App.ShutdownSecond) * time.Second
	cfg.AccessTTL = time.Duration(cfg.JWT.AccessTTLMinutes) * time.Minute
	cfg.RefreshTTL = time.Duration(cfg.JWT.RefreshTTLDays) * 24 * time.Hour
	cfg.CleanupGrace = time.Duration(cfg.Upload.CleanupGraceSeconds) * time.Second
	cfg.PlatformTimeout = time.Duration(cfg.Platforms.TimeoutSeconds) * time.Second
	return &cfg, nil
}
