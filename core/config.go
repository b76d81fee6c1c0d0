package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application settings. It is built once by NewConfig and passed down explicitly.
type Config struct {
	Debug        bool
	TestMode     bool
	AppName      string
	Env          string
	Build        string
	RollbarToken string

	Server struct {
		Address         string
		DebugHost       string
		ReadTimeout     time.Duration
		WriteTimeout    time.Duration
		ShutdownTimeout time.Duration
	}

	Database struct {
		Engine string // mongodb | memory
		URI    string
		Name   string
	}

	AI struct {
		APIKey string
		Models []string // name@version, in priority order
	}

	YouTube struct {
		APIKey     string
		Qualifier  string
		MaxResults int
	}

	Cache struct {
		RedisAddr     string
		RedisPassword string
		RedisDB       int
		TTL           time.Duration
	}

	Upload struct {
		Dir         string
		MaxFileSize int64
		MaxFiles    int
	}
}

// NewConfig loads the configuration from defaults, `config/.env.<env>` and the environment.
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("appName", "EduTube")
	v.SetDefault("build", "develop")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("server.address", ":5000")
	v.SetDefault("server.debugHost", ":5010")
	v.SetDefault("server.readTimeout", 60*time.Second)
	v.SetDefault("server.writeTimeout", 5*time.Minute) // model calls are slow
	v.SetDefault("server.shutdownTimeout", 10*time.Second)
	v.SetDefault("database.engine", "mongodb")
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "edutube")
	v.SetDefault("ai.apiKey", "")
	v.SetDefault("ai.models", []string{})
	v.SetDefault("youtube.apiKey", "")
	v.SetDefault("youtube.qualifier", "BTech")
	v.SetDefault("youtube.maxResults", 5)
	v.SetDefault("cache.redisAddr", "")
	v.SetDefault("cache.redisPassword", "")
	v.SetDefault("cache.redisDB", 0)
	v.SetDefault("cache.ttl", 6*time.Hour)
	v.SetDefault("upload.dir", "uploads")
	v.SetDefault("upload.maxFileSize", int64(50*1024*1024))
	v.SetDefault("upload.maxFiles", 10)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	case "PROD":
		v.SetDefault("debug", false)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(RootDir(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	conf := &Config{
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		AppName:      v.GetString("appName"),
		Env:          env,
		Build:        v.GetString("build"),
		RollbarToken: v.GetString("rollbarToken"),
	}
	conf.Server.Address = v.GetString("server.address")
	conf.Server.DebugHost = v.GetString("server.debugHost")
	conf.Server.ReadTimeout = v.GetDuration("server.readTimeout")
	conf.Server.WriteTimeout = v.GetDuration("server.writeTimeout")
	conf.Server.ShutdownTimeout = v.GetDuration("server.shutdownTimeout")
	conf.Database.Engine = strings.ToLower(v.GetString("database.engine"))
	conf.Database.URI = v.GetString("database.uri")
	conf.Database.Name = v.GetString("database.name")
	conf.AI.APIKey = v.GetString("ai.apiKey")
	conf.AI.Models = v.GetStringSlice("ai.models")
	conf.YouTube.APIKey = v.GetString("youtube.apiKey")
	conf.YouTube.Qualifier = v.GetString("youtube.qualifier")
	conf.YouTube.MaxResults = v.GetInt("youtube.maxResults")
	conf.Cache.RedisAddr = v.GetString("cache.redisAddr")
	conf.Cache.RedisPassword = v.GetString("cache.redisPassword")
	conf.Cache.RedisDB = v.GetInt("cache.redisDB")
	conf.Cache.TTL = v.GetDuration("cache.ttl")
	conf.Upload.Dir = v.GetString("upload.dir")
	conf.Upload.MaxFileSize = v.GetInt64("upload.maxFileSize")
	conf.Upload.MaxFiles = v.GetInt("upload.maxFiles")
	return conf
}
