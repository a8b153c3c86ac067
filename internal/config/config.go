package config

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

type Config struct {
	Port         string
	Environment  string
	UploadDir    string
	ConfigsDir   string
	MetadataFile string
	MaxUploadMB  int64
	GTTSBin      string
	FFmpegBin    string
	TTSTimeout   time.Duration
	VoicesFile   string
	CorsConfig   cors.Options
}

var Envs = initConfig()

func initConfig() Config {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("No", envFile, "file found, using environment defaults")
	}

	uploadDir := getEnv("UPLOAD_DIR", "Uploads")

	return Config{
		Port:         getEnv("PORT", "8080"),
		Environment:  getEnv("ENV", "development"),
		UploadDir:    uploadDir,
		ConfigsDir:   filepath.Join(uploadDir, "configs"),
		MetadataFile: getEnv("METADATA_FILE", "audio_metadata.json"),
		MaxUploadMB:  getEnvInt("MAX_UPLOAD_MB", 5120), // 5 GB, matching the original deployment
		GTTSBin:      getEnv("GTTS_BIN", "gtts-cli"),
		FFmpegBin:    getEnv("FFMPEG_BIN", "ffmpeg"),
		TTSTimeout:   time.Duration(getEnvInt("TTS_TIMEOUT_SECONDS", 60)) * time.Second,
		VoicesFile:   getEnv("VOICES_FILE", ""),
		CorsConfig:   CorsConfig(),
	}
}

// Gets the env by key or fallbacks
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int64) int64 {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		log.Printf("Invalid value for %s: %q, using %d", key, value, fallback)
		return fallback
	}
	return n
}

// CorsConfig allows every origin; the audio board frontends are served from
// arbitrary hosts and talk to this API directly.
func CorsConfig() cors.Options {
	return cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}
}
