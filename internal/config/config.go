// Package config loads runtime settings from a .env file and the process
// environment.
package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every setting the application reads at startup.
type Config struct {
	YouTubeAPIKey   string
	YouTubeEndpoint string
	MaxResults      int
	RequestsPerSec  float64

	YtDlpPath      string
	MPVPath        string
	PlayerSocket   string
	Resolvers      []string
	InitialVolume  int
	RedisURL       string
	SearchCacheTTL time.Duration
	LibraryPath    string

	LogPath  string
	LogLevel slog.Level
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	ytDlp := "tools/yt-dlp"
	if runtime.GOOS == "windows" {
		ytDlp = "tools/yt-dlp.exe"
	}
	return Config{
		MaxResults:     20,
		RequestsPerSec: 2,
		YtDlpPath:      ytDlp,
		MPVPath:        "mpv",
		PlayerSocket:   filepath.Join(os.TempDir(), "ytbeat-mpv.sock"),
		Resolvers:      []string{"kkdai", "ytdlp", "direct"},
		InitialVolume:  75,
		SearchCacheTTL: 10 * time.Minute,
		LibraryPath:    "storage/library.db",
		LogPath:        "storage/logs/ytbeat.log",
		LogLevel:       slog.LevelInfo,
	}
}

// Load reads .env (if present) and then the environment on top of Default.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		slog.Warn(".env file not found")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function such as os.Getenv.
func FromEnv(getenv func(string) string) Config {
	cfg := Default()

	cfg.YouTubeAPIKey = strings.TrimSpace(getenv("YOUTUBE_API_KEY"))
	cfg.YouTubeEndpoint = getenv("YOUTUBE_API_ENDPOINT")
	cfg.MaxResults = intVar(getenv, "YOUTUBE_MAX_RESULTS", cfg.MaxResults)
	cfg.RequestsPerSec = floatVar(getenv, "YOUTUBE_RPS", cfg.RequestsPerSec)
	cfg.YtDlpPath = stringVar(getenv, "YTDLP_PATH", cfg.YtDlpPath)
	cfg.MPVPath = stringVar(getenv, "MPV_PATH", cfg.MPVPath)
	cfg.PlayerSocket = stringVar(getenv, "PLAYER_SOCKET", cfg.PlayerSocket)
	cfg.InitialVolume = intVar(getenv, "VOLUME", cfg.InitialVolume)
	cfg.RedisURL = getenv("REDIS_URL")
	cfg.SearchCacheTTL = durationVar(getenv, "SEARCH_CACHE_TTL", cfg.SearchCacheTTL)
	cfg.LibraryPath = stringVar(getenv, "LIBRARY_PATH", cfg.LibraryPath)
	cfg.LogPath = stringVar(getenv, "LOG_PATH", cfg.LogPath)

	if v := getenv("STREAM_RESOLVER"); v != "" {
		var names []string
		for _, name := range strings.Split(v, ",") {
			if name = strings.ToLower(strings.TrimSpace(name)); name != "" {
				names = append(names, name)
			}
		}
		if len(names) > 0 {
			cfg.Resolvers = names
		}
	}

	if v := getenv("LOG_LEVEL"); v != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(v)); err != nil {
			slog.Warn("invalid LOG_LEVEL, using info", slog.String("value", v))
		} else {
			cfg.LogLevel = lvl
		}
	}

	// session.New treats 0 as unset
	if cfg.InitialVolume < 1 || cfg.InitialVolume > 100 {
		slog.Warn("VOLUME out of range, using default", slog.Int("value", cfg.InitialVolume))
		cfg.InitialVolume = Default().InitialVolume
	}

	return cfg
}

func stringVar(getenv func(string) string, key, def string) string {
	if v := strings.TrimSpace(getenv(key)); v != "" {
		return v
	}
	return def
}

func intVar(getenv func(string) string, key string, def int) int {
	v := getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("invalid integer setting, using default", slog.String("key", key), slog.String("value", v))
		return def
	}
	return n
}

func floatVar(getenv func(string) string, key string, def float64) float64 {
	v := getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		slog.Warn("invalid number setting, using default", slog.String("key", key), slog.String("value", v))
		return def
	}
	return f
}

func durationVar(getenv func(string) string, key string, def time.Duration) time.Duration {
	v := getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("invalid duration setting, using default", slog.String("key", key), slog.String("value", v))
		return def
	}
	return d
}
