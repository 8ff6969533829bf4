package core

import (
	"time"
)

type Config struct {
	Telegram TelegramConfig
	Spotify  SpotifyConfig
	Download DownloadConfig
	Server   ServerConfig
	Log      LogConfig
	App      AppConfig
}

type TelegramConfig struct {
	BotToken string
}

type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
	Market       string
}

type DownloadConfig struct {
	Dir              string
	BinaryPath       string // yt-dlp binary, resolved from PATH when bare
	AudioBitrate     string // target bitrate for the MP3 transcode, e.g. "192"
	ItemTimeoutSecs  int    // budget for one audio search/download
	BatchDelaySecs   int    // pacing delay between album items
	CleanupDelaySecs int    // grace before artifact deletion after upload
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type AppConfig struct {
	Language            string
	FloodLimitPerMinute int
}

// DefaultFloodLimitPerMinute caps requests per user when no flag is given.
const DefaultFloodLimitPerMinute = 6

func DefaultConfig() *Config {
	return &Config{
		Spotify: SpotifyConfig{
			Market: "US",
		},
		Download: DownloadConfig{
			Dir:              "./downloads",
			BinaryPath:       "yt-dlp",
			AudioBitrate:     "192",
			ItemTimeoutSecs:  300,
			BatchDelaySecs:   2,
			CleanupDelaySecs: 1,
		},
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		App: AppConfig{
			Language:            "en",
			FloodLimitPerMinute: DefaultFloodLimitPerMinute,
		},
	}
}
