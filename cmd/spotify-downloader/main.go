// Package main provides the spotify-downloader bot entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/Wortexhf/spotify-downloader/internal/audio"
	"github.com/Wortexhf/spotify-downloader/internal/chat/telegram"
	"github.com/Wortexhf/spotify-downloader/internal/core"
	"github.com/Wortexhf/spotify-downloader/internal/downloader"
	"github.com/Wortexhf/spotify-downloader/internal/flood"
	httpserver "github.com/Wortexhf/spotify-downloader/internal/http"
	"github.com/Wortexhf/spotify-downloader/internal/i18n"
	"github.com/Wortexhf/spotify-downloader/internal/spotify"
	"github.com/Wortexhf/spotify-downloader/internal/store"
	"github.com/Wortexhf/spotify-downloader/pkg/links"
)

const seenStoreCapacity = 10000

var (
	cfgFile string
	config  *core.Config
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "spotify-downloader",
	Short: "Telegram bot that turns Spotify links into tagged MP3s",
	Long: `spotify-downloader listens for Spotify track and album links in Telegram,
resolves the metadata, downloads the audio through yt-dlp, embeds cover art
and titles, and uploads the result back into the chat.`,
	RunE: runBot,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("telegram-bot-token", "", "Telegram bot token")
	rootCmd.PersistentFlags().String("spotify-client-id", "", "Spotify client ID")
	rootCmd.PersistentFlags().String("spotify-client-secret", "", "Spotify client secret")
	rootCmd.PersistentFlags().String("spotify-market", "US", "Spotify market for catalog lookups")
	rootCmd.PersistentFlags().String("download-dir", "./downloads", "Directory for in-flight artifacts")
	rootCmd.PersistentFlags().String("ytdlp-path", "yt-dlp", "Path to the yt-dlp binary")
	rootCmd.PersistentFlags().String("audio-bitrate", "192", "Target MP3 bitrate in kbit/s")
	rootCmd.PersistentFlags().Int("item-timeout-secs", 300, "Budget for one audio search and download")
	rootCmd.PersistentFlags().Int("batch-delay-secs", 2, "Pacing delay between album tracks")
	rootCmd.PersistentFlags().Int("cleanup-delay-secs", 1, "Grace period before artifact deletion")
	rootCmd.PersistentFlags().String("server-host", "0.0.0.0", "HTTP server host")
	rootCmd.PersistentFlags().Int("server-port", 8080, "HTTP server port")
	supportedLangs := strings.Join(i18n.GetSupportedLanguages(), ", ")
	rootCmd.PersistentFlags().String("language", i18n.DefaultLanguage, fmt.Sprintf("Bot language (%s)", supportedLangs))
	rootCmd.PersistentFlags().Int("flood-limit-per-minute", core.DefaultFloodLimitPerMinute, "Maximum download requests per user per minute")
	rootCmd.PersistentFlags().Bool("generate-env-example", false, "Generate .env.example file from current configuration and exit")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bind flags: %v\n", err)
		os.Exit(1)
	}
}

func initConfig() {
	envFile := ".env"
	if cfgFile != "" {
		envFile = cfgFile
	}

	if err := gotenv.Load(envFile); err != nil {
		// Missing .env is fine, flags and env vars still apply
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
		}
	}

	viper.SetEnvPrefix("SPOTIFYDL")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	config = buildConfig()
	logger = buildLogger(config.Log.Level)
}

func buildConfig() *core.Config {
	cfg := core.DefaultConfig()

	cfg.Telegram.BotToken = viper.GetString("telegram-bot-token")

	cfg.Spotify.ClientID = viper.GetString("spotify-client-id")
	cfg.Spotify.ClientSecret = viper.GetString("spotify-client-secret")
	if market := viper.GetString("spotify-market"); market != "" {
		cfg.Spotify.Market = market
	}

	cfg.Download.Dir = viper.GetString("download-dir")
	cfg.Download.BinaryPath = viper.GetString("ytdlp-path")
	cfg.Download.AudioBitrate = viper.GetString("audio-bitrate")
	cfg.Download.ItemTimeoutSecs = viper.GetInt("item-timeout-secs")
	cfg.Download.BatchDelaySecs = viper.GetInt("batch-delay-secs")
	cfg.Download.CleanupDelaySecs = viper.GetInt("cleanup-delay-secs")

	cfg.Server.Host = viper.GetString("server-host")
	cfg.Server.Port = viper.GetInt("server-port")
	cfg.Log.Level = viper.GetString("log-level")

	configureApp(cfg)

	return cfg
}

func configureApp(cfg *core.Config) {
	cfg.App.Language = viper.GetString("language")
	if cfg.App.Language == "" {
		cfg.App.Language = i18n.DefaultLanguage
	}

	supported := i18n.GetSupportedLanguages()
	isSupported := false
	for _, lang := range supported {
		if cfg.App.Language == lang {
			isSupported = true
			break
		}
	}
	if !isSupported {
		fmt.Fprintf(os.Stderr, "Warning: Unsupported language '%s', falling back to '%s'. Supported languages: %s\n",
			cfg.App.Language, i18n.DefaultLanguage, strings.Join(supported, ", "))
		cfg.App.Language = i18n.DefaultLanguage
	}

	cfg.App.FloodLimitPerMinute = viper.GetInt("flood-limit-per-minute")
	if cfg.App.FloodLimitPerMinute <= 0 {
		cfg.App.FloodLimitPerMinute = core.DefaultFloodLimitPerMinute
	}
}

func buildLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch strings.ToLower(level) {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)

	builtLogger, err := cfg.Build()
	if err != nil {
		panic(fmt.Sprintf("Failed to build logger: %v", err))
	}

	return builtLogger
}

func runBot(_ *cobra.Command, _ []string) error {
	if viper.GetBool("generate-env-example") {
		return generateEnvExample()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("Starting spotify-downloader",
		zap.String("market", config.Spotify.Market),
		zap.String("downloadDir", config.Download.Dir),
		zap.String("language", config.App.Language))

	if err := validateConfig(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	if err := os.MkdirAll(config.Download.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create download dir: %w", err)
	}

	svcs, err := initializeServices(ctx)
	if err != nil {
		return err
	}
	defer svcs.floodgate.Stop()

	return runServices(ctx, svcs)
}

type services struct {
	httpServer *httpserver.Server
	dispatcher *core.Dispatcher
	floodgate  *flood.Floodgate
}

func initializeServices(ctx context.Context) (*services, error) {
	frontend := telegram.NewFrontend(&telegram.Config{
		BotToken: config.Telegram.BotToken,
	}, logger.Named("telegram"))

	spotifyClient := spotify.NewClient(&spotify.Config{
		ClientID:     config.Spotify.ClientID,
		ClientSecret: config.Spotify.ClientSecret,
		Market:       config.Spotify.Market,
	}, logger.Named("spotify"))
	if err := spotifyClient.Authenticate(ctx); err != nil {
		return nil, fmt.Errorf("failed to authenticate with Spotify: %w", err)
	}

	httpServer := httpserver.NewServer(&config.Server, logger.Named("http"))
	metrics := httpServer.Metrics()

	localizer := i18n.NewLocalizer(config.App.Language)

	pipeline := core.NewPipeline(
		frontend,
		downloader.NewCoverClient(logger.Named("cover")),
		downloader.NewYTDLP(config.Download.BinaryPath, config.Download.AudioBitrate, logger.Named("ytdlp")),
		audio.NewEmbedder(logger.Named("embedder")),
		audio.MakeThumbnail,
		localizer,
		metrics,
		&config.Download,
		logger.Named("pipeline"),
	)

	batch := core.NewBatchController(pipeline, metrics, &config.Download, logger.Named("batch"))
	floodgate := flood.New(config.App.FloodLimitPerMinute)
	seen := store.NewSeenStore(seenStoreCapacity, 0.001)

	dispatcher := core.NewDispatcher(
		config,
		frontend,
		links.NewParser(),
		spotifyClient,
		pipeline,
		batch,
		floodgate,
		seen,
		metrics,
		logger.Named("dispatcher"),
	)

	return &services{
		httpServer: httpServer,
		dispatcher: dispatcher,
		floodgate:  floodgate,
	}, nil
}

func runServices(ctx context.Context, svcs *services) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return svcs.httpServer.Start(gCtx)
	})

	g.Go(func() error {
		return svcs.dispatcher.Start(gCtx)
	})

	logger.Info("spotify-downloader started successfully",
		zap.String("http_addr", fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)))

	if err := g.Wait(); err != nil {
		logger.Error("spotify-downloader stopped with error", zap.Error(err))
		return err
	}

	logger.Info("spotify-downloader stopped gracefully")
	return nil
}

func validateConfig() error {
	if config.Telegram.BotToken == "" {
		return fmt.Errorf("telegram bot token is required (--telegram-bot-token or SPOTIFYDL_TELEGRAM_BOT_TOKEN)")
	}
	if config.Spotify.ClientID == "" || config.Spotify.ClientSecret == "" {
		return fmt.Errorf("spotify credentials are required (--spotify-client-id and --spotify-client-secret)")
	}
	if config.Download.AudioBitrate == "" {
		return fmt.Errorf("audio bitrate must not be empty")
	}
	if config.Download.ItemTimeoutSecs <= 0 {
		return fmt.Errorf("item timeout must be positive, got %d", config.Download.ItemTimeoutSecs)
	}
	if config.Download.BatchDelaySecs < 0 {
		return fmt.Errorf("batch delay must not be negative, got %d", config.Download.BatchDelaySecs)
	}
	return nil
}

func generateEnvExample() error {
	var content strings.Builder

	content.WriteString("# spotify-downloader configuration\n")
	content.WriteString("#\n")
	content.WriteString("# Copy this file to .env and fill in your values.\n")
	content.WriteString("# Every variable has a CLI flag equivalent (see --help).\n\n")

	content.WriteString("# Telegram\n")
	content.WriteString("SPOTIFYDL_TELEGRAM_BOT_TOKEN=your_bot_token_here\n\n")

	content.WriteString("# Spotify Web API (client credentials)\n")
	content.WriteString("SPOTIFYDL_SPOTIFY_CLIENT_ID=your_client_id\n")
	content.WriteString("SPOTIFYDL_SPOTIFY_CLIENT_SECRET=your_client_secret\n")
	content.WriteString("SPOTIFYDL_SPOTIFY_MARKET=US\n\n")

	content.WriteString("# Downloads\n")
	content.WriteString("SPOTIFYDL_DOWNLOAD_DIR=./downloads\n")
	content.WriteString("SPOTIFYDL_YTDLP_PATH=yt-dlp\n")
	content.WriteString("SPOTIFYDL_AUDIO_BITRATE=192\n")
	content.WriteString("SPOTIFYDL_ITEM_TIMEOUT_SECS=300\n")
	content.WriteString("SPOTIFYDL_BATCH_DELAY_SECS=2\n")
	content.WriteString("SPOTIFYDL_CLEANUP_DELAY_SECS=1\n\n")

	content.WriteString("# HTTP server (health probes and metrics)\n")
	content.WriteString("SPOTIFYDL_SERVER_HOST=0.0.0.0\n")
	content.WriteString("SPOTIFYDL_SERVER_PORT=8080\n\n")

	content.WriteString("# App\n")
	content.WriteString(fmt.Sprintf("SPOTIFYDL_LANGUAGE=%s\n", i18n.DefaultLanguage))
	content.WriteString(fmt.Sprintf("SPOTIFYDL_FLOOD_LIMIT_PER_MINUTE=%d\n", core.DefaultFloodLimitPerMinute))
	content.WriteString("SPOTIFYDL_LOG_LEVEL=info\n")

	if err := os.WriteFile(".env.example", []byte(content.String()), 0o600); err != nil {
		return fmt.Errorf("failed to write .env.example: %w", err)
	}

	fmt.Println("✅ Successfully generated .env.example file")
	return nil
}
