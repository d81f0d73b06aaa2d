package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ricardonunez-io/reviewlens/internal/analyzer"
	"github.com/ricardonunez-io/reviewlens/internal/drive"
	"github.com/ricardonunez-io/reviewlens/internal/googleauth"
	"github.com/ricardonunez-io/reviewlens/internal/pipeline"
	"github.com/ricardonunez-io/reviewlens/internal/sheets"
	slackpkg "github.com/ricardonunez-io/reviewlens/internal/slack"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	_ "github.com/joho/godotenv/autoload"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if level, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil && level != zerolog.NoLevel {
		zerolog.SetGlobalLevel(level)
	}
	log.Info().Msg("Starting Reviewlens")

	anthropicKey := os.Getenv("ANTHROPIC_API_KEY")
	if anthropicKey == "" {
		log.Fatal().Msg("ANTHROPIC_API_KEY is required")
	}

	analyzerConfig := analyzer.DefaultConfig(anthropicKey)
	if model := os.Getenv("ANALYZER_MODEL"); model != "" {
		analyzerConfig.Model = model
	}

	strategy, ok := analyzer.ParseStrategy(os.Getenv("ANALYZER_STRATEGY"))
	if !ok && os.Getenv("ANALYZER_STRATEGY") != "" {
		log.Warn().Str("value", os.Getenv("ANALYZER_STRATEGY")).Msg("Invalid ANALYZER_STRATEGY, defaulting to chat")
	}
	analyzerConfig.Strategy = strategy

	policy, ok := analyzer.ParsePolicy(os.Getenv("FAILURE_POLICY"))
	if !ok && os.Getenv("FAILURE_POLICY") != "" {
		log.Warn().Str("value", os.Getenv("FAILURE_POLICY")).Msg("Invalid FAILURE_POLICY, defaulting to propagate")
	}
	analyzerConfig.Policy = policy

	credentialsFile := os.Getenv("CREDENTIALS_FILE")
	if credentialsFile == "" {
		credentialsFile = "credentials.json"
	}

	sheetConfig := sheets.DefaultConfig()
	sheetConfig.SpreadsheetID = os.Getenv("SPREADSHEET_ID")
	if title := os.Getenv("SHEET_NAME"); title != "" {
		sheetConfig.Title = title
	}
	if cell := os.Getenv("CHART_CELL"); cell != "" {
		sheetConfig.ChartCell = cell
	}

	slackConfig := slackpkg.Config{
		BotToken:  os.Getenv("SLACK_BOT_TOKEN"),
		ChannelID: os.Getenv("SLACK_CHANNEL_ID"),
	}

	log.Info().
		Str("model", analyzerConfig.Model).
		Str("strategy", string(analyzerConfig.Strategy)).
		Str("failurePolicy", string(analyzerConfig.Policy)).
		Str("sheet", sheetConfig.Title).
		Bool("slack", slackConfig.Enabled()).
		Msg("Configuration loaded")

	completer, err := analyzer.NewAnthropicCompleter(analyzerConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure analysis service")
	}
	reviewAnalyzer, err := analyzer.New(analyzerConfig, completer)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure analyzer")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	googleOpts, err := googleauth.ClientOptions(ctx, credentialsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load Google credentials")
	}

	driveClient, err := drive.New(ctx, googleOpts...)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Google Drive")
	}

	sheet, err := sheets.Open(ctx, sheetConfig, driveClient, googleOpts...)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open spreadsheet")
	}

	deps := pipeline.Deps{
		Source:   sheet,
		Sink:     sheet,
		Analyzer: reviewAnalyzer,
		Uploader: driveClient,
		Title:    sheetConfig.Title,
	}
	if slackConfig.Enabled() {
		deps.Notifier = slackpkg.New(slackConfig)
	} else {
		log.Info().Msg("SLACK_BOT_TOKEN or SLACK_CHANNEL_ID not set, skipping Slack report")
	}

	if _, err := pipeline.Run(ctx, deps); err != nil {
		log.Fatal().Err(err).Msg("Error in main execution")
	}
}
