package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bimmerbailey/dumpsong/internal/employee"
	"github.com/bimmerbailey/dumpsong/internal/llm"
	"github.com/bimmerbailey/dumpsong/internal/lyrics"
	"github.com/bimmerbailey/dumpsong/internal/output"
	"github.com/bimmerbailey/dumpsong/internal/video"
)

var lyricsCmd = &cobra.Command{
	Use:   "lyrics --name <name> --info <description>",
	Short: "Generate a song without starting the server",
	Long: `Generate lyrics for one employee and print them.

Runs the same pipeline as POST /generate-video: extraction, prompt, and the
retrying model call.

Examples:
  dumpsong lyrics --name "Jane Doe" --info "Sales rep, 4 years at company"
  dumpsong lyrics --name "Sam" --info "developer" --format json
  dumpsong lyrics --name "Alex" --info "marketing, 2 years" --provider ollama --model llama3.2`,
	Args: cobra.NoArgs,
	RunE: runLyrics,
}

func init() {
	lyricsCmd.Flags().StringP("name", "n", "", "employee name (required)")
	lyricsCmd.Flags().StringP("info", "i", "", "free-text description of the employee (required)")
	lyricsCmd.Flags().Bool("video", false, "include the video URL in the output")

	_ = lyricsCmd.MarkFlagRequired("name")
	_ = lyricsCmd.MarkFlagRequired("info")

	rootCmd.AddCommand(lyricsCmd)
}

func runLyrics(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("name")
	infoText, _ := cmd.Flags().GetString("info")
	withVideo, _ := cmd.Flags().GetBool("video")

	if name == "" || infoText == "" {
		return errors.New("--name and --info are required")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, _, redactor := newLogger(cfg, cmd.ErrOrStderr(), slog.LevelWarn)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	provider, err := llm.NewProvider(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create LLM provider: %w\n\nTroubleshooting:\n- Check provider config in ~/.dumpsong.yaml\n- For cloud providers, verify API keys are set\n- For ollama, ensure it is running: ollama serve", err)
	}

	info := employee.Extract(name, infoText)
	generator := lyrics.New(provider, lyrics.FromConfig(cfg.LLM), logger)

	text, err := generator.Generate(ctx, info)
	if err != nil {
		return fmt.Errorf("lyrics generation failed: %s", redactor.Error(err))
	}

	song := output.Song{Employee: info, Lyrics: text}
	if withVideo {
		url, _, err := video.Placeholder{URL: cfg.Server.VideoPlaceholderURL}.Render(ctx, text)
		if err != nil {
			return err
		}
		song.VideoURL = url
	}

	w := output.New(cmd.OutOrStdout(), output.ParseFormat(viper.GetString("format")))
	return w.WriteSong(song, output.ParseColorMode(viper.GetString("color")))
}
