// renderctl drives the clip compiler and engine against local files,
// bypassing the HTTP API entirely.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"clipforge/internal/config"
	"clipforge/internal/edit"
	"clipforge/internal/ffmpeg"
	"clipforge/internal/pkg/logger"
	"clipforge/internal/render"
)

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:          "renderctl",
		Short:        "Render clips from local video files",
		SilenceUsage: true,
	}
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	root.AddCommand(renderCmd(), probeCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func renderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <input>",
		Short: "Render one clip from a local video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args[0])
		},
	}

	cmd.Flags().Float64("start", 0, "Moment start (seconds)")
	cmd.Flags().Float64("end", 0, "Moment end (seconds)")
	cmd.Flags().String("spec", "", "Path to an edit spec JSON file")
	cmd.Flags().String("out", ".", "Output directory")
	cmd.Flags().Duration("timeout", 2*time.Minute, "Render budget")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func runRender(cmd *cobra.Command, input string) error {
	start, _ := cmd.Flags().GetFloat64("start")
	end, _ := cmd.Flags().GetFloat64("end")
	specPath, _ := cmd.Flags().GetString("spec")
	outDir, _ := cmd.Flags().GetString("out")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	absIn, err := filepath.Abs(input)
	if err != nil {
		return err
	}

	var spec edit.EditSpec
	if specPath != "" {
		raw, err := os.ReadFile(specPath)
		if err != nil {
			return fmt.Errorf("spec file: %w", err)
		}
		if err := json.Unmarshal(raw, &spec); err != nil {
			return fmt.Errorf("spec file: %w", err)
		}
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	log := logger.New(logger.Config{
		Level:       config.Env("LOG_LEVEL", "warn"),
		Format:      "text",
		ServiceName: "renderctl",
	})

	svc := render.NewService(render.Config{
		InputDir:      filepath.Dir(absIn),
		OutputDir:     outDir,
		Timeout:       timeout,
		MaxConcurrent: 1,
	}, ffmpeg.NewExecutor(config.Env("FFMPEG_BIN", "ffmpeg"), log), log)

	result, err := svc.Render(context.Background(), render.Request{
		SourceRef: filepath.Base(absIn),
		Moment:    edit.Moment{StartTime: start, EndTime: end},
		Spec:      spec,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s (%dms)\n", filepath.Join(outDir, result.OutputName), result.RenderMs)
	return nil
}

func probeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe <input>",
		Short: "Print duration and dimensions of a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()

			info, err := ffmpeg.NewProber(config.Env("FFPROBE_BIN", "ffprobe")).Probe(ctx, args[0])
			if err != nil {
				return err
			}

			out, _ := json.MarshalIndent(info, "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}
