package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"labsheet/internal/ai"
	"labsheet/internal/app"
	"labsheet/internal/export"
	"labsheet/internal/logging"
	"labsheet/internal/model"
	"labsheet/internal/prompt"
)

type generateOptions struct {
	sheetFlags
	apiKey   string
	model    string
	endpoint string
	out      string
	formats  []string
	timeout  time.Duration
}

func newGenerateCmd(root *rootOptions) *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a lab sheet and write it as txt, pdf or docx",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, root.logger, opts)
		},
	}
	opts.register(cmd)

	fl := cmd.Flags()
	fl.StringVar(&opts.apiKey, "api-key", "", "Cohere API key (default $COHERE_API_KEY)")
	fl.StringVar(&opts.model, "model", model.DefaultModel, "generation model: command, command-light or command-nightly")
	fl.StringVar(&opts.endpoint, "endpoint", ai.DefaultEndpoint, "generation endpoint")
	fl.StringVar(&opts.out, "out", ".", "output directory")
	fl.StringSliceVar(&opts.formats, "format", []string{string(export.FormatText)}, "export formats: txt, pdf, docx")
	fl.DurationVar(&opts.timeout, "timeout", 2*time.Minute, "generation timeout")
	_ = fl.MarkHidden("endpoint")
	return cmd
}

func runGenerate(cmd *cobra.Command, logger *zap.Logger, opts *generateOptions) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	key := strings.TrimSpace(opts.apiKey)
	if key == "" {
		key = strings.TrimSpace(os.Getenv("COHERE_API_KEY"))
	}
	if key == "" {
		return errors.New(app.MissingAPIKeyMessage)
	}
	if !model.IsKnownModel(opts.model) {
		return fmt.Errorf("unknown model %q", opts.model)
	}

	exporters := make([]export.Exporter, 0, len(opts.formats))
	for _, f := range opts.formats {
		e, err := export.New(export.Format(strings.TrimSpace(f)), export.VariantOutput)
		if err != nil {
			return err
		}
		exporters = append(exporters, e)
	}

	in, err := opts.input()
	if err != nil {
		return err
	}

	cfg := ai.DefaultGenerateConfig()
	cfg.Endpoint = opts.endpoint
	cfg.Timeout = opts.timeout
	client := ai.NewCohereClient(cfg)

	ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
	defer cancel()

	logger.Info("generating lab sheet",
		zap.String("model", opts.model),
		zap.String("api_key", logging.MaskSecret(key)),
	)
	text, err := client.Generate(ctx, ai.GenerateRequest{
		APIKey: key,
		Model:  opts.model,
		Prompt: prompt.Build(in),
	})
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), ai.FailureMessage(err))
		return fmt.Errorf("generation failed: %w", err)
	}

	if err := os.MkdirAll(opts.out, 0o755); err != nil {
		return err
	}
	for _, e := range exporters {
		data, err := e.Export(export.Payload{Text: text})
		if errors.Is(err, export.ErrNothingToExport) {
			fmt.Fprintf(cmd.ErrOrStderr(), "skipped %s: generated text is empty\n", e.Filename())
			continue
		}
		if err != nil {
			return err
		}
		path := filepath.Join(opts.out, e.Filename())
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
	}
	return nil
}
