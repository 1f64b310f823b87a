package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"secondbrain/internal/ai"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

const sampleContent = `Machine learning is a subset of artificial intelligence that enables systems to learn and improve
from experience without being explicitly programmed. It focuses on developing computer programs
that can access data and use it to learn for themselves. The primary aim is to allow computers
to learn automatically without human intervention or assistance. Deep learning is a further
subset of machine learning that uses neural networks with multiple layers to progressively
extract higher-level features from raw input.`

func newSummarizeCmd() *cobra.Command {
	var (
		content string
		file    string
	)

	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Run summary and tag generation once and print the result as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := globalConfig
			if cfg.LLM.APIKey == "" {
				return errors.New("OPENROUTER_API_KEY is not set")
			}
			if content != "" && file != "" {
				return errors.New("use either --content or --file, not both")
			}

			text := content
			if file != "" {
				data, err := afero.ReadFile(appFs, file)
				if err != nil {
					return fmt.Errorf("read %s: %w", file, err)
				}
				text = string(data)
			}
			if strings.TrimSpace(text) == "" {
				text = sampleContent
			}

			client := ai.NewClient(cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLM.Timeout)
			analysis, err := ai.NewGenerator(client, cfg.LLM.Model).SummarizeAndTag(cmd.Context(), text)
			if err != nil {
				return fmt.Errorf("%w: %v", err, errors.Unwrap(err))
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(analysis)
		},
	}
	cmd.Flags().StringVar(&content, "content", "", "text to analyze (defaults to a built-in sample)")
	cmd.Flags().StringVar(&file, "file", "", "read the text to analyze from this file")
	return cmd
}
