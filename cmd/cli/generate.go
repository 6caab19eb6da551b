package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newGenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate [prompt]",
		Short: "Generate text with the server's language model",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := getClient(true)
			if err != nil {
				return err
			}

			body, err := client.Post("/genai/generate-text", GenerateTextRequest{Prompt: strings.Join(args, " ")})
			if err != nil {
				return err
			}

			if flagJSON {
				return printRaw(body)
			}

			var resp GenerateTextResponse
			if err := json.Unmarshal(body, &resp); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}
			printMessage(resp.Content)
			return nil
		},
	}
}
