package genai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/smithy-go"
)

const (
	DefaultTextModelID  = "anthropic.claude-3-haiku-20240307-v1:0"
	DefaultImageModelID = "amazon.titan-image-generator-v1"
	DefaultMaxTokens    = 1024

	anthropicVersion = "bedrock-2023-05-31"

	// Titan rejects prompts longer than this.
	maxImagePromptLength = 512
)

// BedrockConfig configures the Bedrock models used for generation.
type BedrockConfig struct {
	Region       string
	TextModelID  string
	ImageModelID string
	MaxTokens    int
	ImageWidth   int
	ImageHeight  int
}

func (c *BedrockConfig) applyDefaults() {
	if c.TextModelID == "" {
		c.TextModelID = DefaultTextModelID
	}
	if c.ImageModelID == "" {
		c.ImageModelID = DefaultImageModelID
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.ImageWidth <= 0 {
		c.ImageWidth = 1024
	}
	if c.ImageHeight <= 0 {
		c.ImageHeight = 1024
	}
}

type modelInvoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// BedrockClient implements ImageGenerator with the Titan image model and
// TextGenerator with a Claude model.
type BedrockClient struct {
	invoker modelInvoker
	cfg     BedrockConfig
}

// NewBedrockClient creates a client using the default AWS credential chain.
func NewBedrockClient(ctx context.Context, cfg BedrockConfig) (*BedrockClient, error) {
	if cfg.Region == "" {
		return nil, fmt.Errorf("bedrock region cannot be empty")
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return newBedrockClient(bedrockruntime.NewFromConfig(awsCfg), cfg), nil
}

func newBedrockClient(invoker modelInvoker, cfg BedrockConfig) *BedrockClient {
	cfg.applyDefaults()
	return &BedrockClient{invoker: invoker, cfg: cfg}
}

type titanImageRequest struct {
	TaskType              string                `json:"taskType"`
	TextToImageParams     titanTextToImage      `json:"textToImageParams"`
	ImageGenerationConfig titanGenerationConfig `json:"imageGenerationConfig"`
}

type titanTextToImage struct {
	Text         string `json:"text"`
	NegativeText string `json:"negativeText,omitempty"`
}

type titanGenerationConfig struct {
	NumberOfImages int     `json:"numberOfImages"`
	Height         int     `json:"height"`
	Width          int     `json:"width"`
	CfgScale       float64 `json:"cfgScale"`
	Quality        string  `json:"quality"`
}

type titanImageResponse struct {
	Images []string `json:"images"`
	Error  *string  `json:"error"`
}

// GenerateImage returns the decoded PNG of the first generated image.
func (c *BedrockClient) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	prompt = SanitizePrompt(prompt, maxImagePromptLength)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}

	body, err := json.Marshal(titanImageRequest{
		TaskType: "TEXT_IMAGE",
		TextToImageParams: titanTextToImage{
			Text:         prompt,
			NegativeText: "text, watermark, blurry, distorted",
		},
		ImageGenerationConfig: titanGenerationConfig{
			NumberOfImages: 1,
			Height:         c.cfg.ImageHeight,
			Width:          c.cfg.ImageWidth,
			CfgScale:       8.0,
			Quality:        "standard",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	raw, err := c.invoke(ctx, c.cfg.ImageModelID, body)
	if err != nil {
		return nil, err
	}

	var resp titanImageResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if resp.Error != nil && *resp.Error != "" {
		return nil, fmt.Errorf("image generation failed: %s", *resp.Error)
	}
	if len(resp.Images) == 0 || resp.Images[0] == "" {
		return nil, ErrEmptyResponse
	}

	img, err := base64.StdEncoding.DecodeString(resp.Images[0])
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

type claudeMessage struct {
	Role    string          `json:"role"`
	Content []claudeContent `json:"content"`
}

type claudeContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type claudeRequest struct {
	AnthropicVersion string          `json:"anthropic_version"`
	MaxTokens        int             `json:"max_tokens"`
	Messages         []claudeMessage `json:"messages"`
}

type claudeResponse struct {
	Content    []claudeContent `json:"content"`
	StopReason string          `json:"stop_reason"`
}

// GenerateText returns the first text block of the model's reply with any
// surrounding markdown fence removed.
func (c *BedrockClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}

	body, err := json.Marshal(claudeRequest{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        c.cfg.MaxTokens,
		Messages: []claudeMessage{
			{Role: "user", Content: []claudeContent{{Type: "text", Text: prompt}}},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	raw, err := c.invoke(ctx, c.cfg.TextModelID, body)
	if err != nil {
		return "", err
	}

	var resp claudeResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	for _, block := range resp.Content {
		if block.Type != "text" {
			continue
		}
		if text := stripCodeFence(block.Text); text != "" {
			return text, nil
		}
	}
	return "", ErrEmptyResponse
}

func (c *BedrockClient) invoke(ctx context.Context, modelID string, body []byte) ([]byte, error) {
	out, err := c.invoker.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			return nil, fmt.Errorf("bedrock %s rejected request (%s): %w", modelID, apiErr.ErrorCode(), err)
		}
		return nil, fmt.Errorf("failed to invoke Bedrock model: %w", err)
	}
	return out.Body, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if idx := strings.Index(s, "\n"); idx != -1 {
		s = s[idx+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
