// Package anthropic translates provider-neutral requests into Anthropic SDK
// parameters.
package anthropic

import (
	"encoding/json"
	"errors"
	"slices"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/youssefsiam38/agentbudget/tool"
	"github.com/youssefsiam38/agentbudget/types"
)

// BetaHeader is the request header that carries beta feature names.
const BetaHeader = "anthropic-beta"

// ConvertMessages converts conversation messages to Anthropic message
// parameters. System messages are skipped; the system prompt is sent
// separately.
func ConvertMessages(messages []*types.Message) []anthropic.MessageParam {
	params := make([]anthropic.MessageParam, 0, len(messages))

	for _, msg := range messages {
		if msg == nil || msg.Role == types.RoleSystem {
			continue
		}

		blocks := make([]anthropic.ContentBlockParamUnion, 0, len(msg.Content))
		for _, block := range msg.Content {
			blocks = append(blocks, convertContentBlock(block))
		}

		params = append(params, anthropic.MessageParam{
			Role:    anthropic.MessageParamRole(msg.Role),
			Content: blocks,
		})
	}

	return params
}

func convertContentBlock(block types.ContentBlock) anthropic.ContentBlockParamUnion {
	switch block.Type {
	case types.ContentTypeText:
		return anthropic.NewTextBlock(block.Text)

	case types.ContentTypeToolUse:
		var input any
		if len(block.ToolInputRaw) > 0 {
			_ = json.Unmarshal(block.ToolInputRaw, &input)
		}
		// The API rejects a null input.
		if input == nil {
			input = map[string]any{}
		}
		return anthropic.NewToolUseBlock(block.ToolUseID, input, block.ToolName)

	case types.ContentTypeToolResult:
		return anthropic.NewToolResultBlock(block.ToolResultID, block.ToolContent, block.IsError)

	case types.ContentTypeImage:
		if src := block.ImageSource; src != nil {
			switch src.Type {
			case "base64":
				return anthropic.NewImageBlockBase64(src.MediaType, src.Data)
			case "url":
				return anthropic.NewImageBlock(anthropic.URLImageSourceParam{URL: src.URL})
			}
		}
	}

	return anthropic.NewTextBlock("")
}

// ConvertTools converts adapted tool definitions to Anthropic tool params.
func ConvertTools(defs []tool.Definition) []anthropic.ToolUnionParam {
	if len(defs) == 0 {
		return nil
	}

	tools := make([]anthropic.ToolUnionParam, 0, len(defs))
	for _, def := range defs {
		schema := anthropic.ToolInputSchemaParam{
			Type:       "object",
			Properties: def.InputSchema["properties"],
		}
		if required, ok := def.InputSchema["required"].([]string); ok && len(required) > 0 {
			schema.Required = slices.Clone(required)
		}

		param := anthropic.ToolParam{
			Name:        def.Name,
			InputSchema: schema,
		}
		if def.Description != "" {
			param.Description = anthropic.String(def.Description)
		}
		tools = append(tools, anthropic.ToolUnionParam{OfTool: &param})
	}
	return tools
}

// SystemBlocks wraps a system prompt. An empty prompt yields no blocks.
func SystemBlocks(prompt string) []anthropic.TextBlockParam {
	if prompt == "" {
		return nil
	}
	return []anthropic.TextBlockParam{{Text: prompt}}
}

// BetaHeaderValue joins beta names for the anthropic-beta header, dropping
// blanks and repeats. Order is kept.
func BetaHeaderValue(betas []string) string {
	seen := make(map[string]struct{}, len(betas))
	out := make([]string, 0, len(betas))
	for _, b := range betas {
		b = strings.TrimSpace(b)
		if b == "" {
			continue
		}
		if _, dup := seen[b]; dup {
			continue
		}
		seen[b] = struct{}{}
		out = append(out, b)
	}
	return strings.Join(out, ",")
}

// IsRetryableError reports whether err is an API error worth retrying:
// rate limits and server errors.
func IsRetryableError(err error) bool {
	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == 429 || apiErr.StatusCode >= 500
}
