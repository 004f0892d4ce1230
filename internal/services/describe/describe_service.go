// Package describe generates a project description from a short title.
// Purely advisory: a failure here never blocks creating a project.
package describe

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

type Service struct {
	client *openai.Client
	model  string
}

func New(apiKey string) *Service {
	return &Service{
		client: openai.NewClient(apiKey),
		model:  openai.GPT4oMini,
	}
}

var (
	reHeading = regexp.MustCompile(`(?m)^#{1,3}\s*`)
	reBold    = regexp.MustCompile(`\*\*(.*?)\*\*`)
	reBullet  = regexp.MustCompile(`(?m)^\*\s*`)
)

func (s *Service) Generate(ctx context.Context, title string) (string, error) {
	prompt := fmt.Sprintf(
		`Write a compelling project description for a freelance job titled: %q. `+
			`The description should attract skilled freelancers to bid on the project `+
			`by providing an overview of requirements and expectations. Please make the `+
			`description concise containing maximum 100 words long.`, title)

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("generate description: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("generate description: empty response")
	}

	return CleanMarkdown(resp.Choices[0].Message.Content), nil
}

// CleanMarkdown strips headings, bold markers and bullet asterisks that
// models tend to emit.
func CleanMarkdown(s string) string {
	s = strings.TrimSpace(s)
	s = reHeading.ReplaceAllString(s, "")
	s = reBold.ReplaceAllString(s, "$1")
	s = reBullet.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
