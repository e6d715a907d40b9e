package assist

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient implements Responder, Synthesizer and Transcriber over
// the OpenAI API.
type OpenAIClient struct {
	client   *openai.Client
	model    string
	voice    openai.SpeechVoice
	audioDir string
}

func NewOpenAIClient(apiKey, model, voice, audioDir string) *OpenAIClient {
	return &OpenAIClient{
		client:   openai.NewClient(apiKey),
		model:    model,
		voice:    openai.SpeechVoice(voice),
		audioDir: audioDir,
	}
}

func (c *OpenAIClient) Reply(ctx context.Context, prompt string, history []string) (string, error) {
	content := fmt.Sprintf(
		"Conversation history:\n%s\n\nUser's latest input: %s\n\nPlease provide a response based on this context.",
		strings.Join(history, "\n"), prompt,
	)
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: content},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

// Synthesize writes the generated speech into the audio directory with
// a millisecond timestamp in the name for uniqueness.
func (c *OpenAIClient) Synthesize(ctx context.Context, text string) (string, error) {
	if err := os.MkdirAll(c.audioDir, 0o755); err != nil {
		return "", fmt.Errorf("audio dir: %w", err)
	}
	resp, err := c.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model: openai.TTSModel1,
		Voice: c.voice,
		Input: text,
	})
	if err != nil {
		return "", fmt.Errorf("create speech: %w", err)
	}
	defer resp.Close()

	path := filepath.Join(c.audioDir, fmt.Sprintf("speech_%d.mp3", time.Now().UnixMilli()))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("speech file: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, resp); err != nil {
		return "", fmt.Errorf("write speech file: %w", err)
	}
	log.Info().Str("module", "assist").Str("path", path).Msg("speech synthesized")
	return path, nil
}

func (c *OpenAIClient) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	resp, err := c.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: filename,
		Reader:   audio,
		Language: "en",
	})
	if err != nil {
		return "", fmt.Errorf("transcription: %w", err)
	}
	return resp.Text, nil
}
