package assistant

import (
	"context"
	"strings"

	"github.com/raditmaulana/bengkelhub-backend/pkg/config"
	pkgerrors "github.com/raditmaulana/bengkelhub-backend/pkg/errors"
	"github.com/raditmaulana/bengkelhub-backend/pkg/logger"
)

// FallbackReply is returned whenever the backing model is unreachable or
// misconfigured. Assistant failures never surface as errors to the caller.
const FallbackReply = "Maaf, asisten bengkel sedang tidak tersedia. Silakan hubungi meja depan untuk bantuan."

const systemInstruction = "You are BengkelHub's workshop assistant. Answer customer questions about " +
	"vehicle service, repair timelines, and workshop offerings in a short, friendly tone. " +
	"If asked about a specific service ticket, direct the customer to the public tracking page."

// Turn is one prior exchange in the conversation.
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Service is the stateless chat collaborator consumed by the side panel.
type Service interface {
	Reply(ctx context.Context, history []Turn, text string) string
}

type generator interface {
	generate(ctx context.Context, req generateRequest) (string, error)
}

type service struct {
	client     generator
	configured bool
	logg       *logger.Logger
}

// NewService wires the chat assistant. A missing API key is tolerated; every
// request then degrades to the fallback reply.
func NewService(cfg config.AssistantConfig, logg *logger.Logger) (Service, error) {
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{
		client:     newGeminiClient(cfg),
		configured: strings.TrimSpace(cfg.APIKey) != "",
		logg:       logg,
	}, nil
}

func (s *service) Reply(ctx context.Context, history []Turn, text string) string {
	if strings.TrimSpace(text) == "" {
		return FallbackReply
	}
	if !s.configured {
		s.logg.Warn(ctx, "assistant api key missing, serving fallback")
		return FallbackReply
	}

	req := generateRequest{
		SystemInstruction: &generateContent{Parts: []generatePart{{Text: systemInstruction}}},
	}
	for _, turn := range history {
		role := "user"
		if strings.EqualFold(turn.Role, "assistant") {
			role = "model"
		}
		req.Contents = append(req.Contents, generateContent{
			Role:  role,
			Parts: []generatePart{{Text: turn.Text}},
		})
	}
	req.Contents = append(req.Contents, generateContent{
		Role:  "user",
		Parts: []generatePart{{Text: text}},
	})

	reply, err := s.client.generate(ctx, req)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "assistant request failed, serving fallback")
		return FallbackReply
	}
	if strings.TrimSpace(reply) == "" {
		return FallbackReply
	}
	return reply
}
