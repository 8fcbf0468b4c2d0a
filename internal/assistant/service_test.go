package assistant

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raditmaulana/bengkelhub-backend/pkg/config"
	"github.com/raditmaulana/bengkelhub-backend/pkg/logger"
)

type stubGenerator struct {
	reply    string
	err      error
	requests []generateRequest
}

func (g *stubGenerator) generate(ctx context.Context, req generateRequest) (string, error) {
	g.requests = append(g.requests, req)
	return g.reply, g.err
}

func newAssistantService(t *testing.T, gen generator, configured bool) *service {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(config.AssistantConfig{}, logg)
	require.NoError(t, err)

	typed := svc.(*service)
	typed.client = gen
	typed.configured = configured
	return typed
}

func TestServiceReply(t *testing.T) {
	gen := &stubGenerator{reply: "Ganti oli biasanya selesai dalam satu jam."}
	svc := newAssistantService(t, gen, true)

	reply := svc.Reply(context.Background(), nil, "Berapa lama ganti oli?")
	assert.Equal(t, gen.reply, reply)

	require.Len(t, gen.requests, 1)
	req := gen.requests[0]
	require.NotNil(t, req.SystemInstruction)
	require.Len(t, req.Contents, 1)
	assert.Equal(t, "user", req.Contents[0].Role)
}

func TestServiceReply_mapsHistoryRoles(t *testing.T) {
	gen := &stubGenerator{reply: "Tentu."}
	svc := newAssistantService(t, gen, true)

	history := []Turn{
		{Role: "user", Text: "Halo"},
		{Role: "assistant", Text: "Halo, ada yang bisa dibantu?"},
	}
	svc.Reply(context.Background(), history, "Bengkel buka jam berapa?")

	require.Len(t, gen.requests, 1)
	contents := gen.requests[0].Contents
	require.Len(t, contents, 3)
	assert.Equal(t, "user", contents[0].Role)
	assert.Equal(t, "model", contents[1].Role)
	assert.Equal(t, "user", contents[2].Role)
}

func TestServiceReply_fallbacks(t *testing.T) {
	t.Run("missing api key", func(t *testing.T) {
		gen := &stubGenerator{reply: "should not be used"}
		svc := newAssistantService(t, gen, false)

		reply := svc.Reply(context.Background(), nil, "Halo")
		assert.Equal(t, FallbackReply, reply)
		assert.Empty(t, gen.requests)
	})

	t.Run("upstream error", func(t *testing.T) {
		gen := &stubGenerator{err: errors.New("api unavailable")}
		svc := newAssistantService(t, gen, true)

		reply := svc.Reply(context.Background(), nil, "Halo")
		assert.Equal(t, FallbackReply, reply)
	})

	t.Run("empty reply", func(t *testing.T) {
		gen := &stubGenerator{reply: "   "}
		svc := newAssistantService(t, gen, true)

		reply := svc.Reply(context.Background(), nil, "Halo")
		assert.Equal(t, FallbackReply, reply)
	})

	t.Run("empty question", func(t *testing.T) {
		gen := &stubGenerator{reply: "should not be used"}
		svc := newAssistantService(t, gen, true)

		reply := svc.Reply(context.Background(), nil, "  ")
		assert.Equal(t, FallbackReply, reply)
		assert.Empty(t, gen.requests)
	})
}
