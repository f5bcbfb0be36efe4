package openai

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

// silentListener accepts one connection and holds it open without ever
// responding, so the in-flight request only ends via timeout or test end.
func silentListener(t *testing.T) net.Listener {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	stop := make(chan struct{})
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, 1024)
		_, _ = conn.Read(buf)
		<-stop
	}()
	t.Cleanup(func() {
		close(stop)
		_ = ln.Close()
	})
	return ln
}

func TestDoRequestWithContext_CancellationReturnsPromptly(t *testing.T) {
	ln := silentListener(t)

	svc := &embeddingService{
		client: &fasthttp.Client{},
		apiKey: "test-key",
		logger: logrus.New(),
	}

	// req and resp are intentionally not released here: once the context
	// is cancelled their ownership stays with doRequestWithContext, which
	// returns them to the pools after the transport goroutine finishes.
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	req.SetRequestURI("http://" + ln.Addr().String() + "/v1/embeddings")
	req.Header.SetMethod(fasthttp.MethodPost)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := svc.doRequestWithContext(ctx, req, resp)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), defaultRequestTimeout/2)
}

func TestGenerate_CancelledContext(t *testing.T) {
	svc := &embeddingService{
		client: &fasthttp.Client{},
		apiKey: "test-key",
		logger: logrus.New(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Generate(ctx, "some text", "text-embedding-3-small")
	assert.ErrorIs(t, err, context.Canceled)
}
