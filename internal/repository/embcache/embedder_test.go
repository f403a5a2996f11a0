package embcache

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/averlane/simsearch/internal/db"
	"github.com/averlane/simsearch/internal/domain"
)

type mockKV struct {
	data   map[string][]byte
	getErr error
}

func newMockKV() *mockKV { return &mockKV{data: make(map[string][]byte)} }

func (m *mockKV) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockKV) Set(_ context.Context, key string, value []byte) error {
	m.data[key] = value
	return nil
}

type mockEmbedder struct {
	vec   []float32
	err   error
	calls int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.calls++
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec, TotalTokens: 12}, nil
}

func TestEmbed_MissThenHit(t *testing.T) {
	inner := &mockEmbedder{vec: []float32{0.25, -1.5}}
	cached := New(inner, newMockKV(), nil, zap.NewNop())
	ctx := context.Background()

	first, err := cached.Embed(ctx, "quarterly budget")
	if err != nil {
		t.Fatalf("first embed: %v", err)
	}
	if first.TotalTokens != 12 {
		t.Errorf("miss should report provider usage, got %d", first.TotalTokens)
	}

	second, err := cached.Embed(ctx, "quarterly budget")
	if err != nil {
		t.Fatalf("second embed: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("expected 1 provider call, got %d", inner.calls)
	}
	if second.TotalTokens != 0 {
		t.Errorf("hit should report zero usage, got %d", second.TotalTokens)
	}
	if len(second.Embedding) != 2 || second.Embedding[0] != 0.25 || second.Embedding[1] != -1.5 {
		t.Errorf("cached vector mismatch: %v", second.Embedding)
	}
}

func TestEmbed_CacheErrorDegradesToMiss(t *testing.T) {
	inner := &mockEmbedder{vec: []float32{1}}
	kv := newMockKV()
	kv.getErr = errors.New("timeout")
	cached := New(inner, kv, nil, zap.NewNop())

	if _, err := cached.Embed(context.Background(), "query"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("expected provider call on cache failure, got %d", inner.calls)
	}
}

func TestEmbed_InnerError(t *testing.T) {
	wantErr := errors.New("provider down")
	cached := New(&mockEmbedder{err: wantErr}, newMockKV(), nil, zap.NewNop())

	if _, err := cached.Embed(context.Background(), "query"); !errors.Is(err, wantErr) {
		t.Errorf("expected wrapped provider error, got %v", err)
	}
}

func TestVectorBytesRoundTrip(t *testing.T) {
	vec := []float32{0, 1.5, -3.25}
	back, err := bytesToVector(vectorToBytes(vec))
	if err != nil {
		t.Fatalf("bytesToVector: %v", err)
	}
	for i := range vec {
		if back[i] != vec[i] {
			t.Errorf("element %d: %v != %v", i, back[i], vec[i])
		}
	}

	if _, err := bytesToVector([]byte{1, 2, 3}); err == nil {
		t.Error("expected error for truncated payload")
	}
}
