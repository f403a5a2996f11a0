package chi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/averlane/simsearch/internal/domain"
	healthuc "github.com/averlane/simsearch/internal/usecase/health"
	searchuc "github.com/averlane/simsearch/internal/usecase/search"
)

// --- Mocks ---

type mockIndex struct {
	matches []domain.RankedMatch
	err     error
}

func (m *mockIndex) Query(_ context.Context, _ []float32, _ int) ([]domain.RankedMatch, error) {
	return m.matches, m.err
}

type mockRecords struct {
	records map[int64]domain.Record
}

func (m *mockRecords) FetchByIDs(_ context.Context, ids []int64) (map[int64]domain.Record, error) {
	out := make(map[int64]domain.Record, len(ids))
	for _, id := range ids {
		if rec, ok := m.records[id]; ok {
			out[id] = rec
		}
	}
	return out, nil
}

type mockRegistry struct {
	index   *mockIndex
	records *mockRecords
}

func (m *mockRegistry) Resolve(id string) (domain.Tenant, error) {
	dom, err := domain.Parse(id)
	if err != nil {
		return domain.Tenant{}, err
	}
	return domain.Tenant{Domain: dom, Index: m.index, Records: m.records}, nil
}

type mockEmbedder struct {
	err error
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2}}, nil
}

type mockSessions struct {
	dom     domain.Domain
	matches []domain.RankedMatch
	has     bool
}

func (m *mockSessions) Put(_ context.Context, _ string, dom domain.Domain, matches []domain.RankedMatch) error {
	m.dom, m.matches, m.has = dom, matches, true
	return nil
}

func (m *mockSessions) Get(_ context.Context, _ string) (domain.Domain, []domain.RankedMatch, error) {
	if !m.has {
		return "", nil, domain.ErrNoActiveSearch
	}
	return m.dom, m.matches, nil
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

// --- Fixtures ---

func testRouter(reg *mockRegistry, embed *mockEmbedder, sessions *mockSessions, ping error) http.Handler {
	searchSvc := searchuc.New(reg, embed, sessions)
	healthSvc := healthuc.New(&mockPinger{err: ping}, nil)
	server := NewServer(searchSvc, healthSvc, zap.NewNop())

	r := chi.NewRouter()
	server.Register(r)
	return r
}

func defaultRegistry(n int) *mockRegistry {
	matches := make([]domain.RankedMatch, n)
	records := make(map[int64]domain.Record, n)
	for i := range matches {
		id := int64(i + 1)
		matches[i] = domain.RankedMatch{ID: id, Distance: float64(id) / 10}
		records[id] = domain.Record{
			ID:        id,
			Text:      fmt.Sprintf("record %d", id),
			Author:    "tester",
			CreatedAt: time.Date(2023, 11, 20, 8, 15, 30, 0, time.UTC),
		}
	}
	return &mockRegistry{
		index:   &mockIndex{matches: matches},
		records: &mockRecords{records: records},
	}
}

func doSearch(t *testing.T, handler http.Handler, body, session string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/search", strings.NewReader(body))
	if session != "" {
		req.Header.Set(SessionHeader, session)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return resp
}

// --- Tests ---

func TestSearch_OK(t *testing.T) {
	handler := testRouter(defaultRegistry(12), &mockEmbedder{}, &mockSessions{}, nil)

	rr := doSearch(t, handler, `{"domain":"IT","keyword":"vpn"}`, "sess-1")
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", rr.Code, rr.Body.String())
	}

	var resp PageResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Page != 1 || resp.TotalPages != 3 {
		t.Errorf("page %d/%d, want 1/3", resp.Page, resp.TotalPages)
	}
	if len(resp.Results) != domain.PageSize {
		t.Fatalf("results = %d, want %d", len(resp.Results), domain.PageSize)
	}
	if resp.Results[0].CreatedAt != "2023-11-20 08:15:30" {
		t.Errorf("created_at = %q", resp.Results[0].CreatedAt)
	}
}

func TestSearch_MissingSessionHeader(t *testing.T) {
	handler := testRouter(defaultRegistry(3), &mockEmbedder{}, &mockSessions{}, nil)

	rr := doSearch(t, handler, `{"domain":"it","keyword":"vpn"}`, "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rr.Code)
	}
	if resp := decodeError(t, rr); resp.Code != CodeBadRequest {
		t.Errorf("code = %q", resp.Code)
	}
}

func TestSearch_InvalidBody(t *testing.T) {
	handler := testRouter(defaultRegistry(3), &mockEmbedder{}, &mockSessions{}, nil)

	rr := doSearch(t, handler, `{not json`, "sess-1")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rr.Code)
	}
}

func TestSearch_EmptyKeyword(t *testing.T) {
	handler := testRouter(defaultRegistry(3), &mockEmbedder{}, &mockSessions{}, nil)

	rr := doSearch(t, handler, `{"domain":"it","keyword":"   "}`, "sess-1")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rr.Code)
	}
	if resp := decodeError(t, rr); resp.Code != CodeValidationFailed {
		t.Errorf("code = %q, want %q", resp.Code, CodeValidationFailed)
	}
}

func TestSearch_UnknownDomain(t *testing.T) {
	handler := testRouter(defaultRegistry(3), &mockEmbedder{}, &mockSessions{}, nil)

	rr := doSearch(t, handler, `{"domain":"legal","keyword":"contract"}`, "sess-1")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rr.Code)
	}
	if resp := decodeError(t, rr); resp.Code != CodeUnknownDomain {
		t.Errorf("code = %q, want %q", resp.Code, CodeUnknownDomain)
	}
}

func TestSearch_EncodingFailure(t *testing.T) {
	embed := &mockEmbedder{err: fmt.Errorf("provider down: %w", domain.ErrEncodingFailure)}
	handler := testRouter(defaultRegistry(3), embed, &mockSessions{}, nil)

	rr := doSearch(t, handler, `{"domain":"it","keyword":"vpn"}`, "sess-1")
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status %d, want 502", rr.Code)
	}
	if resp := decodeError(t, rr); resp.Code != CodeEncodingFailure {
		t.Errorf("code = %q, want %q", resp.Code, CodeEncodingFailure)
	}
}

func TestSearch_IndexUnavailable(t *testing.T) {
	reg := defaultRegistry(3)
	reg.index.err = fmt.Errorf("%w: it", domain.ErrIndexUnavailable)
	handler := testRouter(reg, &mockEmbedder{}, &mockSessions{}, nil)

	rr := doSearch(t, handler, `{"domain":"it","keyword":"vpn"}`, "sess-1")
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status %d, want 503", rr.Code)
	}
}

func TestPaginate_OK(t *testing.T) {
	handler := testRouter(defaultRegistry(12), &mockEmbedder{}, &mockSessions{}, nil)

	rr := doSearch(t, handler, `{"domain":"hr","keyword":"policy"}`, "sess-1")
	if rr.Code != http.StatusOK {
		t.Fatalf("search status %d", rr.Code)
	}

	req := httptest.NewRequest("GET", "/paginate?page=3", http.NoBody)
	req.Header.Set(SessionHeader, "sess-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
	}
	var resp PageResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Page != 3 || resp.TotalPages != 3 || len(resp.Results) != 2 {
		t.Errorf("page %d/%d with %d results, want 3/3 with 2", resp.Page, resp.TotalPages, len(resp.Results))
	}
}

func TestPaginate_MissingSessionHeader(t *testing.T) {
	handler := testRouter(defaultRegistry(3), &mockEmbedder{}, &mockSessions{}, nil)

	req := httptest.NewRequest("GET", "/paginate?page=1", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rr.Code)
	}
}

func TestPaginate_BadPageParam(t *testing.T) {
	handler := testRouter(defaultRegistry(3), &mockEmbedder{}, &mockSessions{}, nil)

	req := httptest.NewRequest("GET", "/paginate?page=two", http.NoBody)
	req.Header.Set(SessionHeader, "sess-1")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rr.Code)
	}
	if resp := decodeError(t, rr); resp.Code != CodeValidationFailed {
		t.Errorf("code = %q, want %q", resp.Code, CodeValidationFailed)
	}
}

func TestPaginate_NoActiveSearch(t *testing.T) {
	handler := testRouter(defaultRegistry(3), &mockEmbedder{}, &mockSessions{}, nil)

	req := httptest.NewRequest("GET", "/paginate?page=1", http.NoBody)
	req.Header.Set(SessionHeader, "cold-session")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rr.Code)
	}
	if resp := decodeError(t, rr); resp.Code != CodeNoActiveSearch {
		t.Errorf("code = %q, want %q", resp.Code, CodeNoActiveSearch)
	}
}

func TestHealth_OK(t *testing.T) {
	handler := testRouter(defaultRegistry(1), &mockEmbedder{}, &mockSessions{}, nil)

	req := httptest.NewRequest("GET", "/health", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rr.Code)
	}
	var resp HealthResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("status = %q, want ok", resp.Status)
	}
}

func TestHealth_StoreDown(t *testing.T) {
	handler := testRouter(defaultRegistry(1), &mockEmbedder{}, &mockSessions{}, fmt.Errorf("conn refused"))

	req := httptest.NewRequest("GET", "/health", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status %d, want 503", rr.Code)
	}
}
