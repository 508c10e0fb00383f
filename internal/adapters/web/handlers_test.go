package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"kotodama/internal/domain"
	"kotodama/internal/prompts"
	"kotodama/internal/session"
	"kotodama/internal/usecases"
)

// stubGenerator is a canned TextGenerator for handler tests.
type stubGenerator struct {
	enabled  bool
	response string
	err      error
}

func (s *stubGenerator) Enabled() bool { return s.enabled }

func (s *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return s.response, s.err
}

func (s *stubGenerator) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	return s.response, s.err
}

// stubDraftStore is a map-backed DraftStore for handler tests.
type stubDraftStore struct {
	drafts map[string]domain.Draft
	nextID int
}

func newStubDraftStore() *stubDraftStore {
	return &stubDraftStore{drafts: make(map[string]domain.Draft)}
}

func (s *stubDraftStore) Save(ctx context.Context, draft domain.Draft) (domain.Draft, error) {
	s.nextID++
	draft.ID = fmt.Sprintf("draft-%d", s.nextID)
	draft.CreatedAt = time.Now()
	s.drafts[draft.ID] = draft
	return draft, nil
}

func (s *stubDraftStore) List(ctx context.Context, userID string) ([]domain.Draft, error) {
	var out []domain.Draft
	for _, d := range s.drafts {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *stubDraftStore) Get(ctx context.Context, userID, id string) (domain.Draft, error) {
	d, ok := s.drafts[id]
	if !ok || d.UserID != userID {
		return domain.Draft{}, domain.ErrDraftNotFound
	}
	return d, nil
}

func (s *stubDraftStore) Delete(ctx context.Context, userID, id string) error {
	d, ok := s.drafts[id]
	if !ok || d.UserID != userID {
		return domain.ErrDraftNotFound
	}
	delete(s.drafts, id)
	return nil
}

type appOptions struct {
	gen       usecases.TextGenerator
	rateLimit int
	drafts    usecases.DraftStore
}

func setupApp(opts appOptions) *fiber.App {
	if opts.rateLimit == 0 {
		opts.rateLimit = 100
	}

	builder := prompts.NewBuilder("")
	analyzeUC := usecases.NewAnalyzeUseCase(opts.gen, builder)
	sessions := session.NewManager(analyzeUC, session.Options{
		Debounce: 10 * time.Millisecond,
		MinChars: 5,
		TTL:      time.Minute,
	})

	cfg := HandlersConfig{
		Rewrite:        usecases.NewRewriteUseCase(opts.gen, builder),
		Humanize:       usecases.NewHumanizeUseCase(opts.gen, builder),
		Stealth:        usecases.NewStealthUseCase(opts.gen, builder),
		Analyze:        analyzeUC,
		RiskAnalyze:    usecases.NewRiskAnalyzeUseCase(opts.gen, builder),
		RiskFix:        usecases.NewRiskFixUseCase(opts.gen, builder),
		Platform:       usecases.NewOptimizePlatformUseCase(opts.gen, builder, nil),
		Viral:          usecases.NewViralUseCase(opts.gen, builder),
		Sessions:       sessions,
		DefaultPersona: domain.PersonaDNA{Name: "default-persona"},
	}
	if opts.drafts != nil {
		cfg.Drafts = usecases.NewDraftsUseCase(opts.drafts)
	}

	app := fiber.New()
	SetupRoutes(app, NewHandlers(cfg), NewRateLimiter(opts.rateLimit, time.Minute))
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body any, headers map[string]string) (int, map[string]any) {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest("POST", path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	var decoded map[string]any
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp.StatusCode, decoded
}

func TestRewrite_MissingText_Returns400(t *testing.T) {
	// Arrange
	app := setupApp(appOptions{gen: &stubGenerator{enabled: true}})

	// Act
	status, body := postJSON(t, app, "/api/v1/rewrite", map[string]string{"tone": "formal"}, nil)

	// Assert
	if status != fiber.StatusBadRequest {
		t.Errorf("status: got %d, want 400", status)
	}
	if body["error"] != "Text is required" {
		t.Errorf("error: got %v, want 'Text is required'", body["error"])
	}
}

func TestRewrite_NoCredential_Returns500(t *testing.T) {
	// Arrange
	app := setupApp(appOptions{gen: &stubGenerator{enabled: false}})

	// Act
	status, body := postJSON(t, app, "/api/v1/rewrite", map[string]string{"text": "hello"}, nil)

	// Assert
	if status != fiber.StatusInternalServerError {
		t.Errorf("status: got %d, want 500", status)
	}
	if body["error"] != "Server Config Error: GEMINI_API_KEY missing" {
		t.Errorf("error: got %v", body["error"])
	}
}

func TestRewrite_UpstreamError_Returns500(t *testing.T) {
	// Arrange
	app := setupApp(appOptions{gen: &stubGenerator{enabled: true, err: errors.New("quota exceeded")}})

	// Act
	status, body := postJSON(t, app, "/api/v1/rewrite", map[string]string{"text": "hello"}, nil)

	// Assert
	if status != fiber.StatusInternalServerError {
		t.Errorf("status: got %d, want 500", status)
	}
	if body["error"] != "Internal Server Error" {
		t.Errorf("error: got %v", body["error"])
	}
}

func TestRewrite_Success_ReturnsRewrittenText(t *testing.T) {
	// Arrange
	app := setupApp(appOptions{gen: &stubGenerator{enabled: true, response: "rewritten"}})

	// Act
	status, body := postJSON(t, app, "/api/v1/rewrite",
		map[string]string{"text": "hello", "tone": "formal"}, nil)

	// Assert
	if status != fiber.StatusOK {
		t.Errorf("status: got %d, want 200", status)
	}
	if body["text"] != "rewritten" {
		t.Errorf("text: got %v, want 'rewritten'", body["text"])
	}
}

func TestRewrite_CORSHeadersPresent(t *testing.T) {
	// Arrange
	app := setupApp(appOptions{gen: &stubGenerator{enabled: true, response: "ok"}})
	payload, _ := json.Marshal(map[string]string{"text": "hello"})
	req := httptest.NewRequest("POST", "/api/v1/rewrite", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "https://external-tool.example")

	// Act
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()

	// Assert
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin: got %q, want *", got)
	}
}

func TestRewrite_PreflightAnswered(t *testing.T) {
	// Arrange
	app := setupApp(appOptions{gen: &stubGenerator{enabled: true}})
	req := httptest.NewRequest("OPTIONS", "/api/v1/rewrite", nil)
	req.Header.Set("Origin", "https://external-tool.example")
	req.Header.Set("Access-Control-Request-Method", "POST")

	// Act
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()

	// Assert
	if resp.StatusCode != fiber.StatusNoContent {
		t.Errorf("status: got %d, want 204", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Methods"); got == "" {
		t.Error("expected Access-Control-Allow-Methods on preflight")
	}
}

func TestHumanize_NoCredential_Returns200WithMock(t *testing.T) {
	// Arrange
	app := setupApp(appOptions{gen: &stubGenerator{enabled: false}})

	// Act
	status, body := postJSON(t, app, "/api/v1/humanize", map[string]string{"text": "hello"}, nil)

	// Assert
	if status != fiber.StatusOK {
		t.Errorf("status: got %d, want 200", status)
	}
	if body["text"] != "hello"+usecases.HumanizeMockSuffix {
		t.Errorf("text: got %v, want mock-suffixed input", body["text"])
	}
}

func TestAnalyze_UpstreamError_Returns200WithFallback(t *testing.T) {
	// Arrange
	app := setupApp(appOptions{gen: &stubGenerator{enabled: true, err: errors.New("down")}})

	// Act
	status, body := postJSON(t, app, "/api/v1/analyze", map[string]string{"text": "hello"}, nil)

	// Assert
	if status != fiber.StatusOK {
		t.Errorf("status: got %d, want 200", status)
	}
	if body["advice"] != "Analysis failed." {
		t.Errorf("advice: got %v, want 'Analysis failed.'", body["advice"])
	}
}

func TestPlatform_UnknownPlatform_Returns400(t *testing.T) {
	// Arrange
	app := setupApp(appOptions{gen: &stubGenerator{enabled: true}})

	// Act
	status, body := postJSON(t, app, "/api/v1/platform",
		map[string]string{"text": "hello", "platform": "myspace"}, nil)

	// Assert
	if status != fiber.StatusBadRequest {
		t.Errorf("status: got %d, want 400", status)
	}
	if body["error"] != "Unknown platform" {
		t.Errorf("error: got %v", body["error"])
	}
}

func TestPlatform_KnownPlatform_Returns200(t *testing.T) {
	// Arrange
	app := setupApp(appOptions{gen: &stubGenerator{
		enabled:  true,
		response: `{"title": "T", "tags": [], "content": "C", "explanation": "E"}`,
	}})

	// Act
	status, body := postJSON(t, app, "/api/v1/platform",
		map[string]string{"text": "hello world", "platform": "Zenn"}, nil)

	// Assert
	if status != fiber.StatusOK {
		t.Errorf("status: got %d, want 200", status)
	}
	if body["title"] != "T" || body["content"] != "C" {
		t.Errorf("body: got %v", body)
	}
}

func TestProtect_ReturnsInjectedTextAndLengths(t *testing.T) {
	// Arrange
	app := setupApp(appOptions{gen: &stubGenerator{}})

	// Act
	status, body := postJSON(t, app, "/api/v1/protect",
		map[string]string{"text": "protect this text please", "level": "high"}, nil)

	// Assert
	if status != fiber.StatusOK {
		t.Errorf("status: got %d, want 200", status)
	}
	if body["originalLength"].(float64) != float64(len("protect this text please")) {
		t.Errorf("originalLength: got %v", body["originalLength"])
	}
	if body["length"].(float64) < body["originalLength"].(float64) {
		t.Error("expected protected text to be at least as long as the original")
	}
}

func TestRateLimit_ExceededBudget_Returns429(t *testing.T) {
	// Arrange
	app := setupApp(appOptions{gen: &stubGenerator{enabled: true, response: "ok"}, rateLimit: 1})
	body := map[string]string{"text": "hello"}

	// Act
	first, _ := postJSON(t, app, "/api/v1/stealth", body, nil)
	second, resp := postJSON(t, app, "/api/v1/stealth", body, nil)

	// Assert
	if first != fiber.StatusOK {
		t.Errorf("first status: got %d, want 200", first)
	}
	if second != fiber.StatusTooManyRequests {
		t.Errorf("second status: got %d, want 429", second)
	}
	if resp["error"] != "Too many requests. Please wait a moment and try again." {
		t.Errorf("error: got %v", resp["error"])
	}
}

func TestRateLimit_ProtectNotBudgeted(t *testing.T) {
	// Arrange: protect makes no model call, so it sits outside the budget.
	app := setupApp(appOptions{gen: &stubGenerator{enabled: true, response: "ok"}, rateLimit: 1})

	// Act
	postJSON(t, app, "/api/v1/stealth", map[string]string{"text": "hello"}, nil)
	status, _ := postJSON(t, app, "/api/v1/protect", map[string]string{"text": "hello"}, nil)

	// Assert
	if status != fiber.StatusOK {
		t.Errorf("status: got %d, want 200", status)
	}
}

func TestSessions_CreateAndGet(t *testing.T) {
	// Arrange
	app := setupApp(appOptions{gen: &stubGenerator{enabled: true}})

	// Act
	status, created := postJSON(t, app, "/api/v1/sessions", nil, nil)

	// Assert
	if status != fiber.StatusCreated {
		t.Fatalf("create status: got %d, want 201", status)
	}
	id, _ := created["id"].(string)
	if id == "" {
		t.Fatal("expected a session id")
	}
	persona := created["persona"].(map[string]any)
	if persona["name"] != "default-persona" {
		t.Errorf("persona: got %v, want the default", persona["name"])
	}

	req := httptest.NewRequest("GET", "/api/v1/sessions/"+id, nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("get status: got %d, want 200", resp.StatusCode)
	}
}

func TestSessions_GetUnknown_Returns404(t *testing.T) {
	// Arrange
	app := setupApp(appOptions{gen: &stubGenerator{enabled: true}})

	// Act
	req := httptest.NewRequest("GET", "/api/v1/sessions/no-such-id", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()

	// Assert
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("status: got %d, want 404", resp.StatusCode)
	}
}

func TestDrafts_WithoutUserHeader_Returns401(t *testing.T) {
	// Arrange
	app := setupApp(appOptions{gen: &stubGenerator{enabled: true}, drafts: newStubDraftStore()})

	// Act
	status, body := postJSON(t, app, "/api/v1/drafts/", map[string]string{"content": "draft body"}, nil)

	// Assert
	if status != fiber.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", status)
	}
	if body["error"] != "Sign in required" {
		t.Errorf("error: got %v", body["error"])
	}
}

func TestDrafts_SaveAndList_ScopedToUser(t *testing.T) {
	// Arrange
	app := setupApp(appOptions{gen: &stubGenerator{enabled: true}, drafts: newStubDraftStore()})
	auth := map[string]string{"X-User-ID": "user-1"}

	// Act
	status, saved := postJSON(t, app, "/api/v1/drafts/",
		map[string]string{"content": "今日の学び\n本文"}, auth)

	// Assert
	if status != fiber.StatusCreated {
		t.Fatalf("save status: got %d, want 201", status)
	}
	if saved["title"] != "今日の学び" {
		t.Errorf("title: got %v, want derived first line", saved["title"])
	}

	req := httptest.NewRequest("GET", "/api/v1/drafts/", nil)
	req.Header.Set("X-User-ID", "user-2")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	var drafts []any
	_ = json.Unmarshal(raw, &drafts)
	if len(drafts) != 0 {
		t.Errorf("expected another user's list to be empty, got %v", drafts)
	}
}

func TestDrafts_RoutesAbsentWithoutStore(t *testing.T) {
	// Arrange: no database means no draft routes at all.
	app := setupApp(appOptions{gen: &stubGenerator{enabled: true}})

	// Act
	status, _ := postJSON(t, app, "/api/v1/drafts/",
		map[string]string{"content": "draft body"}, map[string]string{"X-User-ID": "user-1"})

	// Assert
	if status != fiber.StatusNotFound {
		t.Errorf("status: got %d, want 404", status)
	}
}
