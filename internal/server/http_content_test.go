package server

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/groblegark/trellis/internal/model"
)

func seedContent(ms *mockStore, id string, contentType model.ContentType, status model.ContentStatus, language string, active bool, updatedAt time.Time) *model.Content {
	c := &model.Content{
		ID: id, Title: string(contentType) + " " + id, Type: contentType,
		Body: json.RawMessage(`{"seed":"` + id + `"}`), Status: status,
		IsActive: active, Language: language,
		CreatedAt: updatedAt, UpdatedAt: updatedAt,
	}
	ms.contents[id] = c
	return c
}

func TestCreateContent_Defaults(t *testing.T) {
	_, ms, h := newTestServer(t)

	w := doJSON(t, h, http.MethodPost, "/v1/content", map[string]any{
		"title":   "Pricing table",
		"type":    "pricing",
		"content": map[string]any{"tiers": []any{}},
	}, "auth0|abc")
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	got := decodeBody[model.Content](t, w)
	if got.Status != model.ContentDraft {
		t.Errorf("status = %q, want draft", got.Status)
	}
	if got.Language != "en" {
		t.Errorf("language = %q, want en", got.Language)
	}
	if !got.IsActive {
		t.Error("expected is_active default true")
	}
	if _, ok := ms.contents[got.ID]; !ok {
		t.Error("content not persisted")
	}
}

func TestCreateContent_MissingBody(t *testing.T) {
	_, _, h := newTestServer(t)
	w := doJSON(t, h, http.MethodPost, "/v1/content",
		map[string]any{"title": "Hero", "type": "hero"}, "")
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422, body %s", w.Code, w.Body.String())
	}
}

func TestPublishContent(t *testing.T) {
	_, ms, h := newTestServer(t)
	seedContent(ms, "cnt-1", model.ContentHero, model.ContentDraft, "en", true, time.Now().UTC())

	w := doJSON(t, h, http.MethodPost, "/v1/content/cnt-1/publish", nil, "auth0|editor")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	got := ms.contents["cnt-1"]
	if got.Status != model.ContentPublished {
		t.Errorf("status = %q, want published", got.Status)
	}
	if got.PublishedAt == nil {
		t.Error("published_at not stamped")
	}
	if got.PublishedBy != "auth0|editor" {
		t.Errorf("published_by = %q", got.PublishedBy)
	}
}

func TestArchiveContent(t *testing.T) {
	_, ms, h := newTestServer(t)
	seedContent(ms, "cnt-1", model.ContentHero, model.ContentPublished, "en", true, time.Now().UTC())

	w := doJSON(t, h, http.MethodPost, "/v1/content/cnt-1/archive", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	got := ms.contents["cnt-1"]
	if got.Status != model.ContentArchived || got.IsActive {
		t.Fatalf("got status=%q is_active=%v", got.Status, got.IsActive)
	}
}

func TestDuplicateContent(t *testing.T) {
	_, ms, h := newTestServer(t)
	seedContent(ms, "cnt-1", model.ContentPricing, model.ContentPublished, "en", true, time.Now().UTC())

	w := doJSON(t, h, http.MethodPost, "/v1/content/cnt-1/duplicate", nil, "auth0|editor")
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	got := decodeBody[model.Content](t, w)
	if got.ID == "cnt-1" {
		t.Error("duplicate must get a new id")
	}
	if got.Status != model.ContentDraft || got.IsActive {
		t.Fatalf("copy status=%q is_active=%v, want inactive draft", got.Status, got.IsActive)
	}
	if string(got.Body) != string(ms.contents["cnt-1"].Body) {
		t.Error("body not copied")
	}
}

func TestPublicContent_NewestPublished(t *testing.T) {
	_, ms, h := newTestServer(t)
	base := time.Now().UTC().Add(-time.Hour)
	seedContent(ms, "cnt-old", model.ContentPricing, model.ContentPublished, "en", true, base)
	seedContent(ms, "cnt-new", model.ContentPricing, model.ContentPublished, "en", true, base.Add(30*time.Minute))
	seedContent(ms, "cnt-draft", model.ContentPricing, model.ContentDraft, "en", true, base.Add(45*time.Minute))

	w := doJSON(t, h, http.MethodGet, "/v1/content/public/pricing", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	got := decodeBody[model.Content](t, w)
	if got.ID != "cnt-new" {
		t.Fatalf("got %q, want cnt-new", got.ID)
	}
}

func TestPublicContent_LanguageFallthrough(t *testing.T) {
	_, ms, h := newTestServer(t)
	seedContent(ms, "cnt-de", model.ContentHero, model.ContentPublished, "de", true, time.Now().UTC())

	// Default language is en; the de entry must not match.
	w := doJSON(t, h, http.MethodGet, "/v1/content/public/hero", nil, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}

	w = doJSON(t, h, http.MethodGet, "/v1/content/public/hero?language=de", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestPublicContent_RulesDefault(t *testing.T) {
	_, _, h := newTestServer(t)

	w := doJSON(t, h, http.MethodGet, "/v1/content/public/rules", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 from built-in default", w.Code)
	}
	got := decodeBody[map[string]any](t, w)
	if got["default"] != true {
		t.Fatalf("expected default marker, got %v", got)
	}
}

func TestPublicContent_UnknownType(t *testing.T) {
	_, _, h := newTestServer(t)
	w := doJSON(t, h, http.MethodGet, "/v1/content/public/blog", nil, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestContentStats(t *testing.T) {
	_, ms, h := newTestServer(t)
	now := time.Now().UTC()
	seedContent(ms, "cnt-1", model.ContentPricing, model.ContentPublished, "en", true, now)
	seedContent(ms, "cnt-2", model.ContentPricing, model.ContentDraft, "en", true, now)
	seedContent(ms, "cnt-3", model.ContentHero, model.ContentPublished, "en", true, now)

	w := doJSON(t, h, http.MethodGet, "/v1/content/stats", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	got := decodeBody[model.ContentStats](t, w)
	if got.Total != 3 || got.ByType["pricing"] != 2 || got.ByStatus["published"] != 2 {
		t.Fatalf("got %+v", got)
	}
}

func TestListContent_Filters(t *testing.T) {
	_, ms, h := newTestServer(t)
	now := time.Now().UTC()
	seedContent(ms, "cnt-1", model.ContentPricing, model.ContentPublished, "en", true, now)
	seedContent(ms, "cnt-2", model.ContentHero, model.ContentDraft, "en", false, now)

	w := doJSON(t, h, http.MethodGet, "/v1/content?is_active=false", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	got := decodeBody[map[string][]*model.Content](t, w)
	if len(got["content"]) != 1 || got["content"][0].ID != "cnt-2" {
		t.Fatalf("got %+v", got["content"])
	}

	w = doJSON(t, h, http.MethodGet, "/v1/content?is_active=maybe", nil, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
