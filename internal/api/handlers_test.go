package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curiocollect/curio/internal/model"
	"github.com/curiocollect/curio/internal/storage"
)

func createTestServer(t *testing.T) (*Server, *storage.SQLiteStorage) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := storage.NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	require.NoError(t, store.Migrate(ctx))

	// A small taxonomy most tests share.
	art := &model.Category{ID: "art", Name: "Art", Visible: true}
	require.NoError(t, store.CreateCategory(ctx, art))
	require.NoError(t, store.CreateSubcategory(ctx, "art",
		&model.Subcategory{ID: "paintings", Name: "Paintings", Visible: true}))
	books := &model.Category{ID: "books", Name: "Books", Visible: true}
	require.NoError(t, store.CreateCategory(ctx, books))

	house := &model.House{ID: "main", Code: "MH", Name: "Main House", Visible: true}
	require.NoError(t, store.CreateHouse(ctx, house))
	require.NoError(t, store.CreateRoom(ctx, "main",
		&model.Room{ID: "living", Name: "Living Room", Visible: true}))
	require.NoError(t, store.CreateRoom(ctx, "main",
		&model.Room{ID: "study", Name: "Study", Visible: true}))

	return NewServer("127.0.0.1:0", store), store
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func TestHealth(t *testing.T) {
	srv, _ := createTestServer(t)

	rec := doJSON(t, srv.Handler(), http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestItemLifecycle(t *testing.T) {
	srv, _ := createTestServer(t)
	h := srv.Handler()

	v := 450.0
	rec := doJSON(t, h, http.MethodPost, "/api/items", model.Item{
		Title:      "Bronze Horse",
		Kind:       model.KindDecor,
		CategoryID: "art",
		HouseID:    "main",
		RoomID:     "living",
		Valuation:  &v,
		Currency:   "EUR",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[model.Item](t, rec)
	assert.NotEmpty(t, created.ID, "server assigns an id when none is sent")
	assert.Equal(t, 1, created.Version)
	assert.Equal(t, 1, created.Quantity, "quantity defaults to 1")

	rec = doJSON(t, h, http.MethodGet, "/api/items/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[model.Item](t, rec)
	assert.Equal(t, "Bronze Horse", got.Title)

	got.Title = "Bronze Horse (restored)"
	rec = doJSON(t, h, http.MethodPut, "/api/items/"+created.ID, got)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[model.Item](t, rec)
	assert.Equal(t, 2, updated.Version)

	rec = doJSON(t, h, http.MethodGet, "/api/items/"+created.ID+"/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	history := decode[[]model.Item](t, rec)
	require.Len(t, history, 1)
	assert.Equal(t, "Bronze Horse", history[0].Title, "snapshot holds the pre-edit state")

	rec = doJSON(t, h, http.MethodDelete, "/api/items/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// Soft deleted: gone from the default listing, present with the flag.
	rec = doJSON(t, h, http.MethodGet, "/api/items", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]model.Item](t, rec))

	rec = doJSON(t, h, http.MethodGet, "/api/items?include_deleted=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.Item](t, rec), 1)
}

func TestItemNotFound(t *testing.T) {
	srv, _ := createTestServer(t)

	rec := doJSON(t, srv.Handler(), http.MethodGet, "/api/items/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func seedListItems(t *testing.T, store *storage.SQLiteStorage) {
	t.Helper()
	ctx := context.Background()

	low, high := 50.0, 900.0
	items := []model.Item{
		{ID: "a", Kind: model.KindDecor, Title: "Amber Vase", Quantity: 1,
			CategoryID: "art", SubcategoryID: "paintings",
			HouseID: "main", RoomID: "living", Valuation: &low, Currency: "EUR"},
		{ID: "b", Kind: model.KindBook, Title: "Dune", Creator: "Frank Herbert",
			Quantity: 1, CategoryID: "books",
			HouseID: "main", RoomID: "study", Valuation: &high, Currency: "EUR"},
		{ID: "c", Kind: model.KindDecor, Title: "Mystery Box", Quantity: 1,
			HouseID: "main", RoomID: "living"},
	}
	for i := range items {
		require.NoError(t, store.CreateItem(ctx, &items[i]))
	}
}

func TestListItemsFiltering(t *testing.T) {
	srv, store := createTestServer(t)
	seedListItems(t, store)
	h := srv.Handler()

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"no criteria", "", []string{"a", "b", "c"}},
		{"search matches creator", "?search=herbert", []string{"b"}},
		{"composite room key", "?room=" + "main%7Cstudy", []string{"b"}},
		{"min valuation excludes unvalued", "?min_valuation=10", []string{"a", "b"}},
		{"range", "?min_valuation=100&max_valuation=1000", []string{"b"}},
		{"category", "?category=books", []string{"b"}},
		{"subcategory", "?subcategory=paintings", []string{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, h, http.MethodGet, "/api/items"+tt.query, nil)
			require.Equal(t, http.StatusOK, rec.Code)

			items := decode[[]model.Item](t, rec)
			ids := make([]string, len(items))
			for i, item := range items {
				ids[i] = item.ID
			}
			assert.ElementsMatch(t, tt.want, ids)
		})
	}
}

func TestCategoryItemsPinned(t *testing.T) {
	srv, store := createTestServer(t)
	seedListItems(t, store)
	h := srv.Handler()

	rec := doJSON(t, h, http.MethodGet, "/api/categories/books/items", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items := decode[[]model.Item](t, rec)
	require.Len(t, items, 1)
	assert.Equal(t, "b", items[0].ID)

	// The route pin wins over a conflicting query parameter.
	rec = doJSON(t, h, http.MethodGet, "/api/categories/books/items?category=art", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items = decode[[]model.Item](t, rec)
	require.Len(t, items, 1)
	assert.Equal(t, "b", items[0].ID)

	// Other dimensions still narrow within the pinned set.
	rec = doJSON(t, h, http.MethodGet, "/api/houses/main/items?search=vase", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items = decode[[]model.Item](t, rec)
	require.Len(t, items, 1)
	assert.Equal(t, "a", items[0].ID)
}

func TestUpdateSubcategoryAndRoom(t *testing.T) {
	srv, _ := createTestServer(t)
	h := srv.Handler()

	rec := doJSON(t, h, http.MethodPatch, "/api/categories/art/subcategories/paintings",
		model.Subcategory{Name: "Oil Paintings", Visible: true})
	require.Equal(t, http.StatusOK, rec.Code)
	sub := decode[model.Subcategory](t, rec)
	assert.Equal(t, "paintings", sub.ID)
	assert.Equal(t, "Oil Paintings", sub.Name)

	rec = doJSON(t, h, http.MethodPatch, "/api/houses/main/rooms/study",
		model.Room{Name: "Library", Floor: 1, Visible: true})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodPatch, "/api/houses/main/rooms/missing",
		model.Room{Name: "X", Visible: true})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListItemsSorted(t *testing.T) {
	srv, store := createTestServer(t)
	seedListItems(t, store)

	rec := doJSON(t, srv.Handler(), http.MethodGet,
		"/api/items?sort=valuation&direction=desc", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	items := decode[[]model.Item](t, rec)
	require.Len(t, items, 3)
	assert.Equal(t, "b", items[0].ID)
	assert.Equal(t, "c", items[2].ID, "missing valuation sorts as zero")
}

func TestListItemsBadValuation(t *testing.T) {
	srv, _ := createTestServer(t)

	rec := doJSON(t, srv.Handler(), http.MethodGet,
		"/api/items?min_valuation=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, srv.Handler(), http.MethodGet,
		"/api/items?max_valuation=1e999x", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCategoryConflicts(t *testing.T) {
	srv, store := createTestServer(t)
	h := srv.Handler()

	rec := doJSON(t, h, http.MethodPost, "/api/categories",
		model.Category{ID: "art", Name: "Art"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// A subcategory with linked items cannot be removed.
	require.NoError(t, store.CreateItem(context.Background(), &model.Item{
		ID: "x", Kind: model.KindDecor, Title: "X", Quantity: 1,
		CategoryID: "art", SubcategoryID: "paintings",
	}))
	rec = doJSON(t, h, http.MethodDelete, "/api/categories/art/subcategories/paintings", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRoomDeleteGated(t *testing.T) {
	srv, store := createTestServer(t)
	h := srv.Handler()

	require.NoError(t, store.CreateItem(context.Background(), &model.Item{
		ID: "x", Kind: model.KindDecor, Title: "X", Quantity: 1,
		HouseID: "main", RoomID: "study",
	}))

	rec := doJSON(t, h, http.MethodDelete, "/api/houses/main/rooms/study", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, h, http.MethodDelete, "/api/houses/main/rooms/living", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestStatsEndpoint(t *testing.T) {
	srv, store := createTestServer(t)
	ctx := context.Background()

	for i, v := range []float64{10, 20, 30, 40} {
		val := v
		require.NoError(t, store.CreateItem(ctx, &model.Item{
			ID: fmt.Sprintf("eur-%d", i), Kind: model.KindDecor,
			Title: "Piece", Quantity: 1, Valuation: &val, Currency: "EUR",
		}))
	}

	rec := doJSON(t, srv.Handler(), http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	byCurrency := decode[map[string]map[string]float64](t, rec)
	eur, ok := byCurrency["EUR"]
	require.True(t, ok)
	assert.Equal(t, 100.0, eur["total"])
	assert.Equal(t, 25.0, eur["median"])
	assert.Equal(t, 4.0, eur["count"])
}

func TestFilterOptions(t *testing.T) {
	srv, _ := createTestServer(t)

	rec := doJSON(t, srv.Handler(), http.MethodGet,
		"/api/filter-options?house=main", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Categories []struct {
			ID     string `json:"id"`
			Indent bool   `json:"indent"`
		} `json:"categories"`
		Houses []struct {
			ID    string `json:"id"`
			State int    `json:"state"`
		} `json:"houses"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&payload))

	// Headers followed by indented children, in taxonomy order.
	require.Len(t, payload.Categories, 3)
	assert.Equal(t, "art", payload.Categories[0].ID)
	assert.True(t, payload.Categories[1].Indent)
	assert.Equal(t, "books", payload.Categories[2].ID)

	// Selecting the house checks its header and its composite-keyed rooms.
	require.Len(t, payload.Houses, 3)
	assert.Equal(t, "main", payload.Houses[0].ID)
	assert.Equal(t, 2, payload.Houses[0].State)
	assert.Equal(t, "main|living", payload.Houses[1].ID)
}

func TestExportEndpoint(t *testing.T) {
	srv, store := createTestServer(t)
	seedListItems(t, store)

	rec := doJSON(t, srv.Handler(), http.MethodGet, "/api/export?search=dune", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2, "header plus one matching row")
	assert.Contains(t, lines[0], "kind,title")
	assert.Contains(t, lines[1], "Dune")
	assert.Contains(t, lines[1], "Study", "room ids resolve to display names")
}
