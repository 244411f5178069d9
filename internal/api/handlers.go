package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/curiocollect/curio/internal/common"
	"github.com/curiocollect/curio/internal/csvio"
	"github.com/curiocollect/curio/internal/model"
	"github.com/curiocollect/curio/internal/query"
	"github.com/curiocollect/curio/internal/stats"
	"github.com/curiocollect/curio/internal/taxonomy"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	var userErr *common.UserError
	switch {
	case errors.As(err, &userErr):
		http.Error(w, userErr.Error(), http.StatusBadRequest)
	case errors.Is(err, common.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, common.ErrDuplicateEntry),
		errors.Is(err, common.ErrHasLinkedItems):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// criteriaFromQuery maps request query parameters onto filter criteria.
// Multi-valued dimensions repeat the parameter (?category=art&category=books).
func criteriaFromQuery(r *http.Request) (query.Criteria, error) {
	q := r.URL.Query()
	c := query.Criteria{
		Search:        q.Get("search"),
		Year:          q.Get("year"),
		Creator:       q.Get("creator"),
		Condition:     q.Get("condition"),
		Currency:      q.Get("currency"),
		Categories:    q["category"],
		Subcategories: q["subcategory"],
		Houses:        q["house"],
		Rooms:         q["room"],
	}

	if v := q.Get("min_valuation"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return c, common.NewUserError("invalid min_valuation", err)
		}
		c.MinValuation = &f
	}
	if v := q.Get("max_valuation"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return c, common.NewUserError("invalid max_valuation", err)
		}
		c.MaxValuation = &f
	}
	if q.Get("include_deleted") == "true" {
		c.IncludeDeleted = true
	}
	return c, nil
}

// loadFilteredItems runs the shared list pipeline: load, filter, sort.
// Route-pinned dimensions in pinned override the corresponding query
// parameters, so a collection route cannot be widened by the client.
func (s *Server) loadFilteredItems(r *http.Request, pinned query.Criteria) ([]model.Item, error) {
	criteria, err := criteriaFromQuery(r)
	if err != nil {
		return nil, err
	}
	criteria = criteria.Merge(pinned)

	items, err := s.store.GetItems(r.Context())
	if err != nil {
		return nil, err
	}
	filtered := query.Filter(items, criteria)

	sortField := r.URL.Query().Get("sort")
	if sortField == "" {
		return filtered, nil
	}

	categories, err := s.store.GetCategories(r.Context())
	if err != nil {
		return nil, err
	}
	houses, err := s.store.GetHouses(r.Context())
	if err != nil {
		return nil, err
	}

	dir := query.Ascending
	if r.URL.Query().Get("direction") == string(query.Descending) {
		dir = query.Descending
	}
	return query.Sort(filtered, query.ParseField(sortField), dir, categories, houses), nil
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.loadFilteredItems(r, query.Criteria{})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// handleCategoryItems lists the items of one category; the category filter is
// pinned by the route.
func (s *Server) handleCategoryItems(w http.ResponseWriter, r *http.Request) {
	pinned := query.Criteria{Categories: []string{chi.URLParam(r, "id")}}
	items, err := s.loadFilteredItems(r, pinned)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// handleHouseItems lists the items of one house; the house filter is pinned
// by the route.
func (s *Server) handleHouseItems(w http.ResponseWriter, r *http.Request) {
	pinned := query.Criteria{Houses: []string{chi.URLParam(r, "id")}}
	items, err := s.loadFilteredItems(r, pinned)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var item model.Item
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.Kind == "" {
		item.Kind = model.DetectKind(item.Attrs)
	}
	if item.Quantity == 0 {
		item.Quantity = 1
	}

	if err := s.store.CreateItem(r.Context(), &item); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	item, err := s.store.GetItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	var item model.Item
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	item.ID = chi.URLParam(r, "id")

	if err := s.store.UpdateItem(r.Context(), &item); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleItemHistory(w http.ResponseWriter, r *http.Request) {
	history, err := s.store.GetItemHistory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.store.GetCategories(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var category model.Category
	if err := json.NewDecoder(r.Body).Decode(&category); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	category.Visible = true

	if err := s.store.CreateCategory(r.Context(), &category); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, category)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var category model.Category
	if err := json.NewDecoder(r.Body).Decode(&category); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	category.ID = chi.URLParam(r, "id")

	if err := s.store.UpdateCategory(r.Context(), &category); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

func (s *Server) handleCreateSubcategory(w http.ResponseWriter, r *http.Request) {
	var sub model.Subcategory
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sub.Visible = true

	if err := s.store.CreateSubcategory(r.Context(), chi.URLParam(r, "id"), &sub); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

func (s *Server) handleUpdateSubcategory(w http.ResponseWriter, r *http.Request) {
	var sub model.Subcategory
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sub.ID = chi.URLParam(r, "subID")

	if err := s.store.UpdateSubcategory(r.Context(), chi.URLParam(r, "id"), &sub); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (s *Server) handleDeleteSubcategory(w http.ResponseWriter, r *http.Request) {
	err := s.store.DeleteSubcategory(r.Context(),
		chi.URLParam(r, "id"), chi.URLParam(r, "subID"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListHouses(w http.ResponseWriter, r *http.Request) {
	houses, err := s.store.GetHouses(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, houses)
}

func (s *Server) handleCreateHouse(w http.ResponseWriter, r *http.Request) {
	var house model.House
	if err := json.NewDecoder(r.Body).Decode(&house); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if house.ID == "" {
		house.ID = uuid.NewString()
	}
	house.Visible = true

	if err := s.store.CreateHouse(r.Context(), &house); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, house)
}

func (s *Server) handleUpdateHouse(w http.ResponseWriter, r *http.Request) {
	var house model.House
	if err := json.NewDecoder(r.Body).Decode(&house); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	house.ID = chi.URLParam(r, "id")

	if err := s.store.UpdateHouse(r.Context(), &house); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, house)
}

func (s *Server) handleHouseHistory(w http.ResponseWriter, r *http.Request) {
	history, err := s.store.GetHouseHistory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var room model.Room
	if err := json.NewDecoder(r.Body).Decode(&room); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	room.Visible = true

	if err := s.store.CreateRoom(r.Context(), chi.URLParam(r, "id"), &room); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, room)
}

func (s *Server) handleUpdateRoom(w http.ResponseWriter, r *http.Request) {
	var room model.Room
	if err := json.NewDecoder(r.Body).Decode(&room); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	room.ID = chi.URLParam(r, "roomID")

	if err := s.store.UpdateRoom(r.Context(), chi.URLParam(r, "id"), &room); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

func (s *Server) handleDeleteRoom(w http.ResponseWriter, r *http.Request) {
	err := s.store.DeleteRoom(r.Context(),
		chi.URLParam(r, "id"), chi.URLParam(r, "roomID"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleStats computes per-currency valuation statistics over the filtered
// set, so the analytics view honors the active filters.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	criteria, err := criteriaFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	items, err := s.store.GetItems(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats.ByCurrency(query.Filter(items, criteria)))
}

// filterOptions is the payload the filter dropdowns render from.
type filterOptions struct {
	Categories []taxonomy.Option `json:"categories"`
	Houses     []taxonomy.Option `json:"houses"`
}

// handleFilterOptions returns the flattened selectable option lists for both
// taxonomies, with tri-state computed from the selection in the query.
func (s *Server) handleFilterOptions(w http.ResponseWriter, r *http.Request) {
	categories, err := s.store.GetCategories(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	houses, err := s.store.GetHouses(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	q := r.URL.Query()
	catSel := taxonomy.NewSelection()
	for _, id := range q["category"] {
		catSel.Parents[id] = true
	}
	for _, id := range q["subcategory"] {
		catSel.Children[id] = true
	}
	houseSel := taxonomy.NewSelection()
	for _, id := range q["house"] {
		houseSel.Parents[id] = true
	}
	for _, key := range q["room"] {
		houseSel.Children[key] = true
	}

	writeJSON(w, http.StatusOK, filterOptions{
		Categories: taxonomy.Flatten(taxonomy.CategoryAccessors(),
			taxonomy.VisibleCategories(categories), catSel),
		Houses: taxonomy.Flatten(taxonomy.HouseAccessors(),
			taxonomy.VisibleHouses(houses), houseSel),
	})
}

// handleExport streams the filtered, sorted set as CSV.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	items, err := s.loadFilteredItems(r, query.Criteria{})
	if err != nil {
		writeError(w, err)
		return
	}
	categories, err := s.store.GetCategories(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	houses, err := s.store.GetHouses(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="inventory.csv"`)

	exporter := csvio.NewExporter(csvio.NewLabels(categories, houses),
		r.URL.Query().Get("ids") == "true")
	if err := exporter.Export(w, items); err != nil {
		common.LogError(err, "csv export failed", nil)
	}
}
