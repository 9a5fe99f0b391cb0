package http

import (
	"net/http"

	"bilancio/internal/core"
)

type createCategoryRequest struct {
	Name     string `json:"name"`
	IsIncome bool   `json:"isIncome"`
}

type updateCategoryRequest struct {
	Name       *string `json:"name"`
	IsIncome   *bool   `json:"isIncome"`
	IsArchived *bool   `json:"isArchived"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	includeArchived := r.URL.Query().Get("includeArchived") == "true"

	categories, err := s.categories.List(r.Context(), userID(r), includeArchived)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCategoryResponses(categories))
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	c, err := s.categories.Create(r.Context(), userID(r), req.Name, req.IsIncome)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCategoryResponse(c))
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	c, err := s.categories.Get(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCategoryResponse(c))
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req updateCategoryRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	patch := core.CategoryPatch{
		Name:       req.Name,
		IsIncome:   req.IsIncome,
		IsArchived: req.IsArchived,
	}
	c, err := s.categories.Update(r.Context(), userID(r), r.PathValue("id"), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCategoryResponse(c))
}
