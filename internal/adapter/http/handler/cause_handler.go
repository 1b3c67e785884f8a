package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cofundable/cofundable/internal/adapter/http/dto"
	"github.com/cofundable/cofundable/internal/usecase"
)

// CauseHandler handles cause-related HTTP requests.
type CauseHandler struct {
	causeUC *usecase.CauseUseCase
}

// NewCauseHandler creates a new CauseHandler.
func NewCauseHandler(causeUC *usecase.CauseUseCase) *CauseHandler {
	return &CauseHandler{causeUC: causeUC}
}

// Create creates a cause, its account and any missing tags.
func (h *CauseHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAndValidate[dto.CreateCauseRequest](w, r)
	if !ok {
		return
	}

	cause, err := h.causeUC.CreateCause(r.Context(), req.ToUseCaseInput())
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.CauseFromDomain(cause))
}

// List lists causes, newest first.
func (h *CauseHandler) List(w http.ResponseWriter, r *http.Request) {
	page, ok := parsePage(w, r)
	if !ok {
		return
	}

	causes, err := h.causeUC.ListCauses(r.Context(), page)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewPageResponse(causes, r.URL, dto.CauseFromDomain))
}

// Get retrieves a cause by ID.
func (h *CauseHandler) Get(w http.ResponseWriter, r *http.Request) {
	cause, err := h.causeUC.GetCause(r.Context(), chi.URLParam(r, "cause"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CauseFromDomain(cause))
}

// Delete removes a cause and its bookmarks.
func (h *CauseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.causeUC.DeleteCause(r.Context(), chi.URLParam(r, "cause")); err != nil {
		respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// TagHandler handles tag listing.
type TagHandler struct {
	tagUC *usecase.TagUseCase
}

// NewTagHandler creates a new TagHandler.
func NewTagHandler(tagUC *usecase.TagUseCase) *TagHandler {
	return &TagHandler{tagUC: tagUC}
}

// List lists tags by name.
func (h *TagHandler) List(w http.ResponseWriter, r *http.Request) {
	page, ok := parsePage(w, r)
	if !ok {
		return
	}

	tags, err := h.tagUC.ListTags(r.Context(), page)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewPageResponse(tags, r.URL, dto.TagFromDomain))
}
