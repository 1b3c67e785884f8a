package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cofundable/cofundable/internal/adapter/http/dto"
	"github.com/cofundable/cofundable/internal/usecase"
)

// BookmarkHandler handles the current user's bookmarks.
type BookmarkHandler struct {
	bookmarkUC *usecase.BookmarkUseCase
	userUC     *usecase.UserUseCase
}

// NewBookmarkHandler creates a new BookmarkHandler.
func NewBookmarkHandler(bookmarkUC *usecase.BookmarkUseCase, userUC *usecase.UserUseCase) *BookmarkHandler {
	return &BookmarkHandler{bookmarkUC: bookmarkUC, userUC: userUC}
}

// Put bookmarks a cause for the current user. Repeating it is a no-op.
func (h *BookmarkHandler) Put(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.userUC)
	if !ok {
		return
	}

	bookmark, err := h.bookmarkUC.BookmarkCause(r.Context(), user.ID, chi.URLParam(r, "cause_handle"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BookmarkFromDomain(bookmark))
}

// List lists the current user's bookmarks, newest first.
func (h *BookmarkHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.userUC)
	if !ok {
		return
	}

	page, ok := parsePage(w, r)
	if !ok {
		return
	}

	bookmarks, err := h.bookmarkUC.ListBookmarks(r.Context(), user.ID, page)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewPageResponse(bookmarks, r.URL, dto.BookmarkFromDomain))
}
