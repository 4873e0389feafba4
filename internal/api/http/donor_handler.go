package http

import (
	"fmt"
	"net/http"

	"bookshare-backend/internal/domain"
	"bookshare-backend/internal/service"
)

// DonorHandler serves the donor dashboard: own books and incoming requests.
type DonorHandler struct {
	catalogSvc service.CatalogService
	requestSvc service.RequestService
}

func NewDonorHandler(catalogSvc service.CatalogService, requestSvc service.RequestService) *DonorHandler {
	return &DonorHandler{catalogSvc: catalogSvc, requestSvc: requestSvc}
}

type createBookRequest struct {
	BookCode    string `json:"book_id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Genre       string `json:"genre"`
	Edition     string `json:"edition"`
	Publisher   string `json:"publisher"`
	Description string `json:"description"`
}

type availabilityRequest struct {
	IsAvailable *bool `json:"is_available"`
}

type decisionRequest struct {
	Status domain.RequestStatus `json:"status"`
}

func (h *DonorHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	donorID, err := principal(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	books, err := h.catalogSvc.ListBooksForDonor(r.Context(), donorID, r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"books": books})
}

func (h *DonorHandler) CreateBook(w http.ResponseWriter, r *http.Request) {
	donorID, err := principal(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req createBookRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	book := &domain.Book{
		BookCode:    req.BookCode,
		Title:       req.Title,
		Author:      req.Author,
		Genre:       req.Genre,
		Edition:     req.Edition,
		Publisher:   req.Publisher,
		Description: req.Description,
	}
	if err := h.catalogSvc.CreateBook(r.Context(), donorID, book); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"book": book})
}

func (h *DonorHandler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	donorID, err := principal(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	bookID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req availabilityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.IsAvailable == nil {
		writeError(w, r, fmt.Errorf("%w: is_available is required", domain.ErrValidation))
		return
	}
	book, err := h.catalogSvc.SetAvailability(r.Context(), donorID, bookID, *req.IsAvailable)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"book": book})
}

func (h *DonorHandler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	donorID, err := principal(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	bookID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.catalogSvc.DeleteBook(r.Context(), donorID, bookID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *DonorHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	donorID, err := principal(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	requests, err := h.requestSvc.ListRequestsForDonor(r.Context(), donorID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"requests": requests})
}

func (h *DonorHandler) DecideRequest(w http.ResponseWriter, r *http.Request) {
	donorID, err := principal(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	requestID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req decisionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	decision, err := h.requestSvc.DecideRequest(r.Context(), donorID, requestID, req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, decision)
}
