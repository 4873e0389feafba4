package http

import (
	"net/http"

	"bookshare-backend/internal/service"
)

// ReceiverHandler serves the receiver dashboard: the available catalog and own requests.
type ReceiverHandler struct {
	catalogSvc service.CatalogService
	requestSvc service.RequestService
}

func NewReceiverHandler(catalogSvc service.CatalogService, requestSvc service.RequestService) *ReceiverHandler {
	return &ReceiverHandler{catalogSvc: catalogSvc, requestSvc: requestSvc}
}

type createRequestRequest struct {
	Message string `json:"message"`
}

func (h *ReceiverHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	receiverID, err := principal(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	books, err := h.catalogSvc.ListAvailableBooks(r.Context(), receiverID, q.Get("q"), q.Get("genre"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"books": books})
}

func (h *ReceiverHandler) ListGenres(w http.ResponseWriter, r *http.Request) {
	receiverID, err := principal(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	genres, err := h.catalogSvc.ListGenres(r.Context(), receiverID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"genres": genres})
}

func (h *ReceiverHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	receiverID, err := principal(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	bookID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req createRequestRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	created, err := h.requestSvc.CreateRequest(r.Context(), receiverID, bookID, req.Message)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"request": created})
}

func (h *ReceiverHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	receiverID, err := principal(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	requests, err := h.requestSvc.ListRequestsForReceiver(r.Context(), receiverID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"requests": requests})
}
