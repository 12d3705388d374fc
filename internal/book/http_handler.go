package book

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/samber/lo"

	"bookreviews/internal/httpx"
)

type HTTPHandler struct {
	service *Service
	logger  *slog.Logger
}

func NewHTTPHandler(service *Service, logger *slog.Logger) *HTTPHandler {
	return &HTTPHandler{service: service, logger: logger}
}

type createBookRequest struct {
	Title       string `json:"title" validate:"max=255"`
	Author      string `json:"author" validate:"max=255"`
	Genre       string `json:"genre" validate:"max=255"`
	Description string `json:"description" validate:"max=10000"`
}

// Create handles POST /api/books
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	if err := httpx.ValidateStruct(req); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	b, err := h.service.CreateBook(r.Context(), NewBook(req))
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, b)
}

// atoiOr parses a positive integer, returning 0 for anything else so the
// service applies its default.
func atoiOr(s string) int {
	n, err := strconv.Atoi(s)
	return lo.Ternary(err == nil && n > 0, n, 0)
}

// List handles GET /api/books
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, err := h.service.List(r.Context(), ListParams{
		Page:   atoiOr(query.Get("page")),
		Limit:  atoiOr(query.Get("limit")),
		Author: query.Get("author"),
		Genre:  query.Get("genre"),
	})
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, page)
}

// Get handles GET /api/books/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, d)
}

// Search handles GET /api/search?query=
func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.Search(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, books)
}
