package review

import (
	"log/slog"
	"net/http"

	"bookreviews/internal/httpx"
)

type HTTPHandler struct {
	service *Service
	logger  *slog.Logger
}

func NewHTTPHandler(service *Service, logger *slog.Logger) *HTTPHandler {
	return &HTTPHandler{service: service, logger: logger}
}

type createReviewRequest struct {
	Rating  int    `json:"rating" validate:"gte=1,lte=5"`
	Comment string `json:"comment" validate:"max=5000"`
}

// updateReviewRequest uses pointers so omitted fields can be told apart from zero values.
type updateReviewRequest struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment" validate:"omitempty,max=5000"`
}

func identityFrom(r *http.Request) Identity {
	return Identity{ID: httpx.UserIDFrom(r)}
}

// Create handles POST /api/books/{id}/reviews
// @Summary Review a book
// @Tags reviews
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Book ID"
// @Success 201 {object} Review
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /api/books/{id}/reviews [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createReviewRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	if err := httpx.ValidateStruct(req); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	rv, err := h.service.Add(r.Context(), identityFrom(r), r.PathValue("id"), req.Rating, req.Comment)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, rv)
}

// ListForBook handles GET /api/books/{id}/reviews
func (h *HTTPHandler) ListForBook(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.service.ListForBook(r.Context(), r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, reviews)
}

// Get handles GET /api/reviews/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	rv, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rv)
}

// Update handles PUT and PATCH /api/reviews/{id}
// @Summary Update own review
// @Description Only fields present in the body are changed.
// @Tags reviews
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Review ID"
// @Success 200 {object} Review
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /api/reviews/{id} [put]
// @Router /api/reviews/{id} [patch]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateReviewRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	if err := httpx.ValidateStruct(req); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	rv, err := h.service.Update(r.Context(), identityFrom(r), r.PathValue("id"), Patch(req))
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rv)
}

// Delete handles DELETE /api/reviews/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), identityFrom(r), r.PathValue("id")); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.MessageResponse{Message: DeletedMessage})
}
