package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"go-shop-backend/internal/middleware"
	"go-shop-backend/internal/model"
	"go-shop-backend/internal/service"
	"go-shop-backend/pkg/apierror"
)

type ProductHandler struct {
	service   *service.ProductService
	maxUpload int64
}

func NewProductHandler(service *service.ProductService, maxUpload int64) *ProductHandler {
	if maxUpload <= 0 {
		maxUpload = 10 << 20
	}
	return &ProductHandler{service: service, maxUpload: maxUpload}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	perPage := queryInt(r, "perPage", service.DefaultPerPage)

	result, err := h.service.List(r.Context(), page, perPage)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, result.Products, &model.Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      result.Total,
		TotalPages: result.MaxPage,
	})
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, product, nil)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, errAuthRequired())
		return
	}

	input, image, err := h.parseProductForm(w, r, true)
	if err != nil {
		writeError(w, err)
		return
	}

	product, err := h.service.Create(r.Context(), claims.UserID, input, image)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, product, nil)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, errAuthRequired())
		return
	}

	input, image, err := h.parseProductForm(w, r, false)
	if err != nil {
		writeError(w, err)
		return
	}

	product, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), claims.UserID, input, image)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, product, nil)
}

// Delete removes a product and answers with the page count of the shrunk
// catalog so list views can clamp their current page.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, errAuthRequired())
		return
	}

	perPage := queryInt(r, "perPage", service.DefaultPerPage)

	maxPage, err := h.service.Delete(r.Context(), chi.URLParam(r, "id"), claims.UserID, perPage)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.DeleteProductResponse{MaxPage: maxPage}, nil)
}

// parseProductForm reads the multipart body: text fields plus one "image"
// file part. The whole body is capped at maxUpload before any parsing.
func (h *ProductHandler) parseProductForm(w http.ResponseWriter, r *http.Request, imageRequired bool) (model.ProductInput, []byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)

	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return model.ProductInput{}, nil, apierror.New(
				"PAYLOAD_TOO_LARGE", "uploaded file is too large", "", http.StatusRequestEntityTooLarge)
		}
		return model.ProductInput{}, nil, apierror.New(
			"BAD_REQUEST", "expected a multipart form body", "", http.StatusBadRequest)
	}

	price, _ := strconv.ParseFloat(r.FormValue("price"), 64)
	input := model.ProductInput{
		Title:       r.FormValue("title"),
		Price:       price,
		Description: r.FormValue("description"),
	}

	if err := validateStruct(input); err != nil {
		return model.ProductInput{}, nil, err
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) && !imageRequired {
			return input, nil, nil
		}
		return model.ProductInput{}, nil, apierror.Validation(
			apierror.FieldError{Field: "image", Message: "an image file is required"})
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		return model.ProductInput{}, nil, err
	}

	return input, image, nil
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}

func errAuthRequired() *apierror.APIError {
	return apierror.New("UNAUTHORIZED", "authentication required", "", http.StatusUnauthorized)
}
