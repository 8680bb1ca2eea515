package product

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rahul/shopkart/backend/internal/httpx"
	"github.com/rahul/shopkart/backend/internal/models"
	"github.com/rahul/shopkart/backend/internal/store"
	"github.com/rahul/shopkart/backend/internal/upload"
	"github.com/rahul/shopkart/backend/internal/validate"
)

const genericFailure = "Something went wrong, please try again."

// ProductStore defines the interface for product persistence.
type ProductStore interface {
	Insert(ctx context.Context, p *models.Product) (string, error)
	List(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Update(ctx context.Context, id string, upd models.ProductUpdate) (*models.Product, error)
	Delete(ctx context.Context, id string) error
}

// FileSaver defines the interface for image upload persistence.
type FileSaver interface {
	Save(r *http.Request) (string, error)
	Remove(relPath string) error
}

// Handler holds product HTTP handlers.
type Handler struct {
	products ProductStore
	files    FileSaver
}

func NewHandler(products ProductStore, files FileSaver) *Handler {
	return &Handler{products: products, files: files}
}

// Add validates the multipart form, stores the image, and persists the
// product. The image is mandatory.
//
// @Summary Add a product
// @Tags product
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param name formData string true "Product name"
// @Param price formData string true "Price as a decimal string"
// @Param description formData string true "Product description"
// @Param file formData file true "Product image (JPG, JPEG, or PNG)"
// @Success 201 {object} httpx.Envelope{data=models.Product} "Product created"
// @Failure 400 {object} httpx.Envelope "Validation failure or missing file"
// @Failure 401 {object} httpx.Envelope "Unauthorized"
// @Router /api/addProduct [post]
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	filePath, err := h.files.Save(r)
	if err != nil {
		if errors.Is(err, upload.ErrNoFile) {
			httpx.Error(w, http.StatusBadRequest, "File is required and must be an image")
			return
		}
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	fields := validate.ProductFields{
		Name:        r.FormValue("name"),
		Price:       r.FormValue("price"),
		Description: r.FormValue("description"),
	}
	if res := validate.Product(fields); !res.OK() {
		h.discard(filePath)
		httpx.Write(w, http.StatusBadRequest, res.First(), res.Errors)
		return
	}

	p := &models.Product{
		Name:        fields.Name,
		Price:       fields.Price,
		Description: fields.Description,
		File:        filePath,
	}
	if _, err := h.products.Insert(r.Context(), p); err != nil {
		log.Printf("add product: %v", err)
		h.discard(filePath)
		httpx.Error(w, http.StatusInternalServerError, genericFailure)
		return
	}

	httpx.Write(w, http.StatusCreated, "Product added successfully.", p)
}

// discard removes an image that was stored for a request that then failed.
func (h *Handler) discard(filePath string) {
	if err := h.files.Remove(filePath); err != nil {
		log.Printf("discard upload %s: %v", filePath, err)
	}
}

// List returns every product.
//
// @Summary List all products
// @Tags product
// @Produce json
// @Security BearerAuth
// @Success 200 {object} httpx.Envelope{data=[]models.Product} "Catalog contents"
// @Failure 401 {object} httpx.Envelope "Unauthorized"
// @Router /api/products [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, genericFailure)
		return
	}

	httpx.Write(w, http.StatusOK, "Products retrieved successfully.", products)
}

// Get returns one product by id.
//
// @Summary Get a product by id
// @Tags product
// @Produce json
// @Security BearerAuth
// @Param productId path string true "Product id"
// @Success 200 {object} httpx.Envelope{data=models.Product} "Product details"
// @Failure 401 {object} httpx.Envelope "Unauthorized"
// @Failure 404 {object} httpx.Envelope "Product not found"
// @Router /api/product/{productId} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "productId")
	if id == "" {
		httpx.Error(w, http.StatusBadRequest, "Product ID is required")
		return
	}

	p, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "Product not found")
			return
		}
		httpx.Error(w, http.StatusBadRequest, genericFailure)
		return
	}

	httpx.Write(w, http.StatusOK, "Product fetched successfully", p)
}

// Update replaces the product's fields. When no new image is supplied the
// prior file path is kept; when one is, the old file is removed from disk.
//
// @Summary Update a product
// @Tags product
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param productId path string true "Product id"
// @Param name formData string false "Product name"
// @Param price formData string false "Price as a decimal string"
// @Param description formData string false "Product description"
// @Param file formData file false "Replacement image (JPG, JPEG, or PNG)"
// @Success 200 {object} httpx.Envelope{data=models.Product} "Product updated"
// @Failure 400 {object} httpx.Envelope "Validation failure"
// @Failure 401 {object} httpx.Envelope "Unauthorized"
// @Failure 404 {object} httpx.Envelope "Product not found"
// @Router /api/product/{productId} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "productId")
	if id == "" {
		httpx.Error(w, http.StatusBadRequest, "Product ID is required")
		return
	}

	existing, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "Product not found")
			return
		}
		httpx.Error(w, http.StatusBadRequest, genericFailure)
		return
	}

	filePath, err := h.files.Save(r)
	if err != nil && !errors.Is(err, upload.ErrNoFile) {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	newImage := filePath != ""
	if !newImage {
		filePath = existing.File
	}

	// Omitted fields keep their stored values.
	fields := validate.ProductFields{
		Name:        formOr(r, "name", existing.Name),
		Price:       formOr(r, "price", existing.Price),
		Description: formOr(r, "description", existing.Description),
	}
	if res := validate.Product(fields); !res.OK() {
		if newImage {
			h.discard(filePath)
		}
		httpx.Write(w, http.StatusBadRequest, res.First(), res.Errors)
		return
	}

	updated, err := h.products.Update(r.Context(), id, models.ProductUpdate{
		Name:        fields.Name,
		Price:       fields.Price,
		Description: fields.Description,
		File:        filePath,
	})
	if err != nil {
		if newImage {
			h.discard(filePath)
		}
		if errors.Is(err, store.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "Product not found")
			return
		}
		httpx.Error(w, http.StatusInternalServerError, genericFailure)
		return
	}

	if newImage {
		if err := h.files.Remove(existing.File); err != nil {
			log.Printf("update product: remove old image %s: %v", existing.File, err)
		}
	}

	httpx.Write(w, http.StatusOK, "Product updated successfully", updated)
}

// Delete removes the product and its stored image.
//
// @Summary Delete a product
// @Tags product
// @Produce json
// @Security BearerAuth
// @Param productId path string true "Product id"
// @Success 200 {object} httpx.Envelope "Product deleted"
// @Failure 401 {object} httpx.Envelope "Unauthorized"
// @Failure 404 {object} httpx.Envelope "Product not found"
// @Router /api/product/{productId} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "productId")
	if id == "" {
		httpx.Error(w, http.StatusBadRequest, "Product ID is required")
		return
	}

	existing, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "Product not found")
			return
		}
		httpx.Error(w, http.StatusBadRequest, genericFailure)
		return
	}

	if err := h.products.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "Product not found")
			return
		}
		httpx.Error(w, http.StatusBadRequest, genericFailure)
		return
	}

	if err := h.files.Remove(existing.File); err != nil {
		log.Printf("delete product: remove image %s: %v", existing.File, err)
	}

	httpx.Error(w, http.StatusOK, "Product deleted successfully")
}

func formOr(r *http.Request, field, fallback string) string {
	if v := r.FormValue(field); v != "" {
		return v
	}
	return fallback
}
