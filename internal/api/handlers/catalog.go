package handlers

import (
	stdErrors "errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aaravmahajanofficial/fishshop-backend/internal/api/middleware"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/errors"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/models"
	service "github.com/aaravmahajanofficial/fishshop-backend/internal/services"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/utils"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/utils/response"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// multipartOverhead leaves room for boundaries and headers around the image part.
const multipartOverhead = 64 << 10

type CatalogHandler struct {
	catalogService service.CatalogService
	validator      *validator.Validate
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService, validator: utils.NewValidator()}
}

// CreateCategory godoc
//	@Summary	Create a category
//	@Tags		Catalog
//	@Accept		json
//	@Produce	json
//	@Param		request	body		models.CreateCategoryRequest	true	"Category"
//	@Success	201		{object}	models.Category
//	@Failure	400		{object}	response.ErrorResponse	"Validation error"
//	@Failure	409		{object}	response.ErrorResponse	"Name already used"
//	@Security	BearerAuth
//	@Router		/admin/categories [post]
func (h *CatalogHandler) CreateCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.CreateCategoryRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid category input")
			return
		}

		category, err := h.catalogService.CreateCategory(r.Context(), &req)
		if err != nil {
			logger.Error("Failed to create category", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Category created", slog.String("categoryId", category.ID.Hex()))
		response.Success(w, http.StatusCreated, category)
	}
}

// ListCategories godoc
//	@Summary	List categories
//	@Tags		Catalog
//	@Produce	json
//	@Success	200	{array}		models.Category
//	@Failure	500	{object}	response.ErrorResponse
//	@Router		/categories [get]
func (h *CatalogHandler) ListCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		categories, err := h.catalogService.ListCategories(r.Context())
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Failed to list categories", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, categories)
	}
}

// DeleteCategory godoc
//	@Summary		Delete a category
//	@Description	Fails with 409 while products still belong to the category.
//	@Tags			Catalog
//	@Produce		json
//	@Param			id	path	string	true	"Category ID"
//	@Success		204
//	@Failure		404	{object}	response.ErrorResponse
//	@Failure		409	{object}	response.ErrorResponse
//	@Security		BearerAuth
//	@Router			/admin/categories/{id} [delete]
func (h *CatalogHandler) DeleteCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, ok := parseID(w, r, "id")
		if !ok {
			return
		}

		if err := h.catalogService.DeleteCategory(r.Context(), id); err != nil {
			logger.Warn("Failed to delete category", slog.String("categoryId", id.Hex()), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Category deleted", slog.String("categoryId", id.Hex()))
		w.WriteHeader(http.StatusNoContent)
	}
}

// CreateProduct godoc
//	@Summary		Create a product
//	@Description	Price is per kg for weight products and per piece otherwise.
//	@Tags			Catalog
//	@Accept			json
//	@Produce		json
//	@Param			request	body		models.CreateProductRequest	true	"Product"
//	@Success		201		{object}	models.Product
//	@Failure		400		{object}	response.ErrorResponse	"Validation or unit error"
//	@Failure		404		{object}	response.ErrorResponse	"Category not found"
//	@Security		BearerAuth
//	@Router			/admin/products [post]
func (h *CatalogHandler) CreateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.CreateProductRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid product input")
			return
		}

		product, err := h.catalogService.CreateProduct(r.Context(), &req)
		if err != nil {
			logger.Error("Failed to create product", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Product created", slog.String("productId", product.ID.Hex()))
		response.Success(w, http.StatusCreated, product)
	}
}

// GetProduct godoc
//	@Summary	Get a product
//	@Tags		Catalog
//	@Produce	json
//	@Param		id	path		string	true	"Product ID"
//	@Success	200	{object}	models.Product
//	@Failure	400	{object}	response.ErrorResponse
//	@Failure	404	{object}	response.ErrorResponse
//	@Router		/products/{id} [get]
func (h *CatalogHandler) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, ok := parseID(w, r, "id")
		if !ok {
			return
		}

		product, err := h.catalogService.GetProduct(r.Context(), id)
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Warn("Failed to get product", slog.String("productId", id.Hex()), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, product)
	}
}

// ListProducts godoc
//	@Summary	List products
//	@Tags		Catalog
//	@Produce	json
//	@Param		category	query		string	false	"Category ID"
//	@Param		page		query		int		false	"Page number (default: 1)"			minimum(1)
//	@Param		pageSize	query		int		false	"Items per page (default: 10)"		minimum(1)	maximum(100)
//	@Success	200			{object}	models.PaginatedResponse{Data=[]models.Product}
//	@Failure	400			{object}	response.ErrorResponse
//	@Router		/products [get]
func (h *CatalogHandler) ListProducts(availableOnly bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())
		page, pageSize := utils.ParsePagination(r)

		filter := models.ProductFilter{AvailableOnly: availableOnly, Page: page, PageSize: pageSize}

		if raw := r.URL.Query().Get("category"); raw != "" {
			categoryID, err := primitive.ObjectIDFromHex(raw)
			if err != nil {
				response.Error(w, errors.BadRequestError("Invalid category format"))
				return
			}
			filter.CategoryID = &categoryID
		}

		products, total, err := h.catalogService.ListProducts(r.Context(), filter)
		if err != nil {
			logger.Error("Failed to list products", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, models.PaginatedResponse{
			Data:     products,
			Total:    int(total),
			Page:     page,
			PageSize: pageSize,
		})
	}
}

// UpdateProduct godoc
//	@Summary	Update a product
//	@Tags		Catalog
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string						true	"Product ID"
//	@Param		request	body		models.UpdateProductRequest	true	"Fields to change"
//	@Success	200		{object}	models.Product
//	@Failure	400		{object}	response.ErrorResponse
//	@Failure	404		{object}	response.ErrorResponse
//	@Security	BearerAuth
//	@Router		/admin/products/{id} [patch]
func (h *CatalogHandler) UpdateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, ok := parseID(w, r, "id")
		if !ok {
			return
		}

		var req models.UpdateProductRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid product update input")
			return
		}

		product, err := h.catalogService.UpdateProduct(r.Context(), id, &req)
		if err != nil {
			logger.Error("Failed to update product", slog.String("productId", id.Hex()), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Product updated", slog.String("productId", id.Hex()))
		response.Success(w, http.StatusOK, product)
	}
}

// DeleteProduct godoc
//	@Summary	Delete a product
//	@Tags		Catalog
//	@Param		id	path	string	true	"Product ID"
//	@Success	204
//	@Failure	404	{object}	response.ErrorResponse
//	@Security	BearerAuth
//	@Router		/admin/products/{id} [delete]
func (h *CatalogHandler) DeleteProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, ok := parseID(w, r, "id")
		if !ok {
			return
		}

		if err := h.catalogService.DeleteProduct(r.Context(), id); err != nil {
			middleware.LoggerFromContext(r.Context()).Warn("Failed to delete product", slog.String("productId", id.Hex()), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// UploadImage godoc
//	@Summary		Upload a product image
//	@Description	Multipart field "image", at most 2 MiB. The content must sniff as an image.
//	@Tags			Catalog
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			id		path		string	true	"Product ID"
//	@Param			image	formData	file	true	"Image file"
//	@Success		200		{object}	models.Product
//	@Failure		400		{object}	response.ErrorResponse	"Not an image"
//	@Failure		413		{object}	response.ErrorResponse	"Image too large"
//	@Security		BearerAuth
//	@Router			/admin/products/{id}/image [put]
func (h *CatalogHandler) UploadImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, ok := parseID(w, r, "id")
		if !ok {
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, service.MaxImageBytes+multipartOverhead)

		if err := r.ParseMultipartForm(service.MaxImageBytes); err != nil {
			logger.Warn("Invalid image upload", slog.String("error", err.Error()))
			var tooLarge *http.MaxBytesError
			if stdErrors.As(err, &tooLarge) {
				response.Error(w, imageTooLarge())
				return
			}
			response.Error(w, errors.BadRequestError("Expected a multipart/form-data body"))
			return
		}

		file, _, err := r.FormFile("image")
		if err != nil {
			response.Error(w, errors.BadRequestError("Multipart field \"image\" is required"))
			return
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, service.MaxImageBytes+1))
		if err != nil {
			logger.Error("Failed to read image", slog.String("error", err.Error()))
			response.Error(w, errors.BadRequestError("Failed to read image"))
			return
		}

		if len(data) > service.MaxImageBytes {
			response.Error(w, imageTooLarge())
			return
		}

		product, err := h.catalogService.SetImage(r.Context(), id, data)
		if err != nil {
			logger.Warn("Failed to store image", slog.String("productId", id.Hex()), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Product image stored", slog.String("productId", id.Hex()), slog.Int("bytes", len(data)))
		response.Success(w, http.StatusOK, product)
	}
}

// GetImage godoc
//	@Summary	Raw product image
//	@Tags		Catalog
//	@Produce	image/png
//	@Produce	image/jpeg
//	@Param		id	path	string	true	"Product ID"
//	@Success	200	{file}	binary
//	@Failure	404	{object}	response.ErrorResponse
//	@Router		/products/{id}/image [get]
func (h *CatalogHandler) GetImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, ok := parseID(w, r, "id")
		if !ok {
			return
		}

		data, mime, err := h.catalogService.GetImage(r.Context(), id)
		if err != nil {
			response.Error(w, err)
			return
		}

		w.Header().Set("Content-Type", mime)
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

func imageTooLarge() *errors.AppError {
	return errors.NewAppError(errors.ErrCodeValidation, "Image must be at most 2 MiB", http.StatusRequestEntityTooLarge)
}
