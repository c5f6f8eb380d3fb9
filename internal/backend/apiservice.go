package backend

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"github.com/jo-hoe/imagehost/internal/core"
	"github.com/labstack/echo/v4"
)

// publicImagePath is the URL prefix under which stored files are served.
const publicImagePath = "/images/"

type APIService struct {
	config      *core.ServiceConfig
	coreService *core.CoreService
}

func NewAPIService(config *core.ServiceConfig, coreService *core.CoreService) *APIService {
	return &APIService{
		config:      config,
		coreService: coreService,
	}
}

func (service *APIService) SetRoutes(e *echo.Echo) {
	e.GET("/probe", service.probeHandler)
	e.POST("/upload", service.uploadImageHandler)
	e.GET("/images-list", service.listImagesHandler)
	e.GET(publicImagePath+":filename", service.getImageHandler)
	e.DELETE("/delete/:id", service.deleteImageHandler)
}

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type uploadResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

type imageResponse struct {
	ID           int64  `json:"id"`
	OriginalName string `json:"original_name"`
	Filename     string `json:"filename"`
	Size         int64  `json:"size"`
	FileType     string `json:"file_type"`
	UploadedAt   string `json:"uploaded_at"`
}

type paginationResponse struct {
	CurrentPage int  `json:"current_page"`
	TotalPages  int  `json:"total_pages"`
	HasPrev     bool `json:"has_prev"`
	HasNext     bool `json:"has_next"`
}

type listImagesResponse struct {
	Status     string             `json:"status"`
	Images     []imageResponse    `json:"images"`
	Pagination paginationResponse `json:"pagination"`
}

type listImagesRequest struct {
	Page int `query:"page" validate:"gte=1"`
}

func (service *APIService) probeHandler(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "ok")
}

func (service *APIService) uploadImageHandler(ctx echo.Context) error {
	file, err := ctx.FormFile("file")
	if err != nil {
		slog.Warn("uploadImageHandler: no file in request",
			"status", http.StatusBadRequest, "error", err)
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Status: "error", Message: "no file found in the request"})
	}

	src, err := file.Open()
	if err != nil {
		slog.Error("uploadImageHandler: failed to open uploaded file",
			"status", http.StatusInternalServerError, "error", err, "filename", file.Filename)
		return ctx.JSON(http.StatusInternalServerError, errorResponse{
			Status: "error", Message: "failed to read the uploaded file"})
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			slog.Error("uploadImageHandler: failed to close uploaded file reader", "error", cerr, "filename", file.Filename)
		}
	}()

	data, err := io.ReadAll(src)
	if err != nil {
		slog.Error("uploadImageHandler: failed to read uploaded file",
			"status", http.StatusInternalServerError, "error", err, "filename", file.Filename)
		return ctx.JSON(http.StatusInternalServerError, errorResponse{
			Status: "error", Message: "failed to read the uploaded file"})
	}

	record, err := service.coreService.AddImage(ctx.Request().Context(), file.Filename, data)
	if err != nil {
		var validationErr *core.ValidationError
		if errors.As(err, &validationErr) {
			slog.Warn("uploadImageHandler: upload rejected",
				"status", http.StatusBadRequest, "filename", file.Filename, "reason", validationErr.Message)
			return ctx.JSON(http.StatusBadRequest, errorResponse{
				Status: "error", Message: validationErr.Message})
		}
		slog.Error("uploadImageHandler: failed to store upload",
			"status", http.StatusInternalServerError, "error", err, "filename", file.Filename)
		return ctx.JSON(http.StatusInternalServerError, errorResponse{
			Status: "error", Message: "failed to save the uploaded file"})
	}

	return ctx.JSON(http.StatusOK, uploadResponse{
		Status:   "success",
		Message:  "file uploaded",
		Filename: record.Filename,
		URL:      publicImagePath + record.Filename,
	})
}

func (service *APIService) listImagesHandler(ctx echo.Context) error {
	request := &listImagesRequest{Page: 1}
	if err := ctx.Bind(request); err != nil {
		slog.Warn("listImagesHandler: invalid page parameter",
			"status", http.StatusBadRequest, "error", err)
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Status: "error", Message: "page must be a positive integer"})
	}
	if err := ctx.Validate(request); err != nil {
		slog.Warn("listImagesHandler: invalid page parameter",
			"status", http.StatusBadRequest, "page", request.Page)
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Status: "error", Message: "page must be a positive integer"})
	}

	page, err := service.coreService.ListImages(ctx.Request().Context(), request.Page)
	if err != nil {
		slog.Error("listImagesHandler: failed to list images",
			"status", http.StatusInternalServerError, "error", err)
		return ctx.JSON(http.StatusInternalServerError, errorResponse{
			Status: "error", Message: "failed to list images"})
	}

	images := make([]imageResponse, 0, len(page.Images))
	for _, record := range page.Images {
		images = append(images, imageResponse{
			ID:           record.ID,
			OriginalName: record.OriginalName,
			Filename:     record.Filename,
			Size:         record.Size,
			FileType:     record.FileType,
			UploadedAt:   record.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	return ctx.JSON(http.StatusOK, listImagesResponse{
		Status: "success",
		Images: images,
		Pagination: paginationResponse{
			CurrentPage: page.CurrentPage,
			TotalPages:  page.TotalPages,
			HasPrev:     page.HasPrev,
			HasNext:     page.HasNext,
		},
	})
}

func (service *APIService) getImageHandler(ctx echo.Context) error {
	filename := ctx.Param("filename")

	path, err := service.coreService.ImageFilePath(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Warn("getImageHandler: image not available",
				"status", http.StatusNotFound, "filename", filename)
		} else {
			slog.Warn("getImageHandler: invalid storage key",
				"status", http.StatusNotFound, "filename", filename, "error", err)
		}
		return ctx.JSON(http.StatusNotFound, errorResponse{
			Status: "error", Message: "image not found"})
	}

	// Content type is derived from the file extension by the file server.
	return ctx.File(path)
}

func (service *APIService) deleteImageHandler(ctx echo.Context) error {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		slog.Warn("deleteImageHandler: invalid image id",
			"status", http.StatusBadRequest, "id", ctx.Param("id"))
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Status: "error", Message: "invalid image id"})
	}

	if err := service.coreService.DeleteImage(ctx.Request().Context(), id); err != nil {
		if errors.Is(err, core.ErrImageNotFound) {
			slog.Warn("deleteImageHandler: image not found",
				"status", http.StatusNotFound, "id", id)
			return ctx.JSON(http.StatusNotFound, errorResponse{
				Status: "error", Message: "image not found"})
		}
		slog.Error("deleteImageHandler: failed to delete image",
			"status", http.StatusInternalServerError, "id", id, "error", err)
		return ctx.JSON(http.StatusInternalServerError, errorResponse{
			Status: "error", Message: "failed to delete image"})
	}

	return ctx.JSON(http.StatusOK, map[string]string{"status": "success"})
}
