package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jo-hoe/imagehost/internal/backend/cache"
	"github.com/jo-hoe/imagehost/internal/backend/database"
	"github.com/jo-hoe/imagehost/internal/backend/storage"

	// Register decoders so uploads can be verified to contain actual
	// image data, not just a well-named file.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// ErrImageNotFound is returned when an operation references an ID that has
// no record.
var ErrImageNotFound = errors.New("image not found")

// ValidationError rejects an upload before any side effect happens. Its
// message is safe to show to the client.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ImagePage is one listing window plus the pagination metadata the
// frontend needs to drive its Previous/Next controls.
type ImagePage struct {
	Images      []*database.ImageRecord
	CurrentPage int
	TotalPages  int
	HasPrev     bool
	HasNext     bool
}

type CoreService struct {
	config          *ServiceConfig
	databaseService database.DatabaseService
	storageService  *storage.LocalStorage
	countCache      cache.CountCache
}

func NewCoreService(config *ServiceConfig) (*CoreService, error) {
	databaseService, err := database.NewDatabase(config.Database.Type, config.Database.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	slog.Info("database initialized successfully", "type", config.Database.Type)

	storageService, err := storage.NewLocalStorage(config.Storage.Directory)
	if err != nil {
		_ = databaseService.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	var countCache cache.CountCache = cache.NoopCountCache{}
	if config.Cache.RedisAddress != "" {
		countCache, err = cache.NewRedisCountCache(
			config.Cache.RedisAddress, config.Cache.RedisPassword, config.Cache.RedisDB, config.CacheTTL())
		if err != nil {
			_ = databaseService.Close()
			return nil, fmt.Errorf("failed to initialize count cache: %w", err)
		}
		slog.Info("count cache initialized", "address", config.Cache.RedisAddress)
	}

	return &CoreService{
		config:          config,
		databaseService: databaseService,
		storageService:  storageService,
		countCache:      countCache,
	}, nil
}

func (service *CoreService) Close() error {
	cacheErr := service.countCache.Close()
	dbErr := service.databaseService.Close()
	if dbErr != nil {
		return dbErr
	}
	return cacheErr
}

// AddImage validates an upload and persists it: file bytes first, record
// second. A failed insert removes the already written file again so no
// unreferenced file stays behind.
func (service *CoreService) AddImage(ctx context.Context, originalName string, data []byte) (*database.ImageRecord, error) {
	if originalName == "" || len(data) == 0 {
		return nil, &ValidationError{Message: "no file found in the request"}
	}

	extension := strings.ToLower(filepath.Ext(originalName))
	if !service.isAllowedExtension(extension) {
		return nil, &ValidationError{Message: fmt.Sprintf(
			"unsupported file type, allowed: %s", strings.Join(service.config.Upload.AllowedExtensions, ", "))}
	}

	if int64(len(data)) > service.config.Upload.MaxFileSizeBytes {
		return nil, &ValidationError{Message: fmt.Sprintf(
			"file exceeds the maximum size of %s", humanize.IBytes(uint64(service.config.Upload.MaxFileSizeBytes)))}
	}

	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return nil, &ValidationError{Message: "file content is not a valid image"}
	}

	filename, err := service.storageService.SaveImage(data, extension)
	if err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	record := &database.ImageRecord{
		Filename:     filename,
		OriginalName: originalName,
		Size:         int64(len(data)),
		FileType:     extension,
	}
	if _, err := service.databaseService.InsertImage(record); err != nil {
		// Compensating cleanup: the file exists but no record references it.
		if removeErr := service.storageService.DeleteImage(filename); removeErr != nil {
			slog.Error("failed to remove orphaned file after insert failure",
				"filename", filename, "error", removeErr)
		}
		return nil, fmt.Errorf("failed to record image: %w", err)
	}
	service.countCache.Invalidate(ctx)

	slog.Info("image uploaded", "filename", filename, "original_name", originalName, "size", record.Size)
	return record, nil
}

// ListImages returns the requested page, newest first. Out-of-range pages
// are clamped into [1, TotalPages]. An empty store yields TotalPages 0 and
// CurrentPage 1.
func (service *CoreService) ListImages(ctx context.Context, page int) (*ImagePage, error) {
	count, err := service.imageCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count images: %w", err)
	}

	pageSize := service.config.Listing.PageSize
	totalPages := int((count + int64(pageSize) - 1) / int64(pageSize))

	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}

	result := &ImagePage{
		CurrentPage: page,
		TotalPages:  totalPages,
		HasPrev:     page > 1,
		HasNext:     page < totalPages,
	}
	if count == 0 {
		return result, nil
	}

	images, err := service.databaseService.ListImages(pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	result.Images = images
	return result, nil
}

// DeleteImage removes the backing file and the record. A file that is
// already gone is logged as an inconsistency and tolerated; any other file
// removal failure aborts before the record is touched so the (file, row)
// pair stays intact.
func (service *CoreService) DeleteImage(ctx context.Context, id int64) error {
	record, err := service.databaseService.GetImageByID(id)
	if err != nil {
		return fmt.Errorf("failed to look up image %d: %w", id, err)
	}
	if record == nil {
		return ErrImageNotFound
	}

	if err := service.storageService.DeleteImage(record.Filename); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Warn("record had no backing file, removing record anyway",
				"id", id, "filename", record.Filename)
		} else {
			return fmt.Errorf("failed to delete file %s: %w", record.Filename, err)
		}
	}

	if err := service.databaseService.DeleteImage(id); err != nil {
		return fmt.Errorf("failed to delete record %d: %w", id, err)
	}
	service.countCache.Invalidate(ctx)

	slog.Info("image deleted", "id", id, "filename", record.Filename)
	return nil
}

// ImageFilePath resolves a storage key to the on-disk path, returning
// os.ErrNotExist when no such file is present.
func (service *CoreService) ImageFilePath(filename string) (string, error) {
	path, err := service.storageService.Path(filename)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err != nil {
		return "", err
	}
	return path, nil
}

func (service *CoreService) isAllowedExtension(extension string) bool {
	for _, allowed := range service.config.Upload.AllowedExtensions {
		if strings.EqualFold(allowed, extension) {
			return true
		}
	}
	return false
}

func (service *CoreService) imageCount(ctx context.Context) (int64, error) {
	if count, ok := service.countCache.GetCount(ctx); ok {
		return count, nil
	}
	count, err := service.databaseService.CountImages()
	if err != nil {
		return 0, err
	}
	service.countCache.SetCount(ctx, count)
	return count, nil
}
