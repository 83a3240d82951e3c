package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"vitrine/adapters/media"
	internalS3 "vitrine/adapters/s3"
	"vitrine/models"
)

// maxPhotoBytes caps a single upload at 5MB, both for the file picker and
// drag-and-drop: the server does not know the difference.
const maxPhotoBytes = 5 << 20

var errInsecureImage = errors.New("unsupported image type")

// readPhotoUpload buffers one uploaded file, enforcing the size cap and the
// image MIME whitelist against the sniffed content, not the client header.
func readPhotoUpload(r io.Reader) ([]byte, string, error) {
	body := internalS3.NewMaxSizeReader(r, maxPhotoBytes)
	file, err := io.ReadAll(body)
	if err != nil {
		return nil, "", err
	}
	mimeType := http.DetectContentType(file)
	if secure, _ := internalS3.CheckSecureImageAndGetExtension(mimeType); !secure {
		return nil, mimeType, fmt.Errorf("%w: %s", errInsecureImage, mimeType)
	}
	return file, mimeType, nil
}

type photoFailure struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

// Multi-file upload for one vehicle. Each file is validated, re-encoded and
// stored independently; a failure skips that file and the batch continues.
// The response reports the split instead of a blanket success.
// (POST /api/admin/cars/:id/photos)
func (impl *ServerImpl) UploadPhotos(c *gin.Context) {
	const op = "UploadPhotos"
	vehicleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "vehicle not found"})
		return
	}
	var vehicle models.Vehicle
	result := impl.db.WithContext(c.Request.Context()).First(&vehicle, "id = ?", vehicleID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "vehicle not found"})
			return
		}
		impl.abortInternal(c, op, fmt.Errorf("[%s] Fail to find vehicle, err=%w", op, result.Error))
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "multipart form required"})
		return
	}
	files := form.File["photos"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "no photos supplied"})
		return
	}

	var existing int64
	if result := impl.db.WithContext(c.Request.Context()).Model(&models.VehiclePhoto{}).Where("vehicle_id = ?", vehicleID).Count(&existing); result.Error != nil {
		impl.abortInternal(c, op, fmt.Errorf("[%s] Fail to count photos, err=%w", op, result.Error))
		return
	}

	var (
		uploaded []PhotoView
		failures []photoFailure
	)
	position := int(existing)
	for _, header := range files {
		view, err := impl.storePhoto(c, vehicleID, header, position, existing == 0 && len(uploaded) == 0)
		if err != nil {
			slog.Error("Fail to store photo", slog.String("op", op), slog.String("filename", header.Filename), slog.Any("error", err))
			failures = append(failures, photoFailure{Filename: header.Filename, Reason: err.Error()})
			continue
		}
		uploaded = append(uploaded, *view)
		position++
	}

	status := http.StatusCreated
	if len(uploaded) == 0 {
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{
		"uploaded": uploaded,
		"failed":   failures,
	})
}

func (impl *ServerImpl) storePhoto(c *gin.Context, vehicleID uuid.UUID, header *multipart.FileHeader, position int, primary bool) (*PhotoView, error) {
	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("fail to open upload, err=%w", err)
	}
	defer src.Close()

	file, _, err := readPhotoUpload(src)
	if err != nil {
		return nil, err
	}
	optimized, err := media.Optimize(file)
	if err != nil {
		return nil, err
	}

	key := uuid.New().String()
	url, err := impl.s3Operator.UploadFileToS3(c.Request.Context(), key+".jpeg", media.ContentType, optimized.Full)
	if err != nil {
		return nil, err
	}
	thumbURL, err := impl.s3Operator.UploadFileToS3(c.Request.Context(), key+"_thumb.jpeg", media.ContentType, optimized.Thumb)
	if err != nil {
		return nil, err
	}

	photo := models.VehiclePhoto{
		VehicleID:    vehicleID,
		URL:          url,
		ThumbnailURL: thumbURL,
		IsPrimary:    primary,
		Position:     position,
	}
	if result := impl.db.WithContext(c.Request.Context()).Create(&photo); result.Error != nil {
		return nil, fmt.Errorf("fail to create photo row, err=%w", result.Error)
	}
	return &PhotoView{
		ID:           photo.ID,
		URL:          photo.URL,
		ThumbnailURL: photo.ThumbnailURL,
		IsPrimary:    photo.IsPrimary,
		Position:     photo.Position,
	}, nil
}

// Remove a photo: the row first, then the stored objects. An object delete
// failure after the row is gone only gets logged; the reference no longer
// exists either way.
// (DELETE /api/admin/photos/:id)
func (impl *ServerImpl) DeletePhoto(c *gin.Context) {
	const op = "DeletePhoto"
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "photo not found"})
		return
	}
	var photo models.VehiclePhoto
	result := impl.db.WithContext(c.Request.Context()).First(&photo, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "photo not found"})
			return
		}
		impl.abortInternal(c, op, fmt.Errorf("[%s] Fail to find photo, err=%w", op, result.Error))
		return
	}
	if result := impl.db.WithContext(c.Request.Context()).Delete(&photo); result.Error != nil {
		impl.abortInternal(c, op, fmt.Errorf("[%s] Fail to delete photo row, err=%w", op, result.Error))
		return
	}
	for _, url := range []string{photo.URL, photo.ThumbnailURL} {
		if url == "" {
			continue
		}
		if err := impl.s3Operator.DeleteFileFromS3(c.Request.Context(), url); err != nil {
			slog.Error("Fail to delete photo object", slog.String("op", op), slog.String("url", url), slog.Any("error", err))
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// Mark one photo as primary. The sibling flags are cleared in the same
// transaction, so a vehicle never ends up with two primaries.
// (PUT /api/admin/photos/:id/primary)
func (impl *ServerImpl) SetPrimaryPhoto(c *gin.Context) {
	const op = "SetPrimaryPhoto"
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "photo not found"})
		return
	}
	err = impl.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var photo models.VehiclePhoto
		if result := tx.First(&photo, "id = ?", id); result.Error != nil {
			return result.Error
		}
		if result := tx.Model(&models.VehiclePhoto{}).
			Where("vehicle_id = ? AND id <> ?", photo.VehicleID, photo.ID).
			Update("is_primary", false); result.Error != nil {
			return result.Error
		}
		if result := tx.Model(&photo).Update("is_primary", true); result.Error != nil {
			return result.Error
		}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "photo not found"})
		return
	}
	if err != nil {
		impl.abortInternal(c, op, fmt.Errorf("[%s] Fail to set primary photo, err=%w", op, err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "primary updated"})
}
