package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/gorm"

	"vitrine/models"
)

type vehicleRequest struct {
	Year               int              `json:"year" binding:"required,gte=1950,lte=2100"`
	BrandID            models.LookupRef `json:"brandId"`
	ModelName          string           `json:"modelName" binding:"required"`
	FuelTypeID         models.LookupRef `json:"fuelTypeId"`
	TransmissionTypeID models.LookupRef `json:"transmissionTypeId"`
	DailyPrice         *int64           `json:"dailyPrice" binding:"omitempty,gte=0"`
	Mileage            *int64           `json:"mileage" binding:"omitempty,gte=0"`
	Description        *string          `json:"description"`
	DisplayOrder       *int             `json:"displayOrder"`
}

// lookupID converts a normalized reference into a storable id. Only
// canonical references are writable: legacy representations are accepted on
// read forever, but never persisted again.
func lookupID(ref models.LookupRef) (*uuid.UUID, bool) {
	if ref.IsZero() {
		return nil, true
	}
	if id, ok := ref.UUID(); ok {
		return &id, true
	}
	return nil, false
}

func (impl *ServerImpl) applyVehicleRequest(v *models.Vehicle, req vehicleRequest) error {
	brandID, ok := lookupID(req.BrandID)
	if !ok {
		return fmt.Errorf("invalid brand reference %q", req.BrandID.Raw())
	}
	fuelID, ok := lookupID(req.FuelTypeID)
	if !ok {
		return fmt.Errorf("invalid fuel type reference %q", req.FuelTypeID.Raw())
	}
	transmissionID, ok := lookupID(req.TransmissionTypeID)
	if !ok {
		return fmt.Errorf("invalid transmission reference %q", req.TransmissionTypeID.Raw())
	}

	if req.Description == nil {
		req.Description = lo.ToPtr("")
	}
	if req.DailyPrice == nil {
		req.DailyPrice = lo.ToPtr(int64(0))
	}

	v.Year = req.Year
	v.BrandID = brandID
	v.ModelName = req.ModelName
	v.FuelTypeID = fuelID
	v.TransmissionTypeID = transmissionID
	v.DailyPrice = *req.DailyPrice
	v.Mileage = req.Mileage
	v.Description = impl.htmlChecker.Sanitize(*req.Description)
	if req.DisplayOrder != nil {
		v.DisplayOrder = *req.DisplayOrder
	}
	return nil
}

// Add a listing.
// (POST /api/admin/cars)
func (impl *ServerImpl) CreateCar(c *gin.Context) {
	const op = "CreateCar"
	var req vehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	var vehicle models.Vehicle
	if err := impl.applyVehicleRequest(&vehicle, req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if result := impl.db.WithContext(c.Request.Context()).Create(&vehicle); result.Error != nil {
		impl.abortInternal(c, op, fmt.Errorf("[%s] Fail to create vehicle, err=%w", op, result.Error))
		return
	}
	c.Header("Location", "/api/cars/"+vehicle.ID.String())
	c.JSON(http.StatusCreated, gin.H{"id": vehicle.ID})
}

// Edit a listing. Submitting unchanged values is a no-op on the data.
// (PUT /api/admin/cars/:id)
func (impl *ServerImpl) UpdateCar(c *gin.Context) {
	const op = "UpdateCar"
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "vehicle not found"})
		return
	}
	var req vehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	var vehicle models.Vehicle
	result := impl.db.WithContext(c.Request.Context()).First(&vehicle, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "vehicle not found"})
			return
		}
		impl.abortInternal(c, op, fmt.Errorf("[%s] Fail to find vehicle, err=%w", op, result.Error))
		return
	}
	if err := impl.applyVehicleRequest(&vehicle, req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if result := impl.db.WithContext(c.Request.Context()).Save(&vehicle); result.Error != nil {
		impl.abortInternal(c, op, fmt.Errorf("[%s] Fail to update vehicle, err=%w", op, result.Error))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "updated"})
}

// Remove a listing with its photo rows, then its stored objects. Object
// deletions are best-effort: a storage failure is logged and counted, the
// listing is gone either way.
// (DELETE /api/admin/cars/:id)
func (impl *ServerImpl) DeleteCar(c *gin.Context) {
	const op = "DeleteCar"
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "vehicle not found"})
		return
	}
	var photos []models.VehiclePhoto
	if result := impl.db.WithContext(c.Request.Context()).Where("vehicle_id = ?", id).Find(&photos); result.Error != nil {
		impl.abortInternal(c, op, fmt.Errorf("[%s] Fail to load photos, err=%w", op, result.Error))
		return
	}

	err = impl.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if result := tx.Where("vehicle_id = ?", id).Delete(&models.VehiclePhoto{}); result.Error != nil {
			return result.Error
		}
		result := tx.Delete(&models.Vehicle{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "vehicle not found"})
		return
	}
	if err != nil {
		impl.abortInternal(c, op, fmt.Errorf("[%s] Fail to delete vehicle, err=%w", op, err))
		return
	}

	failedObjects := 0
	for _, photo := range photos {
		for _, url := range []string{photo.URL, photo.ThumbnailURL} {
			if url == "" {
				continue
			}
			if err := impl.s3Operator.DeleteFileFromS3(c.Request.Context(), url); err != nil {
				failedObjects++
				slog.Error("Fail to delete photo object", slog.String("op", op), slog.String("url", url), slog.Any("error", err))
			}
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"deletedPhotos": len(photos),
		"failedObjects": failedObjects,
	})
}

type reorderEntry struct {
	ID           uuid.UUID `json:"id" binding:"required"`
	DisplayOrder int       `json:"displayOrder"`
}

// Persist the featured ordering in one transaction: either the whole new
// order applies or none of it does.
// (PUT /api/admin/cars/order)
func (impl *ServerImpl) ReorderCars(c *gin.Context) {
	const op = "ReorderCars"
	var entries []reorderEntry
	if err := c.ShouldBindJSON(&entries); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if len(entries) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "empty order"})
		return
	}

	err := impl.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		for _, entry := range entries {
			result := tx.Model(&models.Vehicle{}).Where("id = ?", entry.ID).Update("display_order", entry.DisplayOrder)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("unknown vehicle %s: %w", entry.ID, gorm.ErrRecordNotFound)
			}
		}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "order references an unknown vehicle"})
		return
	}
	if err != nil {
		impl.abortInternal(c, op, fmt.Errorf("[%s] Fail to reorder vehicles, err=%w", op, err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "reordered"})
}

type lookupRequest struct {
	Name string `json:"name" binding:"required"`
}

func (impl *ServerImpl) createLookup(c *gin.Context, op string, record any) {
	result := impl.db.WithContext(c.Request.Context()).Create(record)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"message": "name already exists"})
			return
		}
		impl.abortInternal(c, op, fmt.Errorf("[%s] Fail to create lookup, err=%w", op, result.Error))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "created"})
}

// (POST /api/admin/brands)
func (impl *ServerImpl) CreateBrand(c *gin.Context) {
	const op = "CreateBrand"
	var req lookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	impl.createLookup(c, op, &models.Brand{Name: req.Name})
}

// (POST /api/admin/fuel-types)
func (impl *ServerImpl) CreateFuelType(c *gin.Context) {
	const op = "CreateFuelType"
	var req lookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	impl.createLookup(c, op, &models.FuelType{Name: req.Name})
}

// (POST /api/admin/transmission-types)
func (impl *ServerImpl) CreateTransmissionType(c *gin.Context) {
	const op = "CreateTransmissionType"
	var req lookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	impl.createLookup(c, op, &models.TransmissionType{Name: req.Name})
}
