package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"vitrine/models"
)

// lookupFilterID normalizes a filter value the same way stored references
// are normalized. A non-canonical legacy value (numeric id, typo) resolves
// to uuid.Nil, which matches no row: a supplied constraint is never
// silently widened.
func lookupFilterID(raw string) uuid.UUID {
	if id, ok := models.ParseLookupRef(raw).UUID(); ok {
		return id
	}
	return uuid.Nil
}

// Catalog list with optional filters. Every present parameter adds exactly
// one predicate; an absent parameter adds none.
// (GET /api/cars)
func (impl *ServerImpl) ListCars(c *gin.Context) {
	const op = "ListCars"
	query := impl.db.WithContext(c.Request.Context()).
		Model(&models.Vehicle{}).
		Preload("Brand").
		Preload("Photos", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_primary DESC, position ASC")
		})
	//  - brand
	if raw := c.Query("brand"); raw != "" {
		query = query.Where("brand_id = ?", lookupFilterID(raw))
	}
	//  - fuel
	if raw := c.Query("fuel"); raw != "" {
		query = query.Where("fuel_type_id = ?", lookupFilterID(raw))
	}
	//  - transmission
	if raw := c.Query("transmission"); raw != "" {
		query = query.Where("transmission_type_id = ?", lookupFilterID(raw))
	}
	//  - year range
	if raw := c.Query("year_from"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid year_from"})
			return
		}
		query = query.Where("year >= ?", year)
	}
	if raw := c.Query("year_to"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid year_to"})
			return
		}
		query = query.Where("year <= ?", year)
	}
	//  - featured order first, newest afterwards
	query = query.Order("display_order ASC, created_at DESC")

	var vehicles []models.Vehicle
	if result := query.Find(&vehicles); result.Error != nil {
		impl.abortInternal(c, op, fmt.Errorf("[%s] Fail to list vehicles, err=%w", op, result.Error))
		return
	}
	cards := make([]CarCard, len(vehicles))
	for i, v := range vehicles {
		cards[i] = newCarCard(v)
	}
	c.JSON(http.StatusOK, gin.H{
		"count": len(cards),
		"items": cards,
	})
}

// Vehicle detail with resolved lookup names and the full photo set.
// (GET /api/cars/:id)
func (impl *ServerImpl) GetCar(c *gin.Context) {
	const op = "GetCar"
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "vehicle not found"})
		return
	}
	var vehicle models.Vehicle
	result := impl.db.WithContext(c.Request.Context()).
		Preload("Brand").
		Preload("FuelType").
		Preload("TransmissionType").
		Preload("Photos", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_primary DESC, position ASC")
		}).
		First(&vehicle, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "vehicle not found"})
			return
		}
		impl.abortInternal(c, op, fmt.Errorf("[%s] Fail to find vehicle, err=%w", op, result.Error))
		return
	}
	c.JSON(http.StatusOK, newCarDetail(vehicle))
}
