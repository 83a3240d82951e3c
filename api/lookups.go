package api

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"vitrine/models"
)

type lookupEntry struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// All three lookup tables in one response. The filter panel needs them
// together, so they are fetched fan-out/fan-in for latency only.
// (GET /api/lookups)
func (impl *ServerImpl) GetLookups(c *gin.Context) {
	const op = "GetLookups"
	ctx := c.Request.Context()

	var (
		wg            sync.WaitGroup
		brands        []models.Brand
		fuels         []models.FuelType
		transmissions []models.TransmissionType
		errs          [3]error
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		errs[0] = impl.db.WithContext(ctx).Order("name ASC").Find(&brands).Error
	}()
	go func() {
		defer wg.Done()
		errs[1] = impl.db.WithContext(ctx).Order("name ASC").Find(&fuels).Error
	}()
	go func() {
		defer wg.Done()
		errs[2] = impl.db.WithContext(ctx).Order("name ASC").Find(&transmissions).Error
	}()
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			impl.abortInternal(c, op, fmt.Errorf("[%s] Fail to load lookups, err=%w", op, err))
			return
		}
	}

	brandEntries := make([]lookupEntry, len(brands))
	for i, b := range brands {
		brandEntries[i] = lookupEntry{ID: b.ID, Name: b.Name}
	}
	fuelEntries := make([]lookupEntry, len(fuels))
	for i, f := range fuels {
		fuelEntries[i] = lookupEntry{ID: f.ID, Name: f.Name}
	}
	transmissionEntries := make([]lookupEntry, len(transmissions))
	for i, t := range transmissions {
		transmissionEntries[i] = lookupEntry{ID: t.ID, Name: t.Name}
	}

	c.JSON(http.StatusOK, gin.H{
		"brands":            brandEntries,
		"fuelTypes":         fuelEntries,
		"transmissionTypes": transmissionEntries,
	})
}
