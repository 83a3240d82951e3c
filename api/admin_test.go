package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitrine/models"
)

func TestAdminRoutesRequireAuth(t *testing.T) {
	impl := newTestServer(t)
	router := newTestRouter(impl)

	t.Run("no cookie", func(t *testing.T) {
		w := performRequest(router, httptest.NewRequest(http.MethodPost, "/api/admin/brands", jsonBody(t, map[string]string{"name": "Peugeot"})))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
	t.Run("garbage cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/brands", jsonBody(t, map[string]string{"name": "Peugeot"}))
		req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "not-a-token"})
		w := performRequest(router, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
	t.Run("valid token but not whitelisted", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/brands", jsonBody(t, map[string]string{"name": "Peugeot"}))
		req.AddCookie(tokenCookie(t, impl, "stranger"))
		w := performRequest(router, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestCreateCar(t *testing.T) {
	impl := newTestServer(t)
	router := newTestRouter(impl)
	cookie := adminCookie(t, impl, "admin")

	brand := seedBrand(t, impl.db, "Peugeot")

	t.Run("creates the listing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/cars", jsonBody(t, map[string]any{
			"year":       2021,
			"brandId":    brand.ID.String(),
			"modelName":  "3008",
			"dailyPrice": 25000,
		}))
		req.AddCookie(cookie)
		w := performRequest(router, req)
		require.Equal(t, http.StatusCreated, w.Code)
		assert.NotEmpty(t, w.Header().Get("Location"))

		var vehicle models.Vehicle
		require.NoError(t, impl.db.First(&vehicle, "model_name = ?", "3008").Error)
		require.NotNil(t, vehicle.BrandID)
		assert.Equal(t, brand.ID, *vehicle.BrandID)
		assert.Equal(t, int64(25000), vehicle.DailyPrice)
	})

	t.Run("legacy numeric reference is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/cars", jsonBody(t, map[string]any{
			"year":      2021,
			"brandId":   42,
			"modelName": "Clio",
		}))
		req.AddCookie(cookie)
		w := performRequest(router, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("year out of range is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/cars", jsonBody(t, map[string]any{
			"year":      1900,
			"modelName": "Type A",
		}))
		req.AddCookie(cookie)
		w := performRequest(router, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("description markup is sanitized", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/cars", jsonBody(t, map[string]any{
			"year":        2020,
			"modelName":   "208",
			"description": `bien entretenue<script>alert(1)</script>`,
		}))
		req.AddCookie(cookie)
		w := performRequest(router, req)
		require.Equal(t, http.StatusCreated, w.Code)

		var vehicle models.Vehicle
		require.NoError(t, impl.db.First(&vehicle, "model_name = ?", "208").Error)
		assert.Equal(t, "bien entretenue", vehicle.Description)
	})
}

func TestUpdateCarIdempotent(t *testing.T) {
	impl := newTestServer(t)
	router := newTestRouter(impl)
	cookie := adminCookie(t, impl, "admin")

	vehicle := seedVehicle(t, impl.db, models.Vehicle{Year: 2018, ModelName: "Clio", DailyPrice: 9000})
	payload := map[string]any{
		"year":       2018,
		"modelName":  "Clio IV",
		"dailyPrice": 9500,
	}

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPut, "/api/admin/cars/"+vehicle.ID.String(), jsonBody(t, payload))
		req.AddCookie(cookie)
		w := performRequest(router, req)
		require.Equal(t, http.StatusOK, w.Code)
	}

	var count int64
	require.NoError(t, impl.db.Model(&models.Vehicle{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var updated models.Vehicle
	require.NoError(t, impl.db.First(&updated, "id = ?", vehicle.ID).Error)
	assert.Equal(t, "Clio IV", updated.ModelName)
	assert.Equal(t, int64(9500), updated.DailyPrice)
}

func TestReorderCars(t *testing.T) {
	impl := newTestServer(t)
	router := newTestRouter(impl)
	cookie := adminCookie(t, impl, "admin")

	first := seedVehicle(t, impl.db, models.Vehicle{Year: 2018, ModelName: "a", DisplayOrder: 1})
	second := seedVehicle(t, impl.db, models.Vehicle{Year: 2019, ModelName: "b", DisplayOrder: 2})

	t.Run("applies the whole new order", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/api/admin/cars/order", jsonBody(t, []map[string]any{
			{"id": first.ID, "displayOrder": 2},
			{"id": second.ID, "displayOrder": 1},
		}))
		req.AddCookie(cookie)
		w := performRequest(router, req)
		require.Equal(t, http.StatusOK, w.Code)

		var reordered models.Vehicle
		require.NoError(t, impl.db.First(&reordered, "id = ?", first.ID).Error)
		assert.Equal(t, 2, reordered.DisplayOrder)
	})

	t.Run("an unknown id rolls everything back", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/api/admin/cars/order", jsonBody(t, []map[string]any{
			{"id": first.ID, "displayOrder": 99},
			{"id": uuid.New(), "displayOrder": 1},
		}))
		req.AddCookie(cookie)
		w := performRequest(router, req)
		require.Equal(t, http.StatusBadRequest, w.Code)

		var untouched models.Vehicle
		require.NoError(t, impl.db.First(&untouched, "id = ?", first.ID).Error)
		assert.Equal(t, 2, untouched.DisplayOrder)
	})
}

func TestDeleteCar(t *testing.T) {
	impl := newTestServer(t)
	router := newTestRouter(impl)
	cookie := adminCookie(t, impl, "admin")

	vehicle := seedVehicle(t, impl.db, models.Vehicle{Year: 2018, ModelName: "Clio"})
	seedPhoto(t, impl.db, models.VehiclePhoto{VehicleID: vehicle.ID, Position: 0})
	seedPhoto(t, impl.db, models.VehiclePhoto{VehicleID: vehicle.ID, Position: 1})

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/cars/"+vehicle.ID.String(), nil)
	req.AddCookie(cookie)
	w := performRequest(router, req)
	require.Equal(t, http.StatusOK, w.Code)

	var vehicles, photos int64
	require.NoError(t, impl.db.Model(&models.Vehicle{}).Count(&vehicles).Error)
	require.NoError(t, impl.db.Model(&models.VehiclePhoto{}).Where("vehicle_id = ?", vehicle.ID).Count(&photos).Error)
	assert.Zero(t, vehicles)
	assert.Zero(t, photos)

	t.Run("deleting again is a 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/admin/cars/"+vehicle.ID.String(), nil)
		req.AddCookie(cookie)
		w := performRequest(router, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCreateLookups(t *testing.T) {
	impl := newTestServer(t)
	router := newTestRouter(impl)
	cookie := adminCookie(t, impl, "admin")

	testCases := []struct {
		name string
		path string
	}{
		{"brand", "/api/admin/brands"},
		{"fuel type", "/api/admin/fuel-types"},
		{"transmission type", "/api/admin/transmission-types"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tc.path, jsonBody(t, map[string]string{"name": "Unique " + tc.name}))
			req.AddCookie(cookie)
			w := performRequest(router, req)
			assert.Equal(t, http.StatusCreated, w.Code)

			// the same name a second time conflicts instead of duplicating
			req = httptest.NewRequest(http.MethodPost, tc.path, jsonBody(t, map[string]string{"name": "Unique " + tc.name}))
			req.AddCookie(cookie)
			w = performRequest(router, req)
			assert.Equal(t, http.StatusConflict, w.Code)
		})
	}

	t.Run("missing name is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/brands", jsonBody(t, map[string]string{}))
		req.AddCookie(cookie)
		w := performRequest(router, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
