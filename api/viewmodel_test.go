package api

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"

	"vitrine/models"
)

func TestFormatPrice(t *testing.T) {
	testCases := []struct {
		name     string
		amount   int64
		expected string
	}{
		{"zero means on request", 0, "Prix sur demande"},
		{"negative degrades to on request", -50, "Prix sur demande"},
		{"no grouping under a thousand", 999, "999 €"},
		{"single group", 15000, "15 000 €"},
		{"two groups", 1234567, "1 234 567 €"},
		{"exact thousand", 1000, "1 000 €"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, FormatPrice(tc.amount))
		})
	}
}

func TestFormatMileage(t *testing.T) {
	testCases := []struct {
		name     string
		km       *int64
		expected string
	}{
		{"missing mileage", nil, "Non spécifié"},
		{"small value", lo.ToPtr(int64(500)), "500 km"},
		{"grouped value", lo.ToPtr(int64(144000)), "144 000 km"},
		{"zero is still a mileage", lo.ToPtr(int64(0)), "0 km"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, FormatMileage(tc.km))
		})
	}
}

func TestPrimaryPhoto(t *testing.T) {
	primary := models.VehiclePhoto{URL: "primary", IsPrimary: true, Position: 5}
	second := models.VehiclePhoto{URL: "second", Position: 1}
	third := models.VehiclePhoto{URL: "third", Position: 0}

	t.Run("primary flag wins over position", func(t *testing.T) {
		got := primaryPhoto([]models.VehiclePhoto{second, primary, third})
		assert.Equal(t, "primary", got.URL)
	})
	t.Run("lowest position without a primary", func(t *testing.T) {
		got := primaryPhoto([]models.VehiclePhoto{second, third})
		assert.Equal(t, "third", got.URL)
	})
	t.Run("no photos", func(t *testing.T) {
		assert.Nil(t, primaryPhoto(nil))
	})
}

func TestNewCarCard(t *testing.T) {
	t.Run("without photo the card asks for a placeholder", func(t *testing.T) {
		card := newCarCard(models.Vehicle{Year: 2020, ModelName: "208"})
		assert.False(t, card.HasPhoto)
		assert.Empty(t, card.PhotoURL)
		assert.Equal(t, models.Defaulted, card.Brand.State)
		assert.Equal(t, "Marque inconnue", card.Brand.Name)
	})
	t.Run("with photos the primary one is shown", func(t *testing.T) {
		card := newCarCard(models.Vehicle{
			Year:      2020,
			ModelName: "208",
			Photos: []models.VehiclePhoto{
				{URL: "a", ThumbnailURL: "a_thumb", Position: 0},
				{URL: "b", ThumbnailURL: "b_thumb", Position: 1, IsPrimary: true},
			},
		})
		assert.True(t, card.HasPhoto)
		assert.Equal(t, "b", card.PhotoURL)
		assert.Equal(t, "b_thumb", card.ThumbnailURL)
	})
}
