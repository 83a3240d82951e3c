package api

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"vitrine/models"
)

// Display fallbacks, decided once here instead of per component.
const (
	PriceOnRequest          = "Prix sur demande"
	MileageUnknown          = "Non spécifié"
	DefaultBrandName        = "Marque inconnue"
	DefaultFuelName         = "Carburant non renseigné"
	DefaultTransmissionName = "Transmission non renseignée"
)

// FormatPrice renders a daily price in French notation with no decimals,
// e.g. 15000 -> "15 000 €". Zero means the price is given on request.
func FormatPrice(amount int64) string {
	if amount <= 0 {
		return PriceOnRequest
	}
	return groupThousands(amount) + " €"
}

// FormatMileage renders a mileage, e.g. 144000 -> "144 000 km".
func FormatMileage(km *int64) string {
	if km == nil {
		return MileageUnknown
	}
	return groupThousands(*km) + " km"
}

func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + len(s)/3)
	rem := len(s) % 3
	if rem == 0 {
		rem = 3
	}
	b.WriteString(s[:rem])
	for i := rem; i < len(s); i += 3 {
		b.WriteByte(' ')
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// CarCard is the catalog-list view model.
type CarCard struct {
	ID           uuid.UUID         `json:"id"`
	Year         int               `json:"year"`
	Brand        models.Resolution `json:"brand"`
	ModelName    string            `json:"modelName"`
	Price        string            `json:"price"`
	Mileage      string            `json:"mileage"`
	PhotoURL     string            `json:"photoUrl,omitempty"`
	ThumbnailURL string            `json:"thumbnailUrl,omitempty"`
	// HasPhoto false tells the client to render its placeholder image.
	HasPhoto     bool `json:"hasPhoto"`
	DisplayOrder int  `json:"displayOrder"`
}

// PhotoView is one photo of the detail view, primary first.
type PhotoView struct {
	ID           uuid.UUID `json:"id"`
	URL          string    `json:"url"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	IsPrimary    bool      `json:"isPrimary"`
	Position     int       `json:"position"`
}

// CarDetail is the vehicle-detail view model. Lookup names arrive as tagged
// resolutions so the client never re-parses raw ids.
type CarDetail struct {
	ID           uuid.UUID         `json:"id"`
	Year         int               `json:"year"`
	Brand        models.Resolution `json:"brand"`
	ModelName    string            `json:"modelName"`
	FuelType     models.Resolution `json:"fuelType"`
	Transmission models.Resolution `json:"transmission"`
	DailyPrice   int64             `json:"dailyPrice"`
	Price        string            `json:"price"`
	Mileage      string            `json:"mileage"`
	Description  string            `json:"description"`
	DisplayOrder int               `json:"displayOrder"`
	Photos       []PhotoView       `json:"photos"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

// primaryPhoto picks the photo shown on a card: the primary one, else the
// first by position, else none.
func primaryPhoto(photos []models.VehiclePhoto) *models.VehiclePhoto {
	var first *models.VehiclePhoto
	for i := range photos {
		if photos[i].IsPrimary {
			return &photos[i]
		}
		if first == nil || photos[i].Position < first.Position {
			first = &photos[i]
		}
	}
	return first
}

func newCarCard(v models.Vehicle) CarCard {
	card := CarCard{
		ID:           v.ID,
		Year:         v.Year,
		Brand:        v.ResolveBrand(DefaultBrandName),
		ModelName:    v.ModelName,
		Price:        FormatPrice(v.DailyPrice),
		Mileage:      FormatMileage(v.Mileage),
		DisplayOrder: v.DisplayOrder,
	}
	if photo := primaryPhoto(v.Photos); photo != nil {
		card.PhotoURL = photo.URL
		card.ThumbnailURL = photo.ThumbnailURL
		card.HasPhoto = true
	}
	return card
}

func newCarDetail(v models.Vehicle) CarDetail {
	photos := make([]PhotoView, 0, len(v.Photos))
	for _, p := range v.Photos {
		photos = append(photos, PhotoView{
			ID:           p.ID,
			URL:          p.URL,
			ThumbnailURL: p.ThumbnailURL,
			IsPrimary:    p.IsPrimary,
			Position:     p.Position,
		})
	}
	return CarDetail{
		ID:           v.ID,
		Year:         v.Year,
		Brand:        v.ResolveBrand(DefaultBrandName),
		ModelName:    v.ModelName,
		FuelType:     v.ResolveFuelType(DefaultFuelName),
		Transmission: v.ResolveTransmission(DefaultTransmissionName),
		DailyPrice:   v.DailyPrice,
		Price:        FormatPrice(v.DailyPrice),
		Mileage:      FormatMileage(v.Mileage),
		Description:  v.Description,
		DisplayOrder: v.DisplayOrder,
		Photos:       photos,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}
