package api

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"vitrine/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testKeySeed = bytes.Repeat([]byte{0x42}, ed25519.SeedSize)

const testPublicBaseURL = "https://cdn.vitrine.example/"

// fakeObjectStore implements s3.IOperator in memory so handler tests can
// observe uploads and deletions without a bucket.
type fakeObjectStore struct {
	mu        sync.Mutex
	objects   map[string][]byte
	deleted   []string
	uploadErr error
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: make(map[string][]byte)}
}

func (f *fakeObjectStore) UploadFileToS3(ctx context.Context, path, contentType string, fileContent []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	f.objects[path] = fileContent
	return testPublicBaseURL + path, nil
}

func (f *fakeObjectStore) DeleteFileFromS3(ctx context.Context, publicURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := strings.TrimPrefix(publicURL, testPublicBaseURL)
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeObjectStore) objectCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

func newTestServer(t *testing.T) *ServerImpl {
	t.Helper()
	mr := miniredis.RunT(t)

	// one named in-memory database per test so parallel tests stay isolated
	// while every pooled connection still sees the same data
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Brand{},
		&models.FuelType{},
		&models.TransmissionType{},
		&models.Vehicle{},
		&models.VehiclePhoto{},
		&models.CompanyInfo{},
		&models.AdminAccount{},
	))

	return &ServerImpl{
		s3Operator:  newFakeObjectStore(),
		htmlChecker: bluemonday.UGCPolicy(),
		redisClient: redis.NewClient(&redis.Options{Addr: mr.Addr()}),
		db:          db,
		config: ServerConfig{
			SiteURL: "https://vitrine.example",
			Redis:   RedisConfig{KeyPrefix: "vitrine-test"},
			Auth: AuthConfig{
				Issuer:         "vitrine",
				Audience:       "vitrine-admin",
				ExpireDuration: time.Hour,
				PrivateKey:     ed25519.NewKeyFromSeed(testKeySeed),
			},
			Session: SessionConfig{
				KeyForCookie: "vitrine-session-id",
				CookieMaxAge: time.Hour,
			},
		},
	}
}

func newTestRouter(impl *ServerImpl) *gin.Engine {
	router := gin.New()
	impl.RegisterRoutes(router)
	return router
}

func performRequest(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(data)
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func seedBrand(t *testing.T, db *gorm.DB, name string) models.Brand {
	t.Helper()
	brand := models.Brand{Name: name}
	require.NoError(t, db.Create(&brand).Error)
	return brand
}

func seedFuelType(t *testing.T, db *gorm.DB, name string) models.FuelType {
	t.Helper()
	fuel := models.FuelType{Name: name}
	require.NoError(t, db.Create(&fuel).Error)
	return fuel
}

func seedTransmissionType(t *testing.T, db *gorm.DB, name string) models.TransmissionType {
	t.Helper()
	transmission := models.TransmissionType{Name: name}
	require.NoError(t, db.Create(&transmission).Error)
	return transmission
}

func seedVehicle(t *testing.T, db *gorm.DB, vehicle models.Vehicle) models.Vehicle {
	t.Helper()
	require.NoError(t, db.Create(&vehicle).Error)
	return vehicle
}

func seedPhoto(t *testing.T, db *gorm.DB, photo models.VehiclePhoto) models.VehiclePhoto {
	t.Helper()
	require.NoError(t, db.Create(&photo).Error)
	return photo
}

// adminCookie whitelists a subject and returns the signed cookie an
// authenticated administrator would carry.
func adminCookie(t *testing.T, impl *ServerImpl, subject string) *http.Cookie {
	t.Helper()
	require.NoError(t, impl.db.Create(&models.AdminAccount{Subject: subject, Email: subject + "@vitrine.example"}).Error)
	return tokenCookie(t, impl, subject)
}

// tokenCookie signs a token without touching the whitelist, for callers
// testing the non-whitelisted path.
func tokenCookie(t *testing.T, impl *ServerImpl, subject string) *http.Cookie {
	t.Helper()
	token := jwt.NewWithClaims(&jwt.SigningMethodEd25519{}, AdminToken{
		Email: subject + "@vitrine.example",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    impl.config.Auth.Issuer,
			Subject:   subject,
			Audience:  []string{impl.config.Auth.Audience},
		},
	})
	signed, err := token.SignedString(impl.config.Auth.PrivateKey)
	require.NoError(t, err)
	return &http.Cookie{Name: AccessTokenCookie, Value: signed}
}
