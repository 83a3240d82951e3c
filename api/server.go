package api

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	awsCfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"vitrine/adapters/oidc"
	internalS3 "vitrine/adapters/s3"
	"vitrine/models"
)

type ServerImpl struct {
	oidcProvider *oidc.Provider
	s3Operator   internalS3.IOperator
	htmlChecker  *bluemonday.Policy
	redisClient  *redis.Client
	db           *gorm.DB

	config ServerConfig
}

func NewServer(config ServerConfig) (*ServerImpl, error) {
	const op = "NewServer"

	oidcProvider, err := oidc.NewProvider(config.OIDC.IssuerURL, config.OIDC.ClientID, config.OIDC.ClientSecret)
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to initial OIDC provider, err=%w", op, err)
	}

	s3Cfg, err := awsCfg.LoadDefaultConfig(
		context.Background(),
		awsCfg.WithBaseEndpoint(config.S3.Endpoint),
		awsCfg.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(config.S3.AccessKeyID, config.S3.SecretAccessKey, "")),
		awsCfg.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to load AWS config, err=%w", op, err)
	}
	s3Operator, err := internalS3.NewS3Operator(s3.NewFromConfig(s3Cfg), config.S3.Bucket, config.S3.PublicBaseURL)
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to create S3 operator, err=%w", op, err)
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable&search_path=%s", config.DB.User, config.DB.Password, config.DB.Host, config.DB.Port, config.DB.Database, config.DB.Schema)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		NamingStrategy: schema.NamingStrategy{
			TablePrefix: config.DB.Schema + ".",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to connect to database, err=%w", op, err)
	}
	if err := db.AutoMigrate(
		&models.Brand{},
		&models.FuelType{},
		&models.TransmissionType{},
		&models.Vehicle{},
		&models.VehiclePhoto{},
		&models.CompanyInfo{},
		&models.AdminAccount{},
	); err != nil {
		return nil, fmt.Errorf("[%s] Fail to migrate schema, err=%w", op, err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     config.Redis.Addr,
		Password: config.Redis.Password,
		DB:       config.Redis.DB,
	})

	return &ServerImpl{
		oidcProvider: oidcProvider,
		s3Operator:   s3Operator,
		htmlChecker:  bluemonday.UGCPolicy(),
		redisClient:  redisClient,
		db:           db,
		config:       config,
	}, nil
}

func (impl *ServerImpl) Close() {
	if err := impl.redisClient.Close(); err != nil {
		slog.Warn("Fail to close redis client", slog.Any("error", err))
	}
	if sqlDB, err := impl.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Warn("Fail to close database", slog.Any("error", err))
		}
	}
}

// RegisterRoutes attaches all storefront and back-office routes.
func (impl *ServerImpl) RegisterRoutes(router *gin.Engine) {
	if len(impl.config.CORS.AllowOrigins) > 0 {
		corsCfg := cors.DefaultConfig()
		corsCfg.AllowOrigins = impl.config.CORS.AllowOrigins
		corsCfg.AllowCredentials = true
		router.Use(cors.New(corsCfg))
	}
	router.Use(impl.SessionMiddleware())

	router.GET("/sitemap.xml", impl.GetSitemap)

	router.GET("/auth/login", impl.GetAuthLogin)
	router.GET("/auth/callback", impl.GetAuthCallback)
	router.GET("/auth/logout", impl.GetAuthLogout)

	public := router.Group("/api")
	public.GET("/cars", impl.ListCars)
	public.GET("/cars/:id", impl.GetCar)
	public.GET("/lookups", impl.GetLookups)
	public.GET("/company-info", impl.GetCompanyInfo)
	public.GET("/consent", impl.GetConsent)
	public.PUT("/consent", impl.PutConsent)
	public.GET("/auth/status", impl.GetAuthStatus)

	admin := router.Group("/api/admin", impl.RequireAdmin())
	admin.POST("/cars", impl.CreateCar)
	admin.PUT("/cars/order", impl.ReorderCars)
	admin.PUT("/cars/:id", impl.UpdateCar)
	admin.DELETE("/cars/:id", impl.DeleteCar)
	admin.POST("/cars/:id/photos", impl.UploadPhotos)
	admin.DELETE("/photos/:id", impl.DeletePhoto)
	admin.PUT("/photos/:id/primary", impl.SetPrimaryPhoto)
	admin.POST("/brands", impl.CreateBrand)
	admin.POST("/fuel-types", impl.CreateFuelType)
	admin.POST("/transmission-types", impl.CreateTransmissionType)
	admin.PUT("/company-info", impl.UpdateCompanyInfo)
}

// abortInternal logs the failure and degrades to a generic 500. Expected
// conditions never reach here; they answer with their own status.
func (impl *ServerImpl) abortInternal(c *gin.Context, op string, err error) {
	slog.Error("Internal error", slog.String("op", op), slog.Any("error", err))
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
}

// isAdminSubject checks whitelist membership. A missing row is "not admin",
// not an error.
func (impl *ServerImpl) isAdminSubject(ctx context.Context, subject string) (bool, error) {
	const op = "isAdminSubject"
	var account models.AdminAccount
	result := impl.db.WithContext(ctx).Where("subject = ?", subject).First(&account)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("[%s] Fail to query admin whitelist, err=%w", op, result.Error)
	}
	return true, nil
}

func generateID(prefix string) (string, error) {
	const op = "generateID"
	bytes := make([]byte, 20)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("[%s] Fail to generate unique id, err=%w", op, err)
	}
	return prefix + "_" + base64.URLEncoding.EncodeToString(bytes), nil
}
