package testhelpers

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"log"
	"os"
	"strconv"
	"testing"

	"github.com/MikyMack/TranshaStays/backend/shared/go-repositories"
	"github.com/MikyMack/TranshaStays/backend/shared/go-utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/require"
)

// TestHelper encapsulates all necessary components for running integration tests across services.
type TestHelper struct {
	T          *testing.T
	Ctx        context.Context
	BaseURL    string
	DB         *pgxpool.Pool
	PrivateKey *rsa.PrivateKey

	// From ldflags
	AppName         string
	UniqueRunNumber string
	UniqueRunnerID  string

	// Repositories
	PropertyRepo repositories.PropertyRepository
	UnitRepo     repositories.UnitRepository
	FloorRepo    repositories.FloorRepository
	TenantRepo   repositories.TenantRepository
	BookingRepo  repositories.BookingRepository
	LeaseRepo    repositories.LeaseRepository
	ReviewRepo   repositories.ReviewRepository
	HoldRepo     repositories.HoldRepository
}

// NewTestHelper connects to the service's database and reads the signing key
// for admin tokens. It's designed to be called once from a TestMain function.
func NewTestHelper(t *testing.T, appName, uniqueRunID, uniqueRunNum string) *TestHelper {
	// 1. Load environment
	baseURL := os.Getenv("APP_URL_FROM_ANYWHERE")
	if baseURL == "" {
		log.Fatal("APP_URL_FROM_ANYWHERE env var is missing")
	}
	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		log.Fatal("DB_URL env var is missing")
	}

	// 2. RSA private key matching the service's RSA_PUBLIC_KEY_BASE64
	privateKeyB64 := os.Getenv("RSA_PRIVATE_KEY_BASE64")
	require.NotEmpty(t, privateKeyB64, "RSA_PRIVATE_KEY_BASE64 not set")
	privateKeyPEM, err := base64.StdEncoding.DecodeString(privateKeyB64)
	require.NoError(t, err)
	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privateKeyPEM)
	require.NoError(t, err)

	// 3. Connect with the same role the service uses
	effectiveURL := dbURL
	if isolated, _ := strconv.ParseBool(os.Getenv("LD_FLAG_USING_ISOLATED_SCHEMA")); isolated {
		effectiveURL, err = utils.WithIsolatedRole(dbURL, uniqueRunID, uniqueRunNum)
		require.NoError(t, err)
	}

	ctx := context.Background()
	dbPool, err := pgxpool.Connect(ctx, effectiveURL)
	require.NoError(t, err)
	t.Cleanup(func() { dbPool.Close() })

	// 4. Initialize all repositories and the helper
	return &TestHelper{
		T:               t,
		Ctx:             ctx,
		BaseURL:         baseURL,
		DB:              dbPool,
		PrivateKey:      privateKey,
		AppName:         appName,
		UniqueRunnerID:  uniqueRunID,
		UniqueRunNumber: uniqueRunNum,
		PropertyRepo:    repositories.NewPropertyRepository(dbPool),
		UnitRepo:        repositories.NewUnitRepository(dbPool),
		FloorRepo:       repositories.NewFloorRepository(dbPool),
		TenantRepo:      repositories.NewTenantRepository(dbPool),
		BookingRepo:     repositories.NewBookingRepository(dbPool),
		LeaseRepo:       repositories.NewLeaseRepository(dbPool),
		ReviewRepo:      repositories.NewReviewRepository(dbPool),
		HoldRepo:        repositories.NewHoldRepository(dbPool),
	}
}
