package config

import (
	"crypto/rsa"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/MikyMack/TranshaStays/backend/shared/go-utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/launchdarkly/go-sdk-common/v3/ldcontext"
	ld "github.com/launchdarkly/go-server-sdk/v7"
)

type Config struct {
	OrganizationName string
	AppName          string
	Env              string
	AppPort          string
	AppUrl           string
	UniqueRunNumber  string
	UniqueRunnerID   string

	// Database
	DBUrl          string
	AutoMigrate    bool
	StorageTimeout time.Duration

	// Event stream (optional; the in-process bus is used without it)
	RedisAddr     string
	RedisPassword string

	// Twilio / SendGrid for booking notifications
	TwilioAccountSID string
	TwilioAuthToken  string
	SendGridAPIKey   string

	// Auth
	RSAPublicKey *rsa.PublicKey

	// LaunchDarkly flags
	LDFlag_UsingIsolatedSchema   bool
	LDFlag_TwilioFromPhone       string
	LDFlag_SendgridFromEmail     string
	LDFlag_SendgridSandboxMode   bool
	LDFlag_CORSHighSecurity      bool
	LDFlag_NotifyGuests          bool
	LDFlag_AdminNotificationMail string
	LDFlag_LeaseMaintenanceCron  bool
	LDFlag_SeedDemoCatalog       bool
}

const (
	OrganizationName      = utils.OrganizationName
	LDConnectionTimeout   = 5 * time.Second
	DefaultStorageTimeout = 5 * time.Second
)

// build-time overrides
var (
	AppName             string
	UniqueRunNumber     string
	UniqueRunnerID      string
	LDServerContextKey  string
	LDServerContextKind string
)

// flagSource is the part of the LaunchDarkly client the config reads.
type flagSource interface {
	BoolVariation(key string, context ldcontext.Context, defaultVal bool) (bool, error)
	StringVariation(key string, context ldcontext.Context, defaultVal string) (string, error)
}

// envFlags serves flags from LD_FLAG_<NAME> env vars when no SDK key is
// configured, e.g. for local runs and tests.
type envFlags struct {
	getenv func(string) string
}

func envFlagName(key string) string {
	return "LD_FLAG_" + strings.ToUpper(key)
}

func (e envFlags) BoolVariation(key string, _ ldcontext.Context, def bool) (bool, error) {
	raw := e.getenv(envFlagName(key))
	if raw == "" {
		return def, nil
	}
	return strconv.ParseBool(raw)
}

func (e envFlags) StringVariation(key string, _ ldcontext.Context, def string) (string, error) {
	if raw := e.getenv(envFlagName(key)); raw != "" {
		return raw, nil
	}
	return def, nil
}

func LoadConfig() *Config {
	if AppName == "" {
		utils.Logger.Fatal("AppName ldflag missing")
	}
	if UniqueRunNumber == "" {
		utils.Logger.Fatal("UniqueRunNumber ldflag missing")
	}
	if UniqueRunnerID == "" {
		utils.Logger.Fatal("UniqueRunnerID ldflag missing")
	}
	if LDServerContextKey == "" || LDServerContextKind == "" {
		utils.Logger.Fatal("LD context ldflags missing")
	}

	utils.Logger.Info("Loading config for app: ", AppName)

	var flags flagSource = envFlags{getenv: os.Getenv}
	if sdkKey := os.Getenv("LD_SDK_KEY"); sdkKey != "" {
		ldClient, err := ld.MakeClient(sdkKey, LDConnectionTimeout)
		if err != nil {
			utils.Logger.WithError(err).Fatal("Failed to create LaunchDarkly client")
		}
		if !ldClient.Initialized() {
			ldClient.Close()
			utils.Logger.Fatal("LaunchDarkly client failed to initialize")
		}
		defer ldClient.Close()
		flags = ldClient
	} else {
		utils.Logger.Warn("LD_SDK_KEY not set; reading feature flags from LD_FLAG_* env vars")
	}

	cfg, err := load(os.Getenv, flags)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Invalid configuration")
	}
	return cfg
}

// load builds the Config from env lookups and a flag source.
func load(getenv func(string) string, flags flagSource) (*Config, error) {
	required := func(name string) (string, error) {
		v := getenv(name)
		if v == "" {
			return "", fmt.Errorf("%s env var is missing", name)
		}
		return v, nil
	}

	env, err := required("ENV")
	if err != nil {
		return nil, err
	}
	appPort, err := required("APP_PORT")
	if err != nil {
		return nil, err
	}
	appUrl, err := required("APP_URL_FROM_ANYWHERE")
	if err != nil {
		return nil, err
	}
	dbURL, err := required("DB_URL")
	if err != nil {
		return nil, err
	}

	pubB64, err := required("RSA_PUBLIC_KEY_BASE64")
	if err != nil {
		return nil, err
	}
	pubKey, err := parsePublicKey(pubB64)
	if err != nil {
		return nil, err
	}

	storageTimeout := DefaultStorageTimeout
	if raw := getenv("STORAGE_TIMEOUT"); raw != "" {
		storageTimeout, err = time.ParseDuration(raw)
		if err != nil || storageTimeout <= 0 {
			return nil, fmt.Errorf("STORAGE_TIMEOUT %q is not a positive duration", raw)
		}
	}

	autoMigrate := false
	if raw := getenv("AUTO_MIGRATE"); raw != "" {
		autoMigrate, err = strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("AUTO_MIGRATE %q: %w", raw, err)
		}
	}

	ctx := ldcontext.NewWithKind(ldcontext.Kind(LDServerContextKind), LDServerContextKey)

	boolFlag := func(key string) (bool, error) {
		v, err := flags.BoolVariation(key, ctx, false)
		if err != nil {
			return false, fmt.Errorf("error retrieving %s flag: %w", key, err)
		}
		utils.Logger.Debugf("%s flag: %t", key, v)
		return v, nil
	}
	stringFlag := func(key, fallback string) (string, error) {
		v, err := flags.StringVariation(key, ctx, "")
		if err != nil {
			return "", fmt.Errorf("error retrieving %s flag: %w", key, err)
		}
		if v == "" {
			utils.Logger.Warnf("%s flag is empty, defaulting to %s", key, fallback)
			v = fallback
		}
		return v, nil
	}

	cfg := &Config{
		OrganizationName: OrganizationName,
		AppName:          AppName,
		Env:              env,
		AppPort:          appPort,
		AppUrl:           appUrl,
		UniqueRunNumber:  UniqueRunNumber,
		UniqueRunnerID:   UniqueRunnerID,
		DBUrl:            dbURL,
		AutoMigrate:      autoMigrate,
		StorageTimeout:   storageTimeout,
		RedisAddr:        getenv("REDIS_ADDR"),
		RedisPassword:    getenv("REDIS_PASSWORD"),
		TwilioAccountSID: getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:  getenv("TWILIO_AUTH_TOKEN"),
		SendGridAPIKey:   getenv("SENDGRID_API_KEY"),
		RSAPublicKey:     pubKey,
	}

	if cfg.LDFlag_UsingIsolatedSchema, err = boolFlag("using_isolated_schema"); err != nil {
		return nil, err
	}
	if cfg.LDFlag_SendgridSandboxMode, err = boolFlag("sendgrid_sandbox_mode"); err != nil {
		return nil, err
	}
	if cfg.LDFlag_CORSHighSecurity, err = boolFlag("cors_high_security"); err != nil {
		return nil, err
	}
	if cfg.LDFlag_NotifyGuests, err = boolFlag("notify_guests"); err != nil {
		return nil, err
	}
	if cfg.LDFlag_LeaseMaintenanceCron, err = boolFlag("lease_maintenance_cron"); err != nil {
		return nil, err
	}
	if cfg.LDFlag_SeedDemoCatalog, err = boolFlag("seed_demo_catalog"); err != nil {
		return nil, err
	}
	if cfg.LDFlag_TwilioFromPhone, err = stringFlag("twilio_from_phone", "+10005550006"); err != nil {
		return nil, err
	}
	if cfg.LDFlag_SendgridFromEmail, err = stringFlag("sendgrid_from_email", "no-reply@transhastays.com"); err != nil {
		return nil, err
	}
	if cfg.LDFlag_AdminNotificationMail, err = stringFlag("admin_notification_email", "bookings@transhastays.com"); err != nil {
		return nil, err
	}

	return cfg, nil
}

func parsePublicKey(b64 string) (*rsa.PublicKey, error) {
	pubPEM, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("RSA_PUBLIC_KEY_BASE64 is not base64: %w", err)
	}
	if block, _ := pem.Decode(pubPEM); block == nil {
		return nil, errors.New("failed to decode PEM block for public key")
	}
	pubKey, err := jwt.ParseRSAPublicKeyFromPEM(pubPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse RSA public key: %w", err)
	}
	return pubKey, nil
}

func (c *Config) Close() {}
