// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for Lectern.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: LECTERN_MONGO_URI, LECTERN_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "lectern", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	// Profile store collections, one per role.
	{Name: "student_collection", Default: "", Desc: "Student profile collection (default: student_profiles)"},
	{Name: "teacher_collection", Default: "", Desc: "Teacher profile collection (default: teacher_profiles)"},
	{Name: "superadmin_collection", Default: "", Desc: "Super-admin profile collection (default: superadmin_profiles)"},

	{Name: "notification_collection", Default: "", Desc: "Notification collection (default: notifications)"},
	{Name: "reset_token_collection", Default: "", Desc: "Password-reset token collection (default: reset_tokens)"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "lectern-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},

	// Object storage (S3) configuration
	{Name: "aws_region", Default: "", Desc: "AWS region for S3"},
	{Name: "aws_access_key_id", Default: "", Desc: "AWS access key id for S3 signing"},
	{Name: "aws_secret_access_key", Default: "", Desc: "AWS secret access key for S3 signing"},
	{Name: "lecture_bucket", Default: "", Desc: "S3 bucket for lecture videos"},
	{Name: "resource_bucket", Default: "", Desc: "S3 bucket for lecture resources"},
	{Name: "avatar_bucket", Default: "", Desc: "S3 bucket for avatars and batch cover images"},

	// Email/SMTP configuration
	{Name: "mail_smtp_host", Default: "localhost", Desc: "SMTP server host"},
	{Name: "mail_smtp_port", Default: 1025, Desc: "SMTP server port"},
	{Name: "mail_smtp_user", Default: "", Desc: "SMTP username"},
	{Name: "mail_smtp_pass", Default: "", Desc: "SMTP password"},
	{Name: "mail_from", Default: "noreply@lectern.example.com", Desc: "From email address"},
	{Name: "mail_from_name", Default: "Lectern", Desc: "From display name"},

	{Name: "base_url", Default: "http://localhost:3000", Desc: "Base URL for email links"},
	{Name: "site_name", Default: "Lectern", Desc: "Display name used in outbound email"},

	{Name: "reset_token_expiry", Default: "15m", Desc: "Password-reset token expiry (e.g., 15m, 1h)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, LECTERN_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "LECTERN", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		StudentCollection:    appValues.String("student_collection"),
		TeacherCollection:    appValues.String("teacher_collection"),
		SuperAdminCollection: appValues.String("superadmin_collection"),

		NotificationCollection: appValues.String("notification_collection"),
		ResetTokenCollection:   appValues.String("reset_token_collection"),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),

		AWSRegion:          appValues.String("aws_region"),
		AWSAccessKeyID:     appValues.String("aws_access_key_id"),
		AWSSecretAccessKey: appValues.String("aws_secret_access_key"),
		LectureBucket:      appValues.String("lecture_bucket"),
		ResourceBucket:     appValues.String("resource_bucket"),
		AvatarBucket:       appValues.String("avatar_bucket"),

		MailSMTPHost: appValues.String("mail_smtp_host"),
		MailSMTPPort: appValues.Int("mail_smtp_port"),
		MailSMTPUser: appValues.String("mail_smtp_user"),
		MailSMTPPass: appValues.String("mail_smtp_pass"),
		MailFrom:     appValues.String("mail_from"),
		MailFromName: appValues.String("mail_from_name"),

		BaseURL:  appValues.String("base_url"),
		SiteName: appValues.String("site_name"),

		ResetTokenExpiry: appValues.Duration("reset_token_expiry", 15*time.Minute),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Lectern validates the MongoDB URI format to catch configuration
// errors early, before attempting to connect, and requires the storage
// settings to be either complete or entirely absent.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	storageSet := appCfg.AWSRegion != "" || appCfg.AWSAccessKeyID != "" || appCfg.AWSSecretAccessKey != ""
	storageComplete := appCfg.AWSRegion != "" && appCfg.AWSAccessKeyID != "" && appCfg.AWSSecretAccessKey != "" &&
		appCfg.LectureBucket != "" && appCfg.ResourceBucket != "" && appCfg.AvatarBucket != ""
	if storageSet && !storageComplete {
		return fmt.Errorf("storage config is partial: set aws_region, aws_access_key_id, aws_secret_access_key and all three buckets, or none")
	}
	if !storageComplete {
		logger.Warn("object storage not configured; media routes will be disabled")
	}

	return nil
}
