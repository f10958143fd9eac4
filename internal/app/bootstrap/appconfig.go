// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig handles
// framework-level settings (ports, TLS, logging, CORS); AppConfig is
// everything specific to this application.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connections in the driver pool
	MongoMinPoolSize uint64 // Min connections kept warm

	// Profile store collections. One disjoint collection per role.
	StudentCollection    string
	TeacherCollection    string
	SuperAdminCollection string

	// Other collections
	NotificationCollection string
	ResetTokenCollection   string

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions
	SessionDomain string // Cookie domain (blank means current host)

	// Object storage (S3) configuration
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	LectureBucket      string // lecture videos
	ResourceBucket     string // lecture resources
	AvatarBucket       string // avatars and batch cover images

	// Email/SMTP configuration
	MailSMTPHost string // SMTP server host (e.g., localhost for Mailpit)
	MailSMTPPort int    // SMTP server port (e.g., 1025 for Mailpit, 587 for SES)
	MailSMTPUser string // SMTP username (empty disables auth)
	MailSMTPPass string // SMTP password
	MailFrom     string // From email address
	MailFromName string // From display name

	// Base URL for email links (password reset)
	BaseURL  string // e.g., "https://lectern.example.com"
	SiteName string // Display name used in outbound email

	// Password reset
	ResetTokenExpiry time.Duration
}
