package types

import "time"

type Config struct {
	Environment      string `envconfig:"ENVIRONMENT" default:"development"`
	ServerPort       uint   `envconfig:"SERVER_PORT" default:"5000"`
	DatabaseURL      string `envconfig:"DATABASE_URL"`
	DatabaseMaxConns int32  `envconfig:"DATABASE_MAX_CONNS" default:"10"`
	ReadTimeoutSec   uint   `envconfig:"READ_TIMEOUT_SEC" default:"10"`
	WriteTimeoutSec  uint   `envconfig:"WRITE_TIMEOUT_SEC" default:"15"`

	// Upper bound on any single store round trip made while serving a request
	StoreTimeoutSec    uint `envconfig:"STORE_TIMEOUT_SEC" default:"5"`
	ShutdownTimeoutSec uint `envconfig:"SHUTDOWN_TIMEOUT_SEC" default:"10"`

	// Cross-origin access is granted to exactly one origin, with credentials
	CORSOrigin string `envconfig:"CORS_ORIGIN" default:"http://localhost:5173"`

	// Credentials
	JWTSecret   string        `envconfig:"JWT_SECRET"`
	TokenExpiry time.Duration `envconfig:"TOKEN_EXPIRY" default:"24h"`
	BcryptCost  int           `envconfig:"BCRYPT_COST" default:"10"`

	// Auth cookie
	CookieName string `envconfig:"SESSION_COOKIE_NAME" default:"authToken"`

	// Cookie encryption keys (base64 encoded)
	// openssl rand -base64 32
	// to generate values
	CookieHashKey  string `envconfig:"COOKIE_HASH_KEY"`  // 32 or 64 bytes
	CookieBlockKey string `envconfig:"COOKIE_BLOCK_KEY"` // 16, 24, or 32 bytes

	LeaderboardLimit int `envconfig:"LEADERBOARD_LIMIT" default:"10"`

	// Donation images, disabled when the bucket is empty
	S3Bucket        string `envconfig:"S3_BUCKET"`
	S3PublicBaseURL string `envconfig:"S3_PUBLIC_BASE_URL"`
}

func (c *Config) StoreTimeout() time.Duration {
	return time.Duration(c.StoreTimeoutSec) * time.Second
}
