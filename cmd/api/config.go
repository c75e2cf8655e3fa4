package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type config struct {
	addr        string
	env         string
	apiURL      string
	db          dbConfig
	assets      assetsConfig
	auth        authConfig
	orders      ordersConfig
	mail        mailConfig
	rateLimiter rateLimiterConfig
	cors        corsConfig
}

type dbConfig struct {
	addr        string
	maxConns    int
	maxIdleTime string
}

type assetsConfig struct {
	cloudinaryURL string
	folder        string
	usersFolder   string
}

type authConfig struct {
	basic basicConfig
	token tokenConfig
}

type tokenConfig struct {
	secret string
	exp    time.Duration
	iss    string
}

type basicConfig struct {
	user string
	pass string
}

type ordersConfig struct {
	numberSalt string
}

type mailConfig struct {
	host      string
	port      int
	username  string
	password  string
	fromEmail string
}

type rateLimiterConfig struct {
	requestsPerTimeFrame int
	timeFrame            time.Duration
	enabled              bool
}

type corsConfig struct {
	allowedOrigins []string
}

// loadConfig is the only place the environment is read.
func loadConfig() (config, error) {
	var errs []string
	cfg := config{
		addr:   envString("ADDR", ":8080"),
		env:    envString("ENV", "development"),
		apiURL: envString("EXTERNAL_URL", "localhost:8080"),
		db: dbConfig{
			addr:        os.Getenv("DB_ADDR"),
			maxConns:    envInt("DB_MAX_CONNS", 30, &errs),
			maxIdleTime: envString("DB_MAX_IDLE_TIME", "15m"),
		},
		assets: assetsConfig{
			cloudinaryURL: os.Getenv("CLOUDINARY_URL"),
			folder:        envString("CLOUDINARY_FOLDER", "products"),
			usersFolder:   "users",
		},
		auth: authConfig{
			basic: basicConfig{
				user: os.Getenv("AUTH_BASIC_USER"),
				pass: os.Getenv("AUTH_BASIC_PASS"),
			},
			token: tokenConfig{
				secret: os.Getenv("AUTH_TOKEN_SECRET"),
				exp:    envDuration("AUTH_TOKEN_EXP", 7*24*time.Hour, &errs),
				iss:    envString("AUTH_TOKEN_ISS", "storefront"),
			},
		},
		orders: ordersConfig{
			numberSalt: os.Getenv("ORDER_NUMBER_SALT"),
		},
		mail: mailConfig{
			host:      os.Getenv("SMTP_HOST"),
			port:      envInt("SMTP_PORT", 587, &errs),
			username:  os.Getenv("SMTP_USERNAME"),
			password:  os.Getenv("SMTP_PASSWORD"),
			fromEmail: os.Getenv("MAIL_FROM"),
		},
		rateLimiter: rateLimiterConfig{
			requestsPerTimeFrame: envInt("RATELIMITER_REQUESTS_COUNT", 200, &errs),
			timeFrame:            5 * time.Second,
			enabled:              envBool("RATE_LIMITER_ENABLED", false, &errs),
		},
		cors: corsConfig{
			allowedOrigins: envList("CORS_ALLOWED_ORIGINS", []string{"https://*", "http://*"}),
		},
	}

	if cfg.db.addr == "" {
		errs = append(errs, "DB_ADDR is required")
	}
	if cfg.auth.token.secret == "" {
		errs = append(errs, "AUTH_TOKEN_SECRET is required")
	}
	if cfg.assets.cloudinaryURL == "" {
		errs = append(errs, "CLOUDINARY_URL is required")
	}

	if len(errs) > 0 {
		return cfg, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

func envString(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && strings.TrimSpace(val) != "" {
		return strings.TrimSpace(val)
	}
	return fallback
}

func envInt(key string, fallback int, errs *[]string) int {
	val, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(val) == "" {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("invalid %s: %q", key, val))
		return fallback
	}
	return n
}

func envBool(key string, fallback bool, errs *[]string) bool {
	val, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(val) == "" {
		return fallback
	}
	b, err := strconv.ParseBool(strings.TrimSpace(val))
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("invalid %s: %q", key, val))
		return fallback
	}
	return b
}

func envDuration(key string, fallback time.Duration, errs *[]string) time.Duration {
	val, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(val) == "" {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(val))
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("invalid %s: %q", key, val))
		return fallback
	}
	return d
}

func envList(key string, fallback []string) []string {
	val := envString(key, "")
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
