package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds the operator-tunable knobs for the outreach engine, loaded
// from the environment with sensible defaults.
type Config struct {
	Port     string
	MongoURI string
	MongoDB  string

	// Campaign selection knobs.
	ThresholdKm  int
	UrgencyKm    int
	CooldownDays int
	SendDelay    time.Duration

	// Daily trigger.
	CampaignHour   int
	CampaignMinute int
	Timezone       string

	// Transport. DryRun substitutes a logging no-op for the real sender.
	DryRun           bool
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string
}

// Load reads configuration from the environment. A local .env file is applied
// first when present.
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		log.Debug("loaded .env file")
	}

	cfg := &Config{
		Port:             envStr("PORT", "8080"),
		MongoURI:         envStr("MONGO_URI", ""),
		MongoDB:          envStr("MONGO_DB", "garage"),
		ThresholdKm:      envInt("ALERT_THRESHOLD_KM", 1500),
		UrgencyKm:        envInt("URGENCY_KM", 1000),
		CooldownDays:     envInt("COOLDOWN_DAYS", 30),
		SendDelay:        time.Duration(envInt("SEND_DELAY_MS", 200)) * time.Millisecond,
		CampaignHour:     envInt("CAMPAIGN_HOUR", 9),
		CampaignMinute:   envInt("CAMPAIGN_MINUTE", 30),
		Timezone:         envStr("CAMPAIGN_TZ", "Asia/Jerusalem"),
		TwilioAccountSID: envStr("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:  envStr("TWILIO_AUTH_TOKEN", ""),
		TwilioFromNumber: envStr("TWILIO_FROM_NUMBER", ""),
	}

	// Without Twilio credentials the only safe transport is the dry-run one.
	cfg.DryRun = envBool("DRY_RUN", cfg.TwilioAccountSID == "")
	return cfg
}

// Location resolves the configured timezone, falling back to local time on a
// bad zone name.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.WithField("timezone", c.Timezone).Warn("unknown timezone, using local")
		return time.Local
	}
	return loc
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.WithFields(log.Fields{"key": key, "value": v}).Warn("invalid integer in environment, using default")
		return fallback
	}
	return n
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.WithFields(log.Fields{"key": key, "value": v}).Warn("invalid boolean in environment, using default")
		return fallback
	}
	return b
}
