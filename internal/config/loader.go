package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/example/kita-dienstplan/internal/calendar"
)

// Config captures environment driven configuration values for the Dienstplan service.
type Config struct {
	HTTPPort            int
	SQLiteDSN           string
	DayConvention       calendar.DayConvention
	Location            *time.Location
	LogLevel            string
	LogFormat           string
	ProvisionCron       string
	ProvisionWeeksAhead int
	RateLimit           float64
	RateBurst           int
}

// Default returns the configuration used when no variables are set.
func Default() Config {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		loc = time.UTC
	}
	return Config{
		HTTPPort:            8080,
		SQLiteDSN:           "dienstplan.db",
		DayConvention:       calendar.DayConventionISO,
		Location:            loc,
		LogLevel:            "info",
		LogFormat:           "json",
		ProvisionCron:       "0 6 * * 1",
		ProvisionWeeksAhead: 1,
		RateLimit:           20,
		RateBurst:           40,
	}
}

// Load reads the given .env files (".env" when none are named) and then parses
// configuration values from the process environment. Variables already set in
// the environment win over .env entries; missing .env files are ignored.
//
// Every invalid variable is reported in a single error.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if _, err := os.Stat(file); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", file, err)
		}
	}

	cfg := Default()
	invalid := make([]string, 0, 2)

	if portValue := lookup("DIENSTPLAN_HTTP_PORT"); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 || port > 65535 {
			invalid = append(invalid, "DIENSTPLAN_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := lookup("DIENSTPLAN_SQLITE_DSN"); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if value := lookup("DIENSTPLAN_DAY_CONVENTION"); value != "" {
		convention, err := calendar.ParseDayConvention(value)
		if err != nil {
			invalid = append(invalid, "DIENSTPLAN_DAY_CONVENTION")
		} else {
			cfg.DayConvention = convention
		}
	}

	if tz := lookup("DIENSTPLAN_TIMEZONE"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			invalid = append(invalid, "DIENSTPLAN_TIMEZONE")
		} else {
			cfg.Location = loc
		}
	}

	if level := lookup("DIENSTPLAN_LOG_LEVEL"); level != "" {
		switch strings.ToLower(level) {
		case "debug", "info", "warn", "error":
			cfg.LogLevel = strings.ToLower(level)
		default:
			invalid = append(invalid, "DIENSTPLAN_LOG_LEVEL")
		}
	}

	if format := lookup("DIENSTPLAN_LOG_FORMAT"); format != "" {
		switch strings.ToLower(format) {
		case "json", "text":
			cfg.LogFormat = strings.ToLower(format)
		default:
			invalid = append(invalid, "DIENSTPLAN_LOG_FORMAT")
		}
	}

	// an explicitly empty value disables provisioning
	if spec, ok := os.LookupEnv("DIENSTPLAN_PROVISION_CRON"); ok {
		spec = strings.TrimSpace(spec)
		if spec != "" {
			if _, err := cron.ParseStandard(spec); err != nil {
				invalid = append(invalid, "DIENSTPLAN_PROVISION_CRON")
			}
		}
		cfg.ProvisionCron = spec
	}

	if value := lookup("DIENSTPLAN_PROVISION_WEEKS_AHEAD"); value != "" {
		weeks, err := strconv.Atoi(value)
		if err != nil || weeks < 0 || weeks > 52 {
			invalid = append(invalid, "DIENSTPLAN_PROVISION_WEEKS_AHEAD")
		} else {
			cfg.ProvisionWeeksAhead = weeks
		}
	}

	if value := lookup("DIENSTPLAN_RATE_LIMIT"); value != "" {
		limit, err := strconv.ParseFloat(value, 64)
		if err != nil || limit < 0 {
			invalid = append(invalid, "DIENSTPLAN_RATE_LIMIT")
		} else {
			cfg.RateLimit = limit
		}
	}

	if value := lookup("DIENSTPLAN_RATE_BURST"); value != "" {
		burst, err := strconv.Atoi(value)
		if err != nil || burst < 0 {
			invalid = append(invalid, "DIENSTPLAN_RATE_BURST")
		} else {
			cfg.RateBurst = burst
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("Ungültige Werte in Umgebungsvariablen: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

func lookup(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
