package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Lookup reads one environment variable.
type Lookup func(key string) (string, bool)

// Environ returns a lookup over the process environment, falling back to
// the variables of dotenv when it names an existing file. The process
// environment always wins.
func Environ(dotenv string) (Lookup, error) {
	vars := map[string]string{}
	if dotenv != "" {
		read, err := godotenv.Read(dotenv)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read %s: %w", dotenv, err)
		default:
			vars = read
		}
	}
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := vars[key]
		return v, ok
	}, nil
}

// ApplyEnv overlays ZORD_* variables onto c.
func (c *Config) ApplyEnv(lookup Lookup) error {
	strs := map[string]*string{
		"ZORD_BASE_URL":    &c.BaseURL,
		"ZORD_USER_AGENT":  &c.UserAgent,
		"ZORD_TICK":        &c.Tick,
		"ZORD_ADDRESS":     &c.Address,
		"ZORD_RECORD_DB":   &c.RecordDB,
		"ZORD_PUSHGATEWAY": &c.PushGateway,
		"ZORD_FORMAT":      &c.Format,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"ZORD_TOKEN_LIMIT":      &c.TokenLimit,
		"ZORD_VALIDATE_LIMIT":   &c.ValidateLimit,
		"ZORD_INTEGRITY_LIMIT":  &c.IntegrityLimit,
		"ZORD_INSCRIPTION_SCAN": &c.InscriptionScan,
		"ZORD_CONCURRENCY":      &c.Concurrency,
	}
	for key, dst := range ints {
		v, ok := lookup(key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
	}

	if v, ok := lookup("ZORD_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("ZORD_TIMEOUT: %w", err)
		}
		c.Timeout = d
	}
	if v, ok := lookup("ZORD_CROSS_CHECK"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("ZORD_CROSS_CHECK: %w", err)
		}
		c.CrossCheck = b
	}
	return nil
}
