// Package config loads blockgen settings.
//
// Settings are layered, later layers winning:
//
//  1. Built-in defaults ([Default])
//  2. A TOML file (blockgen.toml in the working directory, or --config)
//  3. A .env file and BLOCKGEN_* environment variables
//  4. Command-line flags, applied by the caller
//
// A minimal blockgen.toml:
//
//	language = "javascript"
//	stable_names = true
//
//	[cache]
//	backend = "redis"
//	ttl = "24h"
//
//	[redis]
//	addr = "localhost:6379"
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/matzehuels/blockgen/pkg/errors"
	"github.com/matzehuels/blockgen/pkg/languages"
)

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = "blockgen.toml"

// EnvPrefix prefixes every environment variable read by [Load].
const EnvPrefix = "BLOCKGEN_"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// Config holds all blockgen settings.
type Config struct {
	Language      string   `toml:"language" validate:"omitempty,language"` // Empty lets the CLI ask
	Indent        string   `toml:"indent" validate:"blank"`
	StableNames   bool     `toml:"stable_names"`
	ReservedWords []string `toml:"reserved_words" validate:"dive,required"`

	Cache  CacheConfig  `toml:"cache"`
	Redis  RedisConfig  `toml:"redis"`
	Mongo  MongoConfig  `toml:"mongo"`
	Server ServerConfig `toml:"server"`
}

// CacheConfig selects and tunes the output cache.
type CacheConfig struct {
	Backend string `toml:"backend" validate:"oneof=file redis mongo none"`
	TTL     string `toml:"ttl" validate:"omitempty,duration"`      // Empty keeps per-artifact defaults
	Dir     string `toml:"dir"`                                    // File backend; empty means the user cache dir
	Prefix  string `toml:"prefix" validate:"omitempty,printascii"` // Namespaces keys in shared backends
}

// RedisConfig locates the Redis cache backend.
type RedisConfig struct {
	Addr     string `toml:"addr" validate:"omitempty,hostname_port"`
	Password string `toml:"password"`
	DB       int    `toml:"db" validate:"min=0,max=15"`
}

// MongoConfig locates the MongoDB cache backend.
type MongoConfig struct {
	URI        string `toml:"uri" validate:"omitempty,uri"`
	Database   string `toml:"database" validate:"required"`
	Collection string `toml:"collection" validate:"required"`
}

// ServerConfig configures `blockgen serve`.
type ServerConfig struct {
	Addr string `toml:"addr" validate:"required,hostname_port"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Cache: CacheConfig{
			Backend: BackendFile,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Mongo: MongoConfig{
			URI:        "mongodb://localhost:27017",
			Database:   "blockgen",
			Collection: "cache",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// Load builds the configuration from defaults, the TOML file at path, and
// the environment. An empty path reads DefaultFile if it exists; an explicit
// path must exist. A .env file in the working directory is loaded first if
// present; variables already set in the process environment win.
func Load(path string) (*Config, error) {
	cfg := Default()

	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if err := cfg.loadFile(path, explicit); err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "load %s", path)
	}
	return nil
}

func (c *Config) loadFile(path string, required bool) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if required {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return nil
	}
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// ApplyEnv overlays BLOCKGEN_* environment variables onto c.
func (c *Config) ApplyEnv() error {
	setString(&c.Language, "LANGUAGE")
	setString(&c.Indent, "INDENT")
	if err := setBool(&c.StableNames, "STABLE_NAMES"); err != nil {
		return err
	}
	if v, ok := lookup("RESERVED_WORDS"); ok {
		c.ReservedWords = splitList(v)
	}

	setString(&c.Cache.Backend, "CACHE_BACKEND")
	setString(&c.Cache.TTL, "CACHE_TTL")
	setString(&c.Cache.Dir, "CACHE_DIR")
	setString(&c.Cache.Prefix, "CACHE_PREFIX")

	setString(&c.Redis.Addr, "REDIS_ADDR")
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	if err := setInt(&c.Redis.DB, "REDIS_DB"); err != nil {
		return err
	}

	setString(&c.Mongo.URI, "MONGO_URI")
	setString(&c.Mongo.Database, "MONGO_DATABASE")
	setString(&c.Mongo.Collection, "MONGO_COLLECTION")

	setString(&c.Server.Addr, "SERVER_ADDR")
	return nil
}

func lookup(name string) (string, bool) {
	return os.LookupEnv(EnvPrefix + name)
}

func setString(dst *string, name string) {
	if v, ok := lookup(name); ok {
		*dst = v
	}
}

func setBool(dst *bool, name string) error {
	v, ok := lookup(name)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s%s", EnvPrefix, name)
	}
	*dst = b
	return nil
}

func setInt(dst *int, name string) error {
	v, ok := lookup(name)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s%s", EnvPrefix, name)
	}
	*dst = n
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, w := range strings.Split(s, ",") {
		if w = strings.TrimSpace(w); w != "" {
			out = append(out, w)
		}
	}
	return out
}

// CacheTTL returns the parsed cache TTL, or zero when unset.
func (c *Config) CacheTTL() time.Duration {
	d, _ := time.ParseDuration(c.Cache.TTL)
	return d
}

// RedisURL returns the redis:// URL for the Redis settings.
func (c *Config) RedisURL() string {
	u := url.URL{
		Scheme: "redis",
		Host:   c.Redis.Addr,
		Path:   "/" + strconv.Itoa(c.Redis.DB),
	}
	if c.Redis.Password != "" {
		u.User = url.UserPassword("", c.Redis.Password)
	}
	return u.String()
}

// Validate checks every setting.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid configuration")
	}
	switch c.Cache.Backend {
	case BackendRedis:
		if c.Redis.Addr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache backend redis requires redis.addr")
		}
	case BackendMongo:
		if c.Mongo.URI == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache backend mongo requires mongo.uri")
		}
	}
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	mustRegister(v, "language", func(fl validator.FieldLevel) bool {
		return languages.Find(fl.Field().String()) != nil
	})
	mustRegister(v, "blank", func(fl validator.FieldLevel) bool {
		return strings.Trim(fl.Field().String(), " \t") == ""
	})
	mustRegister(v, "duration", func(fl validator.FieldLevel) bool {
		d, err := time.ParseDuration(fl.Field().String())
		return err == nil && d > 0
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}
