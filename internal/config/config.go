package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override (RIFT_PARTY_RANGE, RIFT_DB_HOST...).
const EnvPrefix = "RIFT_"

// Storage backends for the dimensional_rift table.
const (
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
)

// Ошибки валидации конфигурации.
var (
	ErrInvalidPartySize   = errors.New("min party size must be positive")
	ErrInvalidJumpWindow  = errors.New("auto jumps time window is invalid")
	ErrInvalidCost        = errors.New("rift cost must be positive")
	ErrInvalidMultiplier  = errors.New("boss room time multiplier must be positive")
	ErrUnknownStorage     = errors.New("unknown storage backend")
	ErrNegativeRiftPeriod = errors.New("rift delays must not be negative")
)

// Rift holds all configuration for the dimensional rift daemon.
type Rift struct {
	LogLevel     string `yaml:"log_level" env:"LOG_LEVEL"`
	DatapackRoot string `yaml:"datapack_root" env:"DATAPACK_ROOT"`
	HTMLDir      string `yaml:"html_dir" env:"HTML_DIR"`

	// Storage
	Storage    string         `yaml:"storage" env:"STORAGE"`
	SQLitePath string         `yaml:"sqlite_path" env:"SQLITE_PATH"`
	Database   DatabaseConfig `yaml:"database" envPrefix:"DB_"`

	// Messaging
	NATSURL string `yaml:"nats_url" env:"NATS_URL"`

	// Skills
	PartyRange int32 `yaml:"party_range" env:"PARTY_RANGE"`

	// Rift
	MinPartySize         int           `yaml:"min_party_size" env:"MIN_PARTY_SIZE"`
	Costs                Costs         `yaml:"costs" envPrefix:"COST_"`
	TeleportInDelay      time.Duration `yaml:"teleport_in_delay" env:"TELEPORT_IN_DELAY"`
	SpawnDelay           time.Duration `yaml:"spawn_delay" env:"SPAWN_DELAY"`
	SpawnRefreshInterval time.Duration `yaml:"spawn_refresh_interval" env:"SPAWN_REFRESH_INTERVAL"`
	AutoJumpsTimeMin     time.Duration `yaml:"auto_jumps_time_min" env:"AUTO_JUMPS_TIME_MIN"`
	AutoJumpsTimeMax     time.Duration `yaml:"auto_jumps_time_max" env:"AUTO_JUMPS_TIME_MAX"`
	BossRoomTimeMultiply float64       `yaml:"boss_room_time_multiply" env:"BOSS_ROOM_TIME_MULTIPLY"`
	DrainDelay           time.Duration `yaml:"drain_delay" env:"DRAIN_DELAY"`
}

// Costs: стоимость входа в Dimensional Fragments по уровням рифта.
type Costs struct {
	Recruit   int64 `yaml:"recruit" env:"RECRUIT"`
	Soldier   int64 `yaml:"soldier" env:"SOLDIER"`
	Officer   int64 `yaml:"officer" env:"OFFICER"`
	Captain   int64 `yaml:"captain" env:"CAPTAIN"`
	Commander int64 `yaml:"commander" env:"COMMANDER"`
	Hero      int64 `yaml:"hero" env:"HERO"`
}

// ForTier returns the entry cost of tier 1..6 (recruit..hero).
func (c Costs) ForTier(tier uint8) (int64, bool) {
	switch tier {
	case 1:
		return c.Recruit, true
	case 2:
		return c.Soldier, true
	case 3:
		return c.Officer, true
	case 4:
		return c.Captain, true
	case 5:
		return c.Commander, true
	case 6:
		return c.Hero, true
	default:
		return 0, false
	}
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host" env:"HOST"`
	Port     int    `yaml:"port" env:"PORT"`
	User     string `yaml:"user" env:"USER"`
	Password string `yaml:"password" env:"PASSWORD"`
	DBName   string `yaml:"dbname" env:"NAME"`
	SSLMode  string `yaml:"sslmode" env:"SSLMODE"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// DefaultRift returns Rift config with sensible defaults.
func DefaultRift() Rift {
	return Rift{
		LogLevel:     "info",
		DatapackRoot: "./dist/game",
		HTMLDir:      "./dist/game/data/html",
		Storage:      StoragePostgres,
		SQLitePath:   "./dist/rift.db",
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "la2go",
			Password: "la2go",
			DBName:   "la2go",
			SSLMode:  "disable",
		},
		NATSURL:      "nats://127.0.0.1:4222",
		PartyRange:   900,
		MinPartySize: 2,
		Costs: Costs{
			Recruit:   18,
			Soldier:   21,
			Officer:   24,
			Captain:   27,
			Commander: 30,
			Hero:      35,
		},
		TeleportInDelay:      3 * time.Second,
		SpawnDelay:           10 * time.Second,
		SpawnRefreshInterval: 30 * time.Second,
		AutoJumpsTimeMin:     480 * time.Second,
		AutoJumpsTimeMax:     600 * time.Second,
		BossRoomTimeMultiply: 1.5,
		DrainDelay:           5 * time.Second,
	}
}

// SpawnFile returns the path of the rift spawn XML inside the datapack.
func (c Rift) SpawnFile() string {
	return filepath.Join(c.DatapackRoot, "data", "dimensionalRift.xml")
}

// Validate checks value ranges that the loaders cannot express.
func (c Rift) Validate() error {
	if c.MinPartySize <= 0 {
		return ErrInvalidPartySize
	}
	if c.AutoJumpsTimeMin <= 0 || c.AutoJumpsTimeMax < c.AutoJumpsTimeMin {
		return fmt.Errorf("%w: min=%s max=%s", ErrInvalidJumpWindow, c.AutoJumpsTimeMin, c.AutoJumpsTimeMax)
	}
	for tier := uint8(1); tier <= 6; tier++ {
		if cost, _ := c.Costs.ForTier(tier); cost <= 0 {
			return fmt.Errorf("%w: tier %d", ErrInvalidCost, tier)
		}
	}
	if c.BossRoomTimeMultiply <= 0 {
		return ErrInvalidMultiplier
	}
	if c.TeleportInDelay < 0 || c.SpawnDelay < 0 || c.SpawnRefreshInterval <= 0 || c.DrainDelay < 0 {
		return ErrNegativeRiftPeriod
	}
	switch c.Storage {
	case StoragePostgres, StorageSQLite:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStorage, c.Storage)
	}
	return nil
}

// LoadRift loads rift config from a YAML file and applies RIFT_* environment overrides.
// If the file doesn't exist, defaults are used.
func LoadRift(path string) (Rift, error) {
	cfg := DefaultRift()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}
	return cfg, nil
}
