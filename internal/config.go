package internal

import (
	"fmt"
	"secret-santa/domain"
	"strconv"
	"strings"
	"time"

	"github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

var validate = validator.New()

type Config struct {
	BadgerFilepath    string        `env:"BADGER_FILEPATH,required=true" validate:"required"`
	LogLevel          string        `env:"LOG_LEVEL,default=INFO" validate:"oneof=DEBUG INFO WARN ERROR debug info warn error"`
	NumberOfWorkers   int           `env:"NUMBER_OF_WORKERS,default=4" validate:"min=1,max=256"`
	BufferSize        int           `env:"BUFFER_SIZE,default=128" validate:"min=0"`
	SinkTimeout       time.Duration `env:"SINK_TIMEOUT,default=5s" validate:"gt=0"`
	RestartInterval   time.Duration `env:"RESTART_INTERVAL,default=200ms" validate:"gt=0"`
	Host              string        `env:"HOST,default=localhost" validate:"required"`
	Port              int           `env:"PORT,default=8080" validate:"min=1,max=65535"`
	AdminIDs          string        `env:"ADMIN_IDS"`
	CityA             string        `env:"CITY_A,required=true" validate:"required"`
	CityB             string        `env:"CITY_B,required=true" validate:"required,nefield=CityA"`
	CharReplacement   string        `env:"CHARACTER_REPLACEMENT,default=*"`
	ModerationEnabled bool          `env:"MODERATION_ENABLED,default=true"`
}

// LoadConfig reads an optional .env file, then the environment.
func LoadConfig(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && len(files) > 0 {
		return Config{}, fmt.Errorf("env file: %w", err)
	}
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := validate.Struct(c.Cities()); err != nil {
		return fmt.Errorf("invalid cities: %w", err)
	}
	if _, err := CharacterRune(c.CharReplacement); err != nil {
		return err
	}
	if _, err := c.Admins(); err != nil {
		return err
	}
	return nil
}

func (c Config) Cities() domain.CityGroups {
	return domain.CityGroups{A: domain.City(c.CityA), B: domain.City(c.CityB)}
}

// Admins parses the comma-separated allow-list.
func (c Config) Admins() ([]domain.ParticipantID, error) {
	var ids []domain.ParticipantID
	for _, raw := range strings.Split(c.AdminIDs, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ADMIN_IDS: %q is not an id", raw)
		}
		ids = append(ids, domain.ParticipantID(id))
	}
	return ids, nil
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
