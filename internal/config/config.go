package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/headsup_bot/internal/model"
	"github.com/Freeeeeet/headsup_bot/internal/validation"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	// HeadsUpTopic значение в карте топиков для топика с heads-up
	HeadsUpTopic = "Heads Up"
)

type Config struct {
	TelegramToken string `mapstructure:"TELEGRAM_TOKEN" validate:"required"`
	DBDSN         string `mapstructure:"DB_DSN" validate:"required"`
	Environment   string `mapstructure:"ENV" validate:"oneof=development production"`
	HTTPAddr      string `mapstructure:"HTTP_ADDR" validate:"required"`
	Timezone      string `mapstructure:"TIMEZONE" validate:"required"`

	HeadsUpWindow time.Duration `mapstructure:"HEADSUP_WINDOW" validate:"gt=0"`

	LLM   LLMConfig
	State StateConfig

	Schools []model.School `validate:"min=1,dive"`
	// Topics message_thread_id -> код группы или HeadsUpTopic
	Topics map[int]string `validate:"min=1"`
}

type LLMConfig struct {
	Provider string        `mapstructure:"LLM_PROVIDER" validate:"oneof=openai gemini"`
	APIKey   string        `mapstructure:"LLM_API_KEY"`
	Model    string        `mapstructure:"LLM_MODEL"`
	BaseURL  string        `mapstructure:"LLM_BASE_URL" validate:"omitempty,url"`
	Timeout  time.Duration `mapstructure:"LLM_TIMEOUT" validate:"gt=0"`
}

type StateConfig struct {
	Backend       string        `mapstructure:"STATE_BACKEND" validate:"oneof=memory redis"`
	TTL           time.Duration `mapstructure:"STATE_TTL" validate:"gt=0"`
	RedisAddr     string        `mapstructure:"REDIS_ADDR" validate:"required_if=Backend redis"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB" validate:"gte=0"`
}

// Load читает .env, переменные окружения и необязательный YAML с картами школ и топиков
func Load() (*Config, error) {
	// Файла .env может не быть, тогда используем переменные окружения
	_ = godotenv.Load(".env")

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	if path := v.GetString("CONFIG_FILE"); path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config file %s: %w", path, err)
			}
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		TelegramToken: v.GetString("TELEGRAM_TOKEN"),
		DBDSN:         v.GetString("DB_DSN"),
		Environment:   v.GetString("ENV"),
		HTTPAddr:      v.GetString("HTTP_ADDR"),
		Timezone:      v.GetString("TIMEZONE"),
		HeadsUpWindow: v.GetDuration("HEADSUP_WINDOW"),
		LLM: LLMConfig{
			Provider: v.GetString("LLM_PROVIDER"),
			APIKey:   v.GetString("LLM_API_KEY"),
			Model:    v.GetString("LLM_MODEL"),
			BaseURL:  v.GetString("LLM_BASE_URL"),
			Timeout:  v.GetDuration("LLM_TIMEOUT"),
		},
		State: StateConfig{
			Backend:       v.GetString("STATE_BACKEND"),
			TTL:           v.GetDuration("STATE_TTL"),
			RedisAddr:     v.GetString("REDIS_ADDR"),
			RedisPassword: v.GetString("REDIS_PASSWORD"),
			RedisDB:       v.GetInt("REDIS_DB"),
		},
	}

	if err := v.UnmarshalKey("schools", &cfg.Schools); err != nil {
		return nil, fmt.Errorf("decode schools: %w", err)
	}

	topics, err := parseTopics(v.GetStringMapString("topics"))
	if err != nil {
		return nil, err
	}
	cfg.Topics = topics

	if err := validation.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %s", validation.Describe(err))
	}
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("CONFIG_FILE", "config.yaml")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("TIMEZONE", "Africa/Addis_Ababa")
	v.SetDefault("HEADSUP_WINDOW", 10*time.Minute)

	v.SetDefault("LLM_PROVIDER", "openai")
	v.SetDefault("LLM_TIMEOUT", 20*time.Second)

	v.SetDefault("STATE_BACKEND", "memory")
	v.SetDefault("STATE_TTL", 15*time.Minute)
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("schools", []map[string]any{
		{"name": "AIT", "groups": []string{"G61", "G62", "G63", "G64"}},
		{"name": "AASTU", "groups": []string{"G65", "G66", "G67"}},
		{"name": "ASTU", "groups": []string{"G68", "G69"}},
	})
	v.SetDefault("topics", map[string]string{
		"281":  "G61",
		"1010": "G62",
		"1015": "G63",
		"1021": "G64",
		"1048": "G65",
		"1057": "G66",
		"1080": "G67",
		"518":  "G68",
		"255":  "G69",
		"359":  HeadsUpTopic,
	})
}

func parseTopics(raw map[string]string) (map[int]string, error) {
	topics := make(map[int]string, len(raw))
	for k, val := range raw {
		id, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("topic id %q is not a number", k)
		}
		topics[id] = val
	}
	return topics, nil
}

// Location часовой пояс, в котором считается учебный день
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", c.Timezone, err)
	}
	return loc, nil
}

// Groups все группы всех школ по порядку
func (c *Config) Groups() []string {
	var groups []string
	for _, s := range c.Schools {
		groups = append(groups, s.Groups...)
	}
	return groups
}

// HeadsUpThreadIDs топики, в которых принимаются heads-up
func (c *Config) HeadsUpThreadIDs() []int {
	var ids []int
	for id, name := range c.Topics {
		if strings.EqualFold(name, HeadsUpTopic) {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}

func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}
