package config

import (
	"errors"
	"fmt"
	"github.com/spf13/viper"
	"io/fs"
)

const (
	CONFIG_FILE  = "CONFIG_FILE"
	INPUT_FILE   = "INPUT_FILE"
	OUTPUT_FILE  = "OUTPUT_FILE"
	XLSX_FILE    = "XLSX_FILE"
	LAYOUT       = "LAYOUT"
	PARSE_STRICT = "PARSE_STRICT"
	ECHO         = "ECHO"
	RACE_NAME    = "RACE_NAME"
	SHEET_NAME   = "SHEET_NAME"
	HEADER_ROWS  = "HEADER_ROWS"
	LOG_LEVEL    = "LOG_LEVEL"
	LOG_FILE     = "LOG_FILE"
	APP_PORT     = "APP_PORT"
	APP_HOST     = "APP_HOST"
	DB_HOST      = "DB_HOST"
	DB_NAME      = "DB_NAME"
	DB_USERNAME  = "DB_USERNAME"
	DB_PASS      = "DB_PASS"
	DB_PORT      = "DB_PORT"
	DB_MAX_CONNS = "DB_MAX_CONNS"
	DB_MIN_CONNS = "DB_MIN_CONNS"
	JAG_DSN      = "JAG_DSN"

	DEFAULT_CONFIG_FILE = "./configs/.env"
)

type Entity struct {
	App   Application `mapstructure:",squash"`
	Parse Parse       `mapstructure:",squash"`
	Log   Log         `mapstructure:",squash"`
	DB    Database    `mapstructure:",squash"`
	Jag   Jaeger      `mapstructure:",squash"`
}

type Application struct {
	Port string `mapstructure:"APP_PORT"`
	Host string `mapstructure:"APP_HOST"`
}

type Parse struct {
	Input      string `mapstructure:"INPUT_FILE"`
	Output     string `mapstructure:"OUTPUT_FILE"`
	Xlsx       string `mapstructure:"XLSX_FILE"`
	Layout     string `mapstructure:"LAYOUT"`
	Strict     bool   `mapstructure:"PARSE_STRICT"`
	Echo       bool   `mapstructure:"ECHO"`
	Race       string `mapstructure:"RACE_NAME"`
	Sheet      string `mapstructure:"SHEET_NAME"`
	HeaderRows int    `mapstructure:"HEADER_ROWS"`
}

type Log struct {
	Level string `mapstructure:"LOG_LEVEL"`
	File  string `mapstructure:"LOG_FILE"`
}

type Database struct {
	Hostname string `mapstructure:"DB_HOST"`
	Name     string `mapstructure:"DB_NAME"`
	User     string `mapstructure:"DB_USERNAME"`
	Pass     string `mapstructure:"DB_PASS"`
	Port     uint16 `mapstructure:"DB_PORT"`
	MaxConns int32  `mapstructure:"DB_MAX_CONNS"`
	MinConns int32  `mapstructure:"DB_MIN_CONNS"`
}

// Enabled reports whether results should be stored in Postgres at all.
func (d Database) Enabled() bool {
	return d.Hostname != ""
}

type Jaeger struct {
	Dsn string `mapstructure:"JAG_DSN"`
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault(INPUT_FILE, "")
	v.SetDefault(OUTPUT_FILE, "results_events.txt")
	v.SetDefault(XLSX_FILE, "")
	v.SetDefault(LAYOUT, "text")
	v.SetDefault(PARSE_STRICT, false)
	v.SetDefault(ECHO, true)
	v.SetDefault(RACE_NAME, "race")
	v.SetDefault(SHEET_NAME, "")
	v.SetDefault(HEADER_ROWS, 0)
	v.SetDefault(LOG_LEVEL, "info")
	v.SetDefault(LOG_FILE, "./logs/logs.txt")
	v.SetDefault(APP_PORT, "8080")
	v.SetDefault(APP_HOST, "")
	v.SetDefault(DB_HOST, "")
	v.SetDefault(DB_NAME, "races")
	v.SetDefault(DB_USERNAME, "")
	v.SetDefault(DB_PASS, "")
	v.SetDefault(DB_PORT, 5432)
	v.SetDefault(DB_MAX_CONNS, 10)
	v.SetDefault(DB_MIN_CONNS, 1)
	v.SetDefault(JAG_DSN, "")
}

// NewConfig reads defaults, the optional .env file and the environment, in that order of
// precedence from low to high. Flags bound to v win over everything.
func NewConfig(v *viper.Viper) (*Entity, error) {
	SetDefaults(v)

	v.AllowEmptyEnv(false)
	v.AutomaticEnv()

	file := v.GetString(CONFIG_FILE)
	explicit := file != ""
	if !explicit {
		file = DEFAULT_CONFIG_FILE
	}

	v.SetConfigFile(file)
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
		if explicit || !missing {
			return nil, fmt.Errorf("NewConfig failed: %w", err)
		}
		// No file, the environment and flags are enough.
	}

	config := &Entity{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("NewConfig failed: %w", err)
	}

	return config, nil
}
