// Package config loads settings from config.yaml, a .env file and ECOQUEST_* environment
// variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvPrefix = "ECOQUEST"

// Config holds every setting the CLI, board and API read.
type Config struct {
	Env         string        `mapstructure:"env"`
	DBPath      string        `mapstructure:"db_path"`
	BackupURL   string        `mapstructure:"backup_url"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
	ListenAddr  string        `mapstructure:"listen_addr"`
	UserAgent   string        `mapstructure:"user_agent"`
	Mode        string        `mapstructure:"mode"`
	DefaultLat  float64       `mapstructure:"default_lat"`
	DefaultLon  float64       `mapstructure:"default_lon"`
	Geo         GeoConfig     `mapstructure:"geo"`
	WeatherURL  string        `mapstructure:"weather_url"`
}

// GeoConfig points the geocoder at its providers.
type GeoConfig struct {
	BigDataCloudURL string `mapstructure:"bigdatacloud_url"`
	NominatimURL    string `mapstructure:"nominatim_url"`
	PhotonURL       string `mapstructure:"photon_url"`
	Language        string `mapstructure:"language"`
}

// Load reads configuration. configFile may be empty, in which case config.yaml is looked
// up in ".", "./config" and "$HOME/.ecoquest"; a missing file is not an error.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.ecoquest")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")
	v.SetDefault("db_path", "")
	v.SetDefault("backup_url", "")
	v.SetDefault("http_timeout", 10*time.Second)
	v.SetDefault("listen_addr", "127.0.0.1:8787")
	v.SetDefault("user_agent", "ecoquest/0.1 (+https://github.com/ecoquest)")
	v.SetDefault("mode", "outdoor")
	v.SetDefault("default_lat", 37.5665)
	v.SetDefault("default_lon", 126.9780)
	v.SetDefault("geo.bigdatacloud_url", "https://api.bigdatacloud.net/data/reverse-geocode-client")
	v.SetDefault("geo.nominatim_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("geo.photon_url", "https://photon.komoot.io/api/")
	v.SetDefault("geo.language", "ko")
	v.SetDefault("weather_url", "https://api.open-meteo.com/v1/forecast")
}
