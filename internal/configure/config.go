package configure

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rm-hull/inteliver/internal/face"
	"github.com/rm-hull/inteliver/internal/imaging"
	"github.com/rm-hull/inteliver/internal/source"
	"github.com/rm-hull/inteliver/internal/tenant"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "INTELIVER"

type Config struct {
	Level      string `mapstructure:"level" json:"level" validate:"oneof=debug info warn error"`
	ConfigFile string `mapstructure:"config" json:"config"`

	Server struct {
		Port     int    `mapstructure:"port" json:"port" validate:"min=1,max=65535"`
		Debug    bool   `mapstructure:"debug" json:"debug"`
		BasePath string `mapstructure:"base_path" json:"base_path" validate:"startswith=/"`
	} `mapstructure:"server" json:"server"`

	S3 struct {
		Region         string `mapstructure:"region" json:"region"`
		Endpoint       string `mapstructure:"endpoint" json:"endpoint" validate:"omitempty,url"`
		AccessKey      string `mapstructure:"access_key" json:"access_key"`
		SecretKey      string `mapstructure:"secret_key" json:"secret_key" validate:"required_with=AccessKey"`
		ForcePathStyle bool   `mapstructure:"force_path_style" json:"force_path_style"`
	} `mapstructure:"s3" json:"s3"`

	HTTP struct {
		TimeoutSeconds int   `mapstructure:"timeout_seconds" json:"timeout_seconds" validate:"min=1"`
		MaxBytes       int64 `mapstructure:"max_bytes" json:"max_bytes" validate:"min=1"`
	} `mapstructure:"http" json:"http"`

	Face struct {
		Disabled    bool    `mapstructure:"disabled" json:"disabled"`
		CascadeFile string  `mapstructure:"cascade_file" json:"cascade_file"`
		MinSize     int     `mapstructure:"min_size" json:"min_size" validate:"min=1"`
		MaxSize     int     `mapstructure:"max_size" json:"max_size" validate:"gtefield=MinSize"`
		Threshold   float64 `mapstructure:"threshold" json:"threshold" validate:"min=0"`
	} `mapstructure:"face" json:"face"`

	Image struct {
		MaxSide   int `mapstructure:"max_side" json:"max_side" validate:"min=1,max=16384"`
		MaxPixels int `mapstructure:"max_pixels" json:"max_pixels" validate:"min=1"`
	} `mapstructure:"image" json:"image"`

	Health struct {
		ProbeSeconds int `mapstructure:"probe_seconds" json:"probe_seconds" validate:"min=1"`
	} `mapstructure:"health" json:"health"`

	Tenants []tenant.Tenant `mapstructure:"tenants" json:"tenants" validate:"dive"`

	Monitoring struct {
		Labels Labels `mapstructure:"labels" json:"labels"`
	} `mapstructure:"monitoring" json:"monitoring"`
}

type Labels []struct {
	Key   string `mapstructure:"key" json:"key"`
	Value string `mapstructure:"value" json:"value"`
}

func (l Labels) ToPrometheus() prometheus.Labels {
	mp := prometheus.Labels{}

	for _, v := range l {
		mp[v.Key] = v.Value
	}

	return mp
}

func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

func (c *Config) ProbeInterval() time.Duration {
	return time.Duration(c.Health.ProbeSeconds) * time.Second
}

func (c *Config) FaceOptions() face.Options {
	opts := face.DefaultOptions
	opts.MinSize = c.Face.MinSize
	opts.MaxSize = c.Face.MaxSize
	opts.Threshold = float32(c.Face.Threshold)
	return opts
}

func (c *Config) ImageLimits() imaging.Limits {
	return imaging.Limits{MaxSide: c.Image.MaxSide, MaxPixels: c.Image.MaxPixels}
}

func (c *Config) S3Options() source.S3Options {
	return source.S3Options{
		Region:         c.S3.Region,
		Endpoint:       c.S3.Endpoint,
		AccessKey:      c.S3.AccessKey,
		SecretKey:      c.S3.SecretKey,
		ForcePathStyle: c.S3.ForcePathStyle,
	}
}

func defaults() Config {
	c := Config{
		Level:      "info",
		ConfigFile: "config.yaml",
	}
	c.Server.Port = 8080
	c.Server.BasePath = "/v1"
	c.S3.Region = "us-east-1"
	c.HTTP.TimeoutSeconds = 10
	c.HTTP.MaxBytes = 20 << 20
	c.Face.MinSize = face.DefaultOptions.MinSize
	c.Face.MaxSize = face.DefaultOptions.MaxSize
	c.Face.Threshold = float64(face.DefaultOptions.Threshold)
	c.Image.MaxSide = imaging.DefaultLimits.MaxSide
	c.Image.MaxPixels = imaging.DefaultLimits.MaxPixels
	c.Health.ProbeSeconds = 30
	return c
}

// flagKeys maps command line flags onto config keys.
var flagKeys = map[string]string{
	"config": "config",
	"level":  "level",
	"port":   "server.port",
	"debug":  "server.debug",
}

// New layers defaults, the config file, flags and INTELIVER_* environment
// variables, in increasing order of precedence, then validates the result.
func New(flags *pflag.FlagSet) (*Config, error) {
	config := viper.New()

	// Default config
	b, err := json.Marshal(defaults())
	if err != nil {
		return nil, err
	}
	tmp := viper.New()
	tmp.SetConfigType("json")
	if err := tmp.ReadConfig(bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	if err := config.MergeConfigMap(tmp.AllSettings()); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := config.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	// Environment
	config.SetEnvPrefix(envPrefix)
	config.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	config.AllowEmptyEnv(true)
	config.AutomaticEnv()
	bindEnvs(config, Config{})

	// File
	if file := config.GetString("config"); file != "" {
		config.SetConfigFile(file)
		if err := config.MergeInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
			}
		}
	}

	c := &Config{}
	if err := config.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := validator.New().Struct(c); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}

func bindEnvs(config *viper.Viper, iface interface{}, parts ...string) {
	ifv := reflect.ValueOf(iface)
	ift := reflect.TypeOf(iface)
	for i := 0; i < ift.NumField(); i++ {
		v := ifv.Field(i)
		t := ift.Field(i)
		tv, ok := t.Tag.Lookup("mapstructure")
		if !ok {
			continue
		}
		switch v.Kind() {
		case reflect.Struct:
			bindEnvs(config, v.Interface(), append(parts, tv)...)
		case reflect.Slice:
			// lists only come from the config file
		default:
			_ = config.BindEnv(strings.Join(append(parts, tv), "."))
		}
	}
}
