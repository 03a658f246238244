// Package config loads izzi settings from TOML files.
//
// A file only needs the keys it changes; everything else keeps the values
// of [Default]. Struct tags drive validation, and the typed accessors
// convert each section into the value the engine or a collaborator
// consumes.
//
//	[radius]
//	base = 120
//	spacing = 10
//
//	[range]
//	min = 10
//	max = 350
//	direction = "cw"
//	zero = "north"
//
//	[collision]
//	avoidance = "orbit"
//	weighting = "value"
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/bdekoz/izzi/pkg/errors"
	"github.com/bdekoz/izzi/pkg/radial"
	"github.com/bdekoz/izzi/pkg/radial/angular"
	"github.com/bdekoz/izzi/pkg/radial/splay"
	"github.com/bdekoz/izzi/pkg/typography"
)

// validate is a singleton validator instance.
var validate = validator.New()

// Config is the full configuration file.
type Config struct {
	Radius     Radius     `toml:"radius" json:"radius"`
	Range      Range      `toml:"range" json:"range"`
	Collision  Collision  `toml:"collision" json:"collision"`
	Typography Typography `toml:"typography" json:"typography"`
	Render     Render     `toml:"render" json:"render"`
	Cache      Cache      `toml:"cache" json:"cache"`
	Server     Server     `toml:"server" json:"server"`
}

type Radius struct {
	Base                 float64 `toml:"base" json:"base" validate:"gt=0"`
	Spacing              float64 `toml:"spacing" json:"spacing" validate:"gte=0"`
	MinRingSize          float64 `toml:"min_ring_size" json:"min_ring_size" validate:"gte=0"`
	MaxRingSize          float64 `toml:"max_ring_size" json:"max_ring_size" validate:"gte=0"`
	MinSatelliteDistance float64 `toml:"min_satellite_distance" json:"min_satellite_distance" validate:"gte=0"`
	StartLenMultiple     float64 `toml:"start_len_multiple" json:"start_len_multiple" validate:"gte=0"`
}

type Range struct {
	Min       float64 `toml:"min" json:"min" validate:"gte=0,ltfield=Max"`
	Max       float64 `toml:"max" json:"max" validate:"lte=360"`
	Direction string  `toml:"direction" json:"direction" validate:"omitempty,oneof=cw ccw clockwise counter-clockwise"`
	Zero      string  `toml:"zero" json:"zero"`
}

type Collision struct {
	Avoidance string  `toml:"avoidance" json:"avoidance" validate:"omitempty,oneof=off orbit"`
	Weighting string  `toml:"weighting" json:"weighting" validate:"omitempty,oneof=fixed value"`
	Threshold float64 `toml:"threshold" json:"threshold" validate:"gte=0"`
	SkipDecay float64 `toml:"skip_decay" json:"skip_decay" validate:"gte=0"`
}

type Typography struct {
	FontSize    float64 `toml:"font_size" json:"font_size" validate:"gt=0"`
	Estimator   string  `toml:"estimator" json:"estimator" validate:"oneof=heuristic face"`
	FontFile    string  `toml:"font_file" json:"font_file,omitempty"`
	WidthRatio  float64 `toml:"width_ratio" json:"width_ratio" validate:"gt=0"`
	HeightRatio float64 `toml:"height_ratio" json:"height_ratio" validate:"gt=0"`
}

type Render struct {
	Style        string   `toml:"style" json:"style" validate:"oneof=simple outline"`
	Formats      []string `toml:"formats" json:"formats" validate:"min=1,dive,oneof=svg json png pdf"`
	Margin       float64  `toml:"margin" json:"margin" validate:"gte=0"`
	Title        string   `toml:"title" json:"title,omitempty"`
	ShowValues   bool     `toml:"show_values" json:"show_values"`
	DirectionArc bool     `toml:"direction_arc" json:"direction_arc"`
}

type Cache struct {
	Backend   string `toml:"backend" json:"backend" validate:"oneof=none file redis"`
	Dir       string `toml:"dir" json:"dir,omitempty"`
	RedisAddr string `toml:"redis_addr" json:"redis_addr,omitempty" validate:"required_if=Backend redis"`
	TTL       string `toml:"ttl" json:"ttl"`
}

type Server struct {
	Addr         string `toml:"addr" json:"addr" validate:"required"`
	ReadTimeout  string `toml:"read_timeout" json:"read_timeout"`
	WriteTimeout string `toml:"write_timeout" json:"write_timeout"`
	MaxBodyBytes int64  `toml:"max_body_bytes" json:"max_body_bytes" validate:"gt=0"`
}

// Default returns the stock configuration.
func Default() *Config {
	r := splay.DefaultRadius(120)
	return &Config{
		Radius: Radius{
			Base:                 r.BaseRadius,
			Spacing:              r.Spacing,
			MinRingSize:          r.MinRingSize,
			MaxRingSize:          r.MaxRingSize,
			MinSatelliteDistance: r.MinSatelliteDistance,
			StartLenMultiple:     r.StartLenMultiple,
		},
		Range:      Range{Min: 10, Max: 350, Direction: "cw", Zero: "north"},
		Collision:  Collision{Avoidance: "orbit", Weighting: "fixed"},
		Typography: Typography{FontSize: typography.DefaultFontSize, Estimator: "heuristic", WidthRatio: 0.55, HeightRatio: 1},
		Render:     Render{Style: "simple", Formats: []string{"svg"}, Margin: 40, ShowValues: true, DirectionArc: true},
		Cache:      Cache{Backend: "file", TTL: "24h"},
		Server:     Server{Addr: ":8080", ReadTimeout: "10s", WriteTimeout: "30s", MaxBodyBytes: 4 << 20},
	}
}

// Load reads path on top of the defaults and validates the result.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open config %s", path)
	}
	defer f.Close()
	return Read(f)
}

// Read decodes TOML from r on top of the defaults. Unknown keys are
// rejected so typos do not pass silently.
func Read(r io.Reader) (*Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	out := *c
	out.Render.Formats = append([]string(nil), c.Render.Formats...)
	return &out
}

// Overlay decodes the JSON object data on top of a copy of c and validates
// the result. Only the keys present in data change; unknown keys are
// rejected.
func (c *Config) Overlay(data []byte) (*Config, error) {
	out := c.Clone()
	if len(bytes.TrimSpace(data)) == 0 {
		return out, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// Encode writes cfg as TOML.
func (c *Config) Encode(w io.Writer) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}

// Validate checks tags, then the values the tags cannot express.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	if _, err := c.AngularRange(); err != nil {
		return err
	}
	for name, d := range map[string]string{
		"cache.ttl":            c.Cache.TTL,
		"server.read_timeout":  c.Server.ReadTimeout,
		"server.write_timeout": c.Server.WriteTimeout,
	} {
		if d == "" {
			continue
		}
		if _, err := time.ParseDuration(d); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", name)
		}
	}
	return nil
}

// RadiusConfig converts the [radius] section.
func (c *Config) RadiusConfig() radial.RadiusConfig {
	return radial.RadiusConfig{
		BaseRadius:           c.Radius.Base,
		Spacing:              c.Radius.Spacing,
		MinRingSize:          c.Radius.MinRingSize,
		MaxRingSize:          c.Radius.MaxRingSize,
		MinSatelliteDistance: c.Radius.MinSatelliteDistance,
		StartLenMultiple:     c.Radius.StartLenMultiple,
	}
}

// AngularRange converts the [range] section.
func (c *Config) AngularRange() (angular.Range, error) {
	dir, err := angular.ParseDirection(c.Range.Direction)
	if err != nil {
		return angular.Range{}, err
	}
	zero, err := angular.ParseBearing(c.Range.Zero)
	if err != nil {
		return angular.Range{}, err
	}
	rng := angular.Range{Min: c.Range.Min, Max: c.Range.Max, Direction: dir, Zero: zero}
	return rng, rng.Validate()
}

// CollisionConfig converts the [collision] section.
func (c *Config) CollisionConfig() (radial.CollisionConfig, error) {
	avoid, err := radial.ParseAvoidance(c.Collision.Avoidance)
	if err != nil {
		return radial.CollisionConfig{}, err
	}
	weighting, err := splay.ParseWeighting(c.Collision.Weighting)
	if err != nil {
		return radial.CollisionConfig{}, err
	}
	return radial.CollisionConfig{
		Avoidance: avoid,
		Weighting: weighting,
		Threshold: c.Collision.Threshold,
		SkipDecay: c.Collision.SkipDecay,
	}, nil
}

// Estimator builds the configured character-size estimator.
func (c *Config) Estimator() (typography.Estimator, error) {
	if c.Typography.Estimator != "face" {
		return typography.Heuristic{WidthRatio: c.Typography.WidthRatio, HeightRatio: c.Typography.HeightRatio}, nil
	}
	if c.Typography.FontFile == "" {
		return typography.NewFaceEstimator(nil)
	}
	data, err := os.ReadFile(c.Typography.FontFile)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "font file %s", c.Typography.FontFile)
	}
	est, err := typography.ParseFaceEstimator(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse font %s", c.Typography.FontFile)
	}
	return est, nil
}

// CacheTTL returns the parsed cache lifetime, or 0 when unset.
func (c *Config) CacheTTL() time.Duration {
	d, _ := time.ParseDuration(c.Cache.TTL)
	return d
}

// Timeouts returns the parsed server read and write timeouts.
func (c *Config) Timeouts() (read, write time.Duration) {
	read, _ = time.ParseDuration(c.Server.ReadTimeout)
	write, _ = time.ParseDuration(c.Server.WriteTimeout)
	return read, write
}

func formatValidationError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrs) == 0 {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "validate config")
	}

	// Report the first failure only.
	e := validationErrs[0]
	field := strings.TrimPrefix(e.Namespace(), "Config.")
	var msg string
	switch e.Tag() {
	case "required", "required_if":
		msg = "field is required"
	case "gt":
		msg = fmt.Sprintf("must be greater than %s", e.Param())
	case "gte":
		msg = fmt.Sprintf("must be at least %s", e.Param())
	case "lte":
		msg = fmt.Sprintf("must not exceed %s", e.Param())
	case "ltfield":
		msg = fmt.Sprintf("must be less than %s", e.Param())
	case "oneof":
		msg = fmt.Sprintf("must be one of: %s", e.Param())
	case "min":
		msg = fmt.Sprintf("must have at least %s entries", e.Param())
	default:
		msg = fmt.Sprintf("validation failed (%s)", e.Tag())
	}
	return errors.New(errors.ErrCodeInvalidConfig, "%s: %s", field, msg)
}
