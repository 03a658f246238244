// Package cache stores computed layouts and rendered artifacts.
//
// Three backends implement [Cache]:
//
//   - [FileCache]: JSON entry files under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP server and batch runs
//   - [NullCache]: stores nothing, used when caching is disabled
//
// Keys come from a [Keyer]. The default keyer hashes the content hash of
// the input together with every option that changes the output, so a
// changed radius or font size never returns a stale layout.
package cache

import (
	"context"
	"time"

	"github.com/bdekoz/izzi/pkg/geom"
	"github.com/bdekoz/izzi/pkg/radial"
	"github.com/bdekoz/izzi/pkg/radial/angular"
	"github.com/bdekoz/izzi/pkg/renderstate"
)

// Cache is a byte store with per-entry expiry. Implementations must be
// safe for concurrent use.
type Cache interface {
	// Get returns the entry for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default entry lifetimes.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Keyer derives cache keys.
type Keyer interface {
	LayoutKey(dataHash string, opts LayoutKeyOpts) string
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts lists every input besides the data that shapes a layout.
type LayoutKeyOpts struct {
	ValueMax  float64                `json:"value_max"`
	Range     angular.Range          `json:"range"`
	Radius    radial.RadiusConfig    `json:"radius"`
	Collision radial.CollisionConfig `json:"collision"`
	FontSize  float64                `json:"font_size"`
	Estimator string                 `json:"estimator"`
	Origin    geom.Point             `json:"origin"`
	States    *renderstate.Table     `json:"states,omitempty"`
}

// ArtifactKeyOpts lists every render option that changes an artifact.
type ArtifactKeyOpts struct {
	Format       string  `json:"format"`
	Style        string  `json:"style"`
	Title        string  `json:"title,omitempty"`
	Margin       float64 `json:"margin"`
	ShowValues   bool    `json:"show_values"`
	DirectionArc bool    `json:"direction_arc"`
	Assets       string  `json:"assets,omitempty"`
	Scale        float64 `json:"scale,omitempty"`
}

// DefaultKeyer hashes the inputs into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns "layout:<sha256>".
func (DefaultKeyer) LayoutKey(dataHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", dataHash, opts)
}

// ArtifactKey returns "artifact:<format>:<sha256>".
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+opts.Format, layoutHash, opts)
}
