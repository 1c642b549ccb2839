// Package realaddress returns real, geocodable US street addresses sampled
// at random from a dataset bundled with the package.
//
// The dataset is compiled into the binary, so lookups never depend on the
// caller's working directory:
//
//	addr, ok := realaddress.RandomAddressByState("CA")
//	if ok {
//	    fmt.Println(addr.Address1, addr.City, addr.PostalCode)
//	}
package realaddress

import (
	"bytes"
	"embed"
	"encoding/json"
	"io"
	"io/fs"
	"math/rand/v2"
	"os"
	"strings"
	"sync"

	"github.com/golang/geo/s2"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

//go:embed data/addresses-us-all.min.json
var bundledData embed.FS

// BundledFile is the path of the embedded dataset inside the package.
const BundledFile = "data/addresses-us-all.min.json"

// Coordinates is a WGS84 point in degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// LatLng converts the coordinates to an S2 LatLng.
func (c Coordinates) LatLng() s2.LatLng {
	return s2.LatLngFromDegrees(c.Lat, c.Lng)
}

// Address is one physical mailing address.
type Address struct {
	Address1    string      `json:"address1"` // house number + street
	Address2    string      `json:"address2"` // unit/apartment, often empty
	City        string      `json:"city"`
	State       string      `json:"state"` // two-letter code
	PostalCode  string      `json:"postalCode"`
	Coordinates Coordinates `json:"coordinates"`
}

// IsZero reports whether a is the empty address.
func (a Address) IsZero() bool {
	return a == Address{}
}

// document is the shape WriteDataset emits.
type document struct {
	Addresses []Address `json:"addresses"`
}

// Config contains options for loading a Dataset.
type Config struct {
	File   string      // Dataset file on disk; empty means the embedded file
	Logger *zap.Logger // Diagnostic logger (default: zap.L())
	Rand   *rand.Rand  // Source for sampling (default: math/rand/v2 global)
}

// Option is a functional option for configuring a Dataset.
type Option func(*Config)

// WithFile loads the dataset from a file on disk instead of the embedded copy.
func WithFile(path string) Option {
	return func(c *Config) {
		c.File = path
	}
}

// WithLogger sets the logger used for load diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

// WithRand sets the random source used for sampling. Useful for
// reproducible draws in tests.
func WithRand(r *rand.Rand) Option {
	return func(c *Config) {
		c.Rand = r
	}
}

func defaultConfig() *Config {
	return &Config{}
}

func (c *Config) logger() *zap.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return zap.L()
}

// LoadError reports that the dataset file could not be read or parsed.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return "realaddress: load " + e.Path + ": " + e.Err.Error()
}

func (e *LoadError) Unwrap() error { return e.Err }

// Dataset is an immutable, in-memory collection of addresses.
// Safe for concurrent use.
type Dataset struct {
	addresses []Address

	stateIndex  map[string][]int    // state → address indices
	postalIndex map[string][]int    // postal code → address indices
	cityIndex   map[string][]int    // lowercase city → address indices
	cellIndex   map[s2.CellID][]int // S2 cell → address indices

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewDataset loads the dataset and builds its lookup indices.
// Unlike Load, it reports a *LoadError when the file is missing or corrupt.
func NewDataset(opts ...Option) (*Dataset, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	addrs, err := readAddresses(cfg.File)
	if err != nil {
		return nil, err
	}
	return newDataset(addrs, cfg), nil
}

// Load returns the dataset, degrading to an empty one when the file is
// missing or corrupt. The failure is logged, never returned.
func Load(opts ...Option) *Dataset {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	addrs, err := readAddresses(cfg.File)
	if err != nil {
		cfg.logger().Warn("realaddress: loading addresses failed, using empty dataset", zap.Error(err))
		addrs = nil
	}
	return newDataset(addrs, cfg)
}

// NewDatasetFromAddresses builds a Dataset over addrs. The slice is copied.
func NewDatasetFromAddresses(addrs []Address, opts ...Option) *Dataset {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	cp := make([]Address, len(addrs))
	copy(cp, addrs)
	return newDataset(cp, cfg)
}

func newDataset(addrs []Address, cfg *Config) *Dataset {
	d := &Dataset{addresses: addrs, rng: cfg.Rand}
	d.buildIndices()
	d.buildCellIndex()
	return d
}

// buildIndices creates the exact-match lookup tables. Empty keys are not
// indexed, so an empty filter value never matches.
func (d *Dataset) buildIndices() {
	d.stateIndex = make(map[string][]int)
	d.postalIndex = make(map[string][]int)
	d.cityIndex = make(map[string][]int)
	for i, a := range d.addresses {
		if a.State != "" {
			d.stateIndex[a.State] = append(d.stateIndex[a.State], i)
		}
		if a.PostalCode != "" {
			d.postalIndex[a.PostalCode] = append(d.postalIndex[a.PostalCode], i)
		}
		if a.City != "" {
			key := toLower(a.City)
			d.cityIndex[key] = append(d.cityIndex[key], i)
		}
	}
}

// Len returns the number of addresses in the dataset.
func (d *Dataset) Len() int {
	return len(d.addresses)
}

// Addresses returns a copy of every address in the dataset.
func (d *Dataset) Addresses() []Address {
	cp := make([]Address, len(d.addresses))
	copy(cp, d.addresses)
	return cp
}

// Singleton pattern for the default dataset.
var (
	defaultDataset     *Dataset
	defaultDatasetOnce sync.Once
	defaultDatasetErr  error
)

// GetDefaultDataset returns the shared dataset loaded from the embedded
// file, initializing it on first call. If loading failed the returned
// dataset is empty (never nil) and the error explains why.
func GetDefaultDataset() (*Dataset, error) {
	defaultDatasetOnce.Do(func() {
		defaultDataset, defaultDatasetErr = NewDataset()
		if defaultDatasetErr != nil {
			zap.L().Warn("realaddress: loading bundled addresses failed, using empty dataset",
				zap.Error(defaultDatasetErr))
			defaultDataset = newDataset(nil, defaultConfig())
		}
	})
	return defaultDataset, defaultDatasetErr
}

func defaultDS() *Dataset {
	d, _ := GetDefaultDataset()
	return d
}

// readAddresses decodes the dataset document from path, or from the
// embedded file when path is empty.
func readAddresses(path string) ([]Address, error) {
	name := path
	if name == "" {
		name = BundledFile
	}

	fh, err := openDatasetFile(path)
	if err != nil {
		return nil, &LoadError{Path: name, Err: err}
	}
	defer fh.Close()

	addrs, err := decodeAddresses(fh)
	if err != nil {
		return nil, &LoadError{Path: name, Err: err}
	}
	return addrs, nil
}

func openDatasetFile(path string) (fs.File, error) {
	if path == "" {
		fh, err := bundledData.Open(BundledFile)
		return fh, eris.Wrap(err, "opening embedded dataset")
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "opening %s", path)
	}
	return fh, nil
}

// rawDocument defers record decoding so one malformed record cannot fail
// the whole file.
type rawDocument struct {
	Addresses []json.RawMessage `json:"addresses"`
}

func decodeAddresses(r io.Reader) ([]Address, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, eris.Wrap(err, "reading addresses")
	}

	var doc rawDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrap(err, "decoding addresses")
	}

	addrs := make([]Address, len(doc.Addresses))
	for i, raw := range doc.Addresses {
		addrs[i] = decodeRecord(raw)
	}
	return addrs, nil
}

// decodeRecord decodes one address leniently. Fields that are missing or
// of the wrong type are left zero, so the record never matches a filter on
// them. A record that is not an object decodes to the zero Address.
func decodeRecord(raw json.RawMessage) Address {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Address{}
	}

	var a Address
	decodeField(fields, "address1", &a.Address1)
	decodeField(fields, "address2", &a.Address2)
	decodeField(fields, "city", &a.City)
	decodeField(fields, "state", &a.State)
	decodeField(fields, "postalCode", &a.PostalCode)

	var coords map[string]json.RawMessage
	if c, ok := fields["coordinates"]; ok && json.Unmarshal(c, &coords) == nil {
		decodeField(coords, "lat", &a.Coordinates.Lat)
		decodeField(coords, "lng", &a.Coordinates.Lng)
	}
	return a
}

func decodeField[T string | float64](fields map[string]json.RawMessage, key string, dst *T) {
	raw, ok := fields[key]
	if !ok {
		return
	}
	var v T
	if err := json.Unmarshal(raw, &v); err == nil {
		*dst = v
	}
}

// ParseDataset decodes a dataset document from raw JSON.
func ParseDataset(data []byte, opts ...Option) (*Dataset, error) {
	addrs, err := decodeAddresses(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return newDataset(addrs, cfg), nil
}

// toLower folds city names for case-insensitive lookups. City names may
// carry non-ASCII characters, so this stays Unicode-aware.
func toLower(s string) string {
	return strings.ToLower(s)
}

// toUpper is the counterpart of toLower for state codes.
func toUpper(s string) string {
	return strings.ToUpper(s)
}
