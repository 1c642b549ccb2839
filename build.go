package realaddress

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"
	"strings"

	geohash "github.com/TomiHiltunen/geohash-golang"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rotisserie/eris"
)

// Locality is the fixed city and state stamped on every converted record.
// Source extracts are per-locality, so these are not read from features.
type Locality struct {
	City  string
	State string
}

// ConvertOptions tunes ConvertGeoJSON.
type ConvertOptions struct {
	Sample         int        // Keep at most Sample records, chosen uniformly (0 = all)
	KeepDuplicates bool       // Disable geohash-based de-duplication
	Rand           *rand.Rand // Source for sampling (default: math/rand/v2 global)
}

// dedupeGeohashPrecision is ~5m cells; two features with the same street
// line in the same cell are treated as one address.
const dedupeGeohashPrecision = 9

// maxFeatureLineLen bounds a single GeoJSON line.
const maxFeatureLineLen = 1 << 20

// ConvertStats describes one conversion run.
type ConvertStats struct {
	Lines      int // Non-blank input lines
	Skipped    int // Features that were not usable address points
	Duplicates int // Features dropped by de-duplication
	Written    int // Records returned
}

// ConvertGeoJSON reads line-delimited GeoJSON Features and converts each
// address point into an Address. Features carry number, street, unit and
// postcode properties and a [lng, lat] point geometry.
func ConvertGeoJSON(r io.Reader, loc Locality, opts ConvertOptions) ([]Address, ConvertStats, error) {
	var stats ConvertStats
	seen := make(map[string]bool)
	var addrs []Address

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxFeatureLineLen)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		stats.Lines++

		f, err := geojson.UnmarshalFeature(line)
		if err != nil {
			return nil, stats, eris.Wrapf(err, "line %d: decoding feature", lineNo)
		}

		a, ok := featureToAddress(f, loc)
		if !ok {
			stats.Skipped++
			continue
		}

		if !opts.KeepDuplicates {
			key := dedupeKey(a)
			if seen[key] {
				stats.Duplicates++
				continue
			}
			seen[key] = true
		}
		addrs = append(addrs, a)
	}
	if err := scanner.Err(); err != nil {
		return nil, stats, eris.Wrap(err, "reading features")
	}

	if opts.Sample > 0 && opts.Sample < len(addrs) {
		addrs = sampleAddresses(addrs, opts.Sample, opts.Rand)
	}
	stats.Written = len(addrs)
	return addrs, stats, nil
}

// featureToAddress maps one feature to an Address. GeoJSON points are
// [lng, lat], so the coordinates are swapped into lat/lng.
func featureToAddress(f *geojson.Feature, loc Locality) (Address, bool) {
	pt, ok := f.Geometry.(orb.Point)
	if !ok {
		return Address{}, false
	}

	number := propString(f.Properties, "number")
	street := propString(f.Properties, "street")
	address1 := strings.TrimSpace(number + " " + street)
	if address1 == "" {
		return Address{}, false
	}

	return Address{
		Address1:   address1,
		Address2:   propString(f.Properties, "unit"),
		City:       loc.City,
		State:      loc.State,
		PostalCode: propString(f.Properties, "postcode"),
		Coordinates: Coordinates{
			Lat: pt.Lat(),
			Lng: pt.Lon(),
		},
	}, true
}

// propString reads a property as a string. House numbers and postcodes
// sometimes arrive as JSON numbers; null and missing become "".
func propString(p geojson.Properties, key string) string {
	switch v := p[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

func dedupeKey(a Address) string {
	gh := geohash.EncodeWithPrecision(a.Coordinates.Lat, a.Coordinates.Lng, dedupeGeohashPrecision)
	return toLower(a.Address1) + "|" + toLower(a.Address2) + "|" + gh
}

// sampleAddresses returns n addresses chosen uniformly without replacement,
// using a partial Fisher-Yates shuffle on a copy.
func sampleAddresses(addrs []Address, n int, rng *rand.Rand) []Address {
	cp := make([]Address, len(addrs))
	copy(cp, addrs)
	for i := 0; i < n; i++ {
		var j int
		if rng != nil {
			j = i + rng.IntN(len(cp)-i)
		} else {
			j = i + rand.IntN(len(cp)-i)
		}
		cp[i], cp[j] = cp[j], cp[i]
	}
	return cp[:n]
}

// MergeAddresses appends extra to base, skipping records already present
// under the same de-duplication key.
func MergeAddresses(base, extra []Address) []Address {
	seen := make(map[string]bool, len(base))
	out := make([]Address, 0, len(base)+len(extra))
	for _, a := range base {
		seen[dedupeKey(a)] = true
		out = append(out, a)
	}
	for _, a := range extra {
		key := dedupeKey(a)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, a)
	}
	return out
}

// WriteDataset writes addrs as a dataset document. Pretty output is
// indented by two spaces; otherwise it is compact with no whitespace.
func WriteDataset(w io.Writer, addrs []Address, pretty bool) error {
	if addrs == nil {
		addrs = []Address{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(document{Addresses: addrs}); err != nil {
		return eris.Wrap(err, "encoding dataset")
	}

	out := buf.Bytes()
	if !pretty {
		out = bytes.TrimRight(out, "\n")
	}
	if _, err := w.Write(out); err != nil {
		return eris.Wrap(err, "writing dataset")
	}
	return nil
}

// Minify re-serializes a dataset document with compact separators. The
// input must decode as a dataset; unknown members are preserved.
func Minify(r io.Reader, w io.Writer) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return eris.Wrap(err, "reading dataset")
	}

	var out bytes.Buffer
	if err := json.Compact(&out, raw); err != nil {
		return eris.Wrap(err, "compacting dataset")
	}
	if _, err := decodeAddresses(bytes.NewReader(out.Bytes())); err != nil {
		return err
	}

	if _, err := w.Write(out.Bytes()); err != nil {
		return eris.Wrap(err, "writing dataset")
	}
	return nil
}

// sampleDraws is how many filtered draws ValidateDataset makes per state.
const sampleDraws = 50

// ValidateDataset performs integrity and functional checks on d and
// returns the first problem found.
func ValidateDataset(d *Dataset) error {
	if d.Len() == 0 {
		return eris.New("dataset is empty")
	}

	for i, a := range d.addresses {
		switch {
		case a.Address1 == "":
			return eris.Errorf("address %d: missing address1", i)
		case a.City == "":
			return eris.Errorf("address %d (%s): missing city", i, a.Address1)
		case a.PostalCode == "":
			return eris.Errorf("address %d (%s): missing postalCode", i, a.Address1)
		case !IsStateCode(a.State):
			return eris.Errorf("address %d (%s): unknown state code %q", i, a.Address1, a.State)
		case !a.Coordinates.LatLng().IsValid():
			return eris.Errorf("address %d (%s): invalid coordinates %v", i, a.Address1, a.Coordinates)
		}
	}

	for _, sc := range d.ListStates() {
		for n := 0; n < sampleDraws; n++ {
			a, ok := d.RandomAddressByState(sc)
			if !ok || a.State != sc {
				return eris.Errorf("RandomAddressByState(%q) returned %q", sc, a.State)
			}
		}
	}

	sum := d.Summary()
	if got := len(d.ListStates()); got != sum.UniqueStates {
		return eris.Errorf("ListStates has %d entries, summary says %d", got, sum.UniqueStates)
	}
	total := 0
	for _, c := range d.StatesWithCounts() {
		total += c
	}
	if total != sum.TotalAddresses {
		return eris.Errorf("state counts sum to %d, want %d", total, sum.TotalAddresses)
	}
	return nil
}

// ValidateBundled loads the embedded dataset and validates it.
func ValidateBundled() error {
	d, err := NewDataset()
	if err != nil {
		return eris.Wrap(err, "loading bundled dataset")
	}
	return ValidateDataset(d)
}
