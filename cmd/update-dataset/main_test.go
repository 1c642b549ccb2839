package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreiashu/realaddress"
)

const sourceGeoJSON = `{"type":"Feature","properties":{"number":"1000","street":"Wilson Boulevard","unit":"","postcode":"22209"},"geometry":{"type":"Point","coordinates":[-77.0716,38.8951]}}
{"type":"Feature","properties":{"number":"3000","street":"Washington Boulevard","unit":"Apt 4","postcode":"22201"},"geometry":{"type":"Point","coordinates":[-77.0921,38.8862]}}
{"type":"Feature","properties":{"number":"1000","street":"Wilson Boulevard","unit":"","postcode":"22209"},"geometry":{"type":"Point","coordinates":[-77.0716,38.8951]}}
`

// resetFlags restores every flag to its default so runs of the shared
// rootCmd do not leak into each other.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--log-level=error"))
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range []string{"convert", "minify", "validate"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "update-dataset", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestConvertCommand_Flags(t *testing.T) {
	for _, name := range []string{"input", "output", "merge", "city", "state", "sample", "pretty", "keep-duplicates"} {
		assert.NotNil(t, convertCmd.Flags().Lookup(name), "convert should have --%s", name)
	}
	assert.Equal(t, "0", convertCmd.Flags().Lookup("sample").DefValue)
	assert.Equal(t, "true", convertCmd.Flags().Lookup("pretty").DefValue)
}

func TestConvertCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "source.geojson", sourceGeoJSON)
	output := filepath.Join(dir, "addresses.json")

	out, err := execute(t, "convert",
		"--input", input, "--output", output,
		"--city", "Arlington", "--state", "va",
		"--pretty=false")
	require.NoError(t, err)
	assert.Contains(t, out, "2 converted addresses")

	raw, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(raw), "\n"), "compact output expected")

	ds, err := realaddress.ParseDataset(raw)
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, []string{"VA"}, ds.ListStates())
	assert.Equal(t, []string{"Arlington"}, ds.ListCities())

	a, ok := ds.RandomAddressByPostalCode("22201")
	require.True(t, ok)
	assert.Equal(t, "3000 Washington Boulevard", a.Address1)
	assert.Equal(t, "Apt 4", a.Address2)
	assert.InDelta(t, 38.8862, a.Coordinates.Lat, 1e-9)
	assert.InDelta(t, -77.0921, a.Coordinates.Lng, 1e-9)
}

func TestConvertCommand_Merge(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "source.geojson", sourceGeoJSON)
	existing := writeFile(t, dir, "existing.json",
		`{"addresses":[{"address1":"37600 Sycamore Street","address2":"","city":"Newark","state":"CA","postalCode":"94560","coordinates":{"lat":37.5261943,"lng":-122.0304698}}]}`)
	output := filepath.Join(dir, "merged.json")

	_, err := execute(t, "convert",
		"--input", input, "--output", output, "--merge", existing,
		"--city", "Arlington", "--state", "VA", "--pretty=true")
	require.NoError(t, err)

	ds, err := realaddress.NewDataset(realaddress.WithFile(output))
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Len())
	assert.Equal(t, []string{"CA", "VA"}, ds.ListStates())
}

func TestConvertCommand_MergeInPlace(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "source.geojson", sourceGeoJSON)
	dataset := writeFile(t, dir, "addresses.json",
		`{"addresses":[{"address1":"37600 Sycamore Street","address2":"","city":"Newark","state":"CA","postalCode":"94560","coordinates":{"lat":37.5261943,"lng":-122.0304698}}]}`)

	_, err := execute(t, "convert",
		"--input", input, "--output", dataset, "--merge", dataset,
		"--city", "Arlington", "--state", "VA")
	require.NoError(t, err)

	ds, err := realaddress.NewDataset(realaddress.WithFile(dataset))
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Len())
	assert.Equal(t, []string{"CA", "VA"}, ds.ListStates())
}

func TestConvertCommand_RequiresLocality(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "source.geojson", sourceGeoJSON)
	output := filepath.Join(dir, "out.json")

	_, err := execute(t, "convert", "--input", input, "--output", output, "--city", "", "--state", "VA")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--city and --state are required")

	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr), "no output should be written")
}

func TestConvertCommand_UnknownState(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "source.geojson", sourceGeoJSON)

	_, err := execute(t, "convert", "--input", input, "--output", filepath.Join(dir, "out.json"),
		"--city", "Springfield", "--state", "XX")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown state code")
}

func TestConvertCommand_MalformedInputLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "source.geojson", "{broken\n")
	output := filepath.Join(dir, "out.json")

	_, err := execute(t, "convert", "--input", input, "--output", output, "--city", "Arlington", "--state", "VA")
	require.Error(t, err)

	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr))
}

func TestMinifyCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "pretty.json", `{
  "addresses": [
    {"address1": "1 A St", "address2": "", "city": "Reno", "state": "NV", "postalCode": "89501", "coordinates": {"lat": 39.5, "lng": -119.8}}
  ]
}`)
	output := filepath.Join(dir, "min.json")

	_, err := execute(t, "minify", "--input", input, "--output", output)
	require.NoError(t, err)

	raw, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t,
		`{"addresses":[{"address1":"1 A St","address2":"","city":"Reno","state":"NV","postalCode":"89501","coordinates":{"lat":39.5,"lng":-119.8}}]}`,
		string(raw))
}

func TestMinifyCommand_InPlace(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "addresses.json", `{
  "addresses": [
    {"address1": "1 A St", "address2": "", "city": "Reno", "state": "NV", "postalCode": "89501", "coordinates": {"lat": 39.5, "lng": -119.8}}
  ]
}`)

	_, err := execute(t, "minify", "--input", path, "--output", path)
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		`{"addresses":[{"address1":"1 A St","address2":"","city":"Reno","state":"NV","postalCode":"89501","coordinates":{"lat":39.5,"lng":-119.8}}]}`,
		string(raw))
}

func TestMinifyCommand_InPlaceFailureKeepsInput(t *testing.T) {
	dir := t.TempDir()
	corrupt := `{"addresses": [`
	path := writeFile(t, dir, "addresses.json", corrupt)

	_, err := execute(t, "minify", "--input", path, "--output", path)
	require.Error(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, corrupt, string(raw))
}

func TestMinifyCommand_Stdout(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "pretty.json", "{\n  \"addresses\": []\n}\n")

	out, err := execute(t, "minify", "--input", input, "--output", "-")
	require.NoError(t, err)
	assert.Equal(t, `{"addresses":[]}`, out)
}

func TestMinifyCommand_MissingInput(t *testing.T) {
	_, err := execute(t, "minify", "--input", filepath.Join(t.TempDir(), "nope.json"), "--output", "-")
	assert.Error(t, err)
}

func TestValidateCommand_Embedded(t *testing.T) {
	out, err := execute(t, "validate", "--file", "")
	require.NoError(t, err)
	assert.Contains(t, out, "84 addresses, 18 states")
	assert.Contains(t, out, "(OK)")
}

func TestValidateCommand_File(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.json",
		`{"addresses":[{"address1":"1 A St","address2":"","city":"Reno","state":"NV","postalCode":"89501","coordinates":{"lat":39.5,"lng":-119.8}}]}`)
	out, err := execute(t, "validate", "--file", good)
	require.NoError(t, err)
	assert.Contains(t, out, "1 addresses, 1 states, 1 cities, 1 postal codes (OK)")

	bad := writeFile(t, dir, "bad.json", `{"addresses":[{"address1":"1 A St","city":"Reno","state":"Nevada","postalCode":"89501"}]}`)
	_, err = execute(t, "validate", "--file", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown state code")

	corrupt := writeFile(t, dir, "corrupt.json", `{"addresses":`)
	_, err = execute(t, "validate", "--file", corrupt)
	assert.Error(t, err)
}
