package licenses

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveProjectDir(t *testing.T) {
	base := filepath.FromSlash("/opt/nodelic/bin")
	abs, err := filepath.Abs(filepath.FromSlash("/srv/app"))
	require.NoError(t, err)

	assert.Equal(t, base, ResolveProjectDir(base, ""))
	assert.Equal(t, filepath.Join(base, "..", "webapp"), ResolveProjectDir(base, "../webapp"))
	assert.Equal(t, filepath.Join(base, "webapp"), ResolveProjectDir(base, "webapp"))
	assert.Equal(t, abs, ResolveProjectDir(base, abs))
}

func TestReporterTextScenario(t *testing.T) {
	dir := writeProject(t, `{"dependencies": {"left-pad": "1.0.0"}}`, map[string]string{
		"left-pad": `{"license": "WTFPL"}`,
	})

	var out bytes.Buffer
	records, err := NewReporter(Options{ProjectDir: dir}, &out).Run()
	require.NoError(t, err)
	assert.Equal(t, "left-pad: WTFPL\n", out.String())
	assert.Equal(t, []Record{{Package: "left-pad", License: "WTFPL"}}, records)
}

func TestReporterIncludeDevJSONScenario(t *testing.T) {
	dir := writeProject(t, `{"dependencies": {"foo": "1.0.0"}, "devDependencies": {"bar": "2.0.0"}}`, map[string]string{})

	var out bytes.Buffer
	_, err := NewReporter(Options{ProjectDir: dir, IncludeDev: true, Format: FormatJSON}, &out).Run()
	require.NoError(t, err)

	expected := "[\n" +
		"  {\n    \"package\": \"foo\",\n    \"license\": \"n/a\"\n  },\n" +
		"  {\n    \"package\": \"bar\",\n    \"license\": \"n/a\"\n  }\n" +
		"]\n"
	assert.Equal(t, expected, out.String())
}

func TestReporterOmitsDevDependenciesByDefault(t *testing.T) {
	dir := writeProject(t, `{"dependencies": {"react": "18"}, "devDependencies": {"jest": "29"}}`, map[string]string{
		"react": `{"license": "MIT"}`,
		"jest":  `{"license": "MIT"}`,
	})

	var out bytes.Buffer
	records, err := NewReporter(Options{ProjectDir: dir}, &out).Run()
	require.NoError(t, err)
	assert.Equal(t, "react: MIT\n", out.String())
	assert.Len(t, records, 1)
	assert.NotContains(t, out.String(), "jest")
}

func TestReporterIncludeDevWithoutDevDependencies(t *testing.T) {
	dir := writeProject(t, `{"dependencies": {"react": "18"}}`, map[string]string{})

	var out bytes.Buffer
	records, err := NewReporter(Options{ProjectDir: dir, IncludeDev: true}, &out).Run()
	require.NoError(t, err)
	assert.Equal(t, []Record{{Package: "react", License: NotAvailable}}, records)
}

func TestReporterJSONRoundTripKeepsManifestOrder(t *testing.T) {
	dir := writeProject(t, `{
		"dependencies": {"zod": "3", "axios": "1", "@types/node": "20"},
		"devDependencies": {"typescript": "5"}
	}`, map[string]string{
		"zod":         `{"license": "MIT"}`,
		"axios":       `{"license": {"type": "MIT"}}`,
		"@types/node": `{"license": "MIT"}`,
		"typescript":  `{"license": "Apache-2.0"}`,
	})

	var out bytes.Buffer
	_, err := NewReporter(Options{ProjectDir: dir, IncludeDev: true, Format: FormatJSON}, &out).Run()
	require.NoError(t, err)

	var parsed []map[string]string
	require.NoError(t, json.Unmarshal(out.Bytes(), &parsed))
	require.Len(t, parsed, 4)
	want := []string{"zod", "axios", "@types/node", "typescript"}
	for i, obj := range parsed {
		assert.Len(t, obj, 2)
		assert.Equal(t, want[i], obj["package"])
		assert.Contains(t, obj, "license")
	}
	assert.Equal(t, "Apache-2.0", parsed[3]["license"])
}

func TestReporterEmptyDependenciesJSON(t *testing.T) {
	dir := writeProject(t, `{"dependencies": {}}`, map[string]string{})

	var out bytes.Buffer
	records, err := NewReporter(Options{ProjectDir: dir, Format: FormatJSON}, &out).Run()
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, "[]\n", out.String())
}

func TestReporterMissingInputs(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		packages map[string]string
		field    string
		hint     string
		path     string
	}{
		{"missing manifest", "", map[string]string{}, "", "Try with --path argument", "package.json"},
		{"missing node_modules", `{"dependencies": {"a": "1"}}`, nil, "", "Did you run `npm install` ?", "node_modules"},
		{"missing dependencies field", `{"devDependencies": {"a": "1"}}`, map[string]string{}, "dependencies", "", "package.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeProject(t, tt.manifest, tt.packages)

			var out bytes.Buffer
			records, err := NewReporter(Options{ProjectDir: dir, Format: FormatJSON}, &out).Run()
			require.Error(t, err)
			assert.Empty(t, records)
			assert.Empty(t, out.String(), "no partial output")

			var missing *MissingInputError
			require.True(t, errors.As(err, &missing))
			assert.Equal(t, filepath.Join(dir, tt.path), missing.Path)
			assert.Equal(t, tt.field, missing.Field)
			assert.Equal(t, tt.hint, missing.Hint)
		})
	}
}

func TestReporterMalformedManifest(t *testing.T) {
	dir := writeProject(t, `{"dependencies": {`, map[string]string{})

	var out bytes.Buffer
	_, err := NewReporter(Options{ProjectDir: dir}, &out).Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "package.json")
	assert.Empty(t, out.String())
}

func TestReporterCustomLayout(t *testing.T) {
	dir := writeProject(t, "", nil)
	writeFile(t, filepath.Join(dir, "manifest.json"), `{"dependencies": {"lib": "1"}}`)
	writeFile(t, filepath.Join(dir, "deps", "lib", "package.json"), `{"license": "0BSD"}`)

	var out bytes.Buffer
	_, err := NewReporter(Options{ProjectDir: dir, ManifestFile: "manifest.json", ModulesDir: "deps"}, &out).Run()
	require.NoError(t, err)
	assert.Equal(t, "lib: 0BSD\n", out.String())
}

func TestCheckRuntime(t *testing.T) {
	assert.NoError(t, CheckRuntime("go1.25.1", MinimumGoVersion))
	assert.NoError(t, CheckRuntime("go1.25", MinimumGoVersion))
	assert.NoError(t, CheckRuntime("devel go1.26-abcdef", MinimumGoVersion))

	err := CheckRuntime("go1.24.9", MinimumGoVersion)
	var rt *RuntimeError
	require.True(t, errors.As(err, &rt))
	assert.Equal(t, "go1.24.9", rt.Current)
	assert.Contains(t, err.Error(), "go1.25")
}
