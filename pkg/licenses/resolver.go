package licenses

import (
	"bytes"
	"encoding/json"
	"path/filepath"

	"github.com/fulmenhq/nodelic/pkg/logger"
	"github.com/fulmenhq/nodelic/pkg/safeio"
)

// NotAvailable is the descriptor used when no license can be determined.
const NotAvailable = "n/a"

// DefaultMetadataFile is the per-package metadata document name.
const DefaultMetadataFile = "package.json"

// LicenseKind classifies the shape of a metadata license field.
type LicenseKind int

const (
	LicenseAbsent LicenseKind = iota
	LicensePlain
	LicenseTyped
	LicenseOther
)

// String returns the kind name
func (k LicenseKind) String() string {
	switch k {
	case LicenseAbsent:
		return "absent"
	case LicensePlain:
		return "plain"
	case LicenseTyped:
		return "typed"
	case LicenseOther:
		return "other"
	default:
		return "unknown"
	}
}

// LicenseField is the decoded license field of a package metadata record.
//
// Plain holds a string license ("MIT"), Typed holds the type of an object
// license ({"type": "MIT", "url": ...}), as JSON text when it is not a
// string. Anything else is Other and keeps the raw JSON so it can be
// rendered best-effort.
type LicenseField struct {
	Kind  LicenseKind
	Value string
	Raw   json.RawMessage
}

// ParseLicenseField classifies a raw license value. A nil or JSON null value is absent.
func ParseLicenseField(raw json.RawMessage) LicenseField {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return LicenseField{Kind: LicenseAbsent}
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return LicenseField{Kind: LicensePlain, Value: s, Raw: trimmed}
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err == nil {
		if typ, ok := obj["type"]; ok {
			if err := json.Unmarshal(typ, &s); err == nil {
				return LicenseField{Kind: LicenseTyped, Value: s, Raw: trimmed}
			}
			// A non-string type is reported as its JSON text; a null type is absent.
			typ = bytes.TrimSpace(typ)
			if bytes.Equal(typ, []byte("null")) {
				return LicenseField{Kind: LicenseAbsent, Raw: trimmed}
			}
			return LicenseField{Kind: LicenseTyped, Value: compactJSON(typ), Raw: trimmed}
		}
	}
	return LicenseField{Kind: LicenseOther, Raw: trimmed}
}

// String renders the field as a license descriptor. Other fields render as
// compact JSON.
func (f LicenseField) String() string {
	switch f.Kind {
	case LicensePlain, LicenseTyped:
		return f.Value
	case LicenseOther:
		return compactJSON(f.Raw)
	default:
		return NotAvailable
	}
}

func compactJSON(raw []byte) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

// Resolver looks up license descriptors in a package-storage directory.
type Resolver struct {
	StorageDir   string
	MetadataFile string
}

// NewResolver creates a Resolver for storageDir using the default metadata file name.
func NewResolver(storageDir string) *Resolver {
	return &Resolver{StorageDir: storageDir, MetadataFile: DefaultMetadataFile}
}

// ResolveLicense returns the license descriptor of the named package installed
// under storageDir, or NotAvailable.
func ResolveLicense(name, storageDir string) string {
	return NewResolver(storageDir).Resolve(name)
}

// Resolve never fails: a missing, unreadable or malformed metadata file and a
// missing license field all resolve to NotAvailable.
func (r *Resolver) Resolve(name string) string {
	field, err := r.Lookup(name)
	if err != nil {
		logger.Debug("License metadata unavailable", logger.String("package", name), logger.Err(err))
		return NotAvailable
	}
	if field.Kind == LicenseOther {
		logger.Warn("Unrecognized license field shape, reporting raw value",
			logger.String("package", name), logger.String("license", field.String()))
	}
	return field.String()
}

// Lookup reads and classifies the license field of the named package.
func (r *Resolver) Lookup(name string) (LicenseField, error) {
	metadataFile := r.MetadataFile
	if metadataFile == "" {
		metadataFile = DefaultMetadataFile
	}
	path := filepath.Join(r.StorageDir, filepath.FromSlash(name), metadataFile)
	if !safeio.FileExists(path) {
		return LicenseField{Kind: LicenseAbsent}, nil
	}

	data, err := safeio.ReadFileContained(r.StorageDir, path)
	if err != nil {
		return LicenseField{}, err
	}

	var metadata struct {
		License json.RawMessage `json:"license"`
	}
	if err := json.Unmarshal(data, &metadata); err != nil {
		return LicenseField{}, err
	}
	return ParseLicenseField(metadata.License), nil
}
