package treefile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/goccy/go-yaml"

	"github.com/vango-dev/vpatch/internal/errors"
)

// Format is a document encoding.
type Format uint8

const (
	FormatJSON Format = iota
	FormatYAML
	FormatCBOR
)

// String returns the string representation of the Format.
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatCBOR:
		return "cbor"
	default:
		return "unknown"
	}
}

// ParseFormat parses a format name ("json", "yaml", "yml" or "cbor").
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "cbor":
		return FormatCBOR, nil
	default:
		return FormatJSON, errors.New(errors.CodeBadDocument).
			WithDetailf("unknown document format %q", name)
	}
}

// FormatFor returns the format implied by the extension of path.
func FormatFor(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("treefile: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Decode parses and validates a document.
func Decode(data []byte, f Format) (*Node, error) {
	var n Node
	var err error
	switch f {
	case FormatJSON:
		err = json.Unmarshal(data, &n)
	case FormatYAML:
		err = yaml.Unmarshal(data, &n)
	case FormatCBOR:
		err = cbor.Unmarshal(data, &n)
	default:
		return nil, errors.New(errors.CodeBadDocument).WithDetailf("unknown document format %d", f)
	}
	if err != nil {
		return nil, errors.New(errors.CodeBadDocument).
			WithDetailf("invalid %s document", f).
			Wrap(err)
	}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return &n, nil
}

// Encode serializes a document. JSON output is indented; CBOR output uses
// the canonical encoding.
func Encode(n *Node, f Format) ([]byte, error) {
	var data []byte
	var err error
	switch f {
	case FormatJSON:
		data, err = json.MarshalIndent(n, "", "  ")
		if err == nil {
			data = append(data, '\n')
		}
	case FormatYAML:
		data, err = yaml.Marshal(n)
	case FormatCBOR:
		data, err = cborEncMode.Marshal(n)
	default:
		return nil, errors.New(errors.CodeBadDocument).WithDetailf("unknown document format %d", f)
	}
	if err != nil {
		return nil, errors.New(errors.CodeBadDocument).Wrap(err)
	}
	return data, nil
}

// Load reads the document at path, choosing the format from its
// extension.
func Load(path string) (*Node, error) {
	f, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.CodeBadDocument).Wrap(err)
	}
	n, err := Decode(data, f)
	if err != nil {
		if e, ok := err.(*errors.Error); ok && e.Detail != "" {
			e.Detail = filepath.Base(path) + ": " + e.Detail
		}
		return nil, err
	}
	return n, nil
}

// Save writes n to path in the format implied by its extension.
func Save(path string, n *Node) error {
	f, err := FormatFor(path)
	if err != nil {
		return err
	}
	data, err := Encode(n, f)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New(errors.CodeBadDocument).Wrap(err)
	}
	return nil
}
