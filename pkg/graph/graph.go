package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/matzehuels/pedigree/pkg/observability"
	"github.com/matzehuels/pedigree/pkg/pedigree"
)

// Document kinds reported to the observability hooks.
const (
	DocSnapshot = "snapshot"
	DocLayout   = "layout"
)

// =============================================================================
// Snapshot Serialization API
// =============================================================================

// MarshalSnapshot converts a graph to JSON bytes.
func MarshalSnapshot(g *pedigree.Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, FromGraph(g)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalSnapshot deserializes JSON bytes to a Snapshot.
func UnmarshalSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}

// WriteSnapshot writes a graph as JSON to an io.Writer.
func WriteSnapshot(g *pedigree.Graph, w io.Writer) error {
	return encode(w, FromGraph(g))
}

// WriteSnapshotFile writes a graph to a JSON file.
// The file is created with 0644 permissions.
func WriteSnapshotFile(g *pedigree.Graph, path string) error {
	return writeFile(path, DocSnapshot, FromGraph(g))
}

// ReadSnapshot decodes a JSON snapshot from an io.Reader and loads it.
// Relationship violations surface as VALIDATION errors from [pedigree.Load].
func ReadSnapshot(r io.Reader) (*pedigree.Graph, error) {
	start := time.Now()
	g, err := readSnapshotFrom(r)
	observability.Document().OnRead(DocSnapshot, nodeCount(g), time.Since(start), err)
	return g, err
}

// ReadSnapshotFile reads a JSON file and returns the loaded graph.
func ReadSnapshotFile(path string) (*pedigree.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadSnapshot(f)
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout converts a Layout to JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, l); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalLayout deserializes JSON bytes to a Layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// WriteLayout writes a Layout as JSON to an io.Writer.
func WriteLayout(l Layout, w io.Writer) error {
	return encode(w, l)
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	return writeFile(path, DocLayout, l)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func writeFile(path, kind string, v any) (err error) {
	start := time.Now()
	var buf bytes.Buffer
	defer func() {
		observability.Document().OnWrite(kind, buf.Len(), time.Since(start), err)
	}()
	if err = encode(&buf, v); err != nil {
		return err
	}
	if err = os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func readSnapshotFrom(r io.Reader) (*pedigree.Graph, error) {
	var data Snapshot
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return ToGraph(data)
}

func nodeCount(g *pedigree.Graph) int {
	if g == nil {
		return 0
	}
	return g.NodeCount()
}
