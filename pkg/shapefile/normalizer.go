// pkg/shapefile/normalizer.go - Heterogeneous payload normalization
package shapefile

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	shp "github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// shpFileCode is the big-endian magic number opening every ESRI shapefile
const shpFileCode = 9994

// Normalizer converts heterogeneous geometry payloads into uniform GeoJSON
// FeatureCollections. Already-GeoJSON payloads pass through unchanged;
// binary payloads are decoded through the go-shp reader.
type Normalizer struct {
	options *Options
}

// Options configures payload normalization
type Options struct {
	// SkipHidden drops shapefiles whose IsVisible flag is false instead
	// of normalizing them
	SkipHidden bool
}

// NewNormalizer creates a normalizer with default options
func NewNormalizer() *Normalizer {
	return &Normalizer{options: &Options{}}
}

// NewNormalizerWithOptions creates a normalizer with custom options
func NewNormalizerWithOptions(options *Options) *Normalizer {
	if options == nil {
		options = &Options{}
	}
	return &Normalizer{options: options}
}

// Normalize produces a FeatureCollection from one shapefile. Failures are
// typed and scoped to this shapefile only.
func (n *Normalizer) Normalize(sf *Shapefile) (*geojson.FeatureCollection, error) {
	if sf == nil {
		return nil, newError("", ErrorCodeEmpty, fmt.Errorf("nil shapefile"))
	}
	if n.options.SkipHidden && !sf.IsVisible {
		return nil, newError(sf.ID, ErrorCodeEmpty, fmt.Errorf("shapefile is hidden"))
	}

	payload := bytes.TrimSpace(sf.Raw)
	if len(payload) == 0 {
		return nil, newError(sf.ID, ErrorCodeEmpty, nil)
	}

	var fc *geojson.FeatureCollection
	var err error

	switch {
	case payload[0] == '{' || payload[0] == '[':
		fc, err = n.normalizeJSON(sf.ID, payload)
	default:
		fc, err = n.decodeBinary(sf.ID, payload)
	}
	if err != nil {
		return nil, err
	}

	if len(fc.Features) == 0 {
		return nil, newError(sf.ID, ErrorCodeEmpty, nil)
	}
	return fc, nil
}

// normalizeJSON passes through FeatureCollections and wraps bare features
// or feature arrays. Normalizing an already-normalized payload is a no-op.
func (n *Normalizer) normalizeJSON(id string, payload []byte) (*geojson.FeatureCollection, error) {
	if payload[0] == '[' {
		var features []*geojson.Feature
		if err := unmarshalFeatureArray(payload, &features); err != nil {
			return nil, newError(id, ErrorCodeDecode, err)
		}
		fc := &geojson.FeatureCollection{
			Type:     "FeatureCollection",
			Features: features,
		}
		return fc, nil
	}

	if fc, err := geojson.UnmarshalFeatureCollection(payload); err == nil {
		return fc, nil
	}

	// Not a collection; try a single bare feature
	feature, err := geojson.UnmarshalFeature(payload)
	if err != nil {
		return nil, newError(id, ErrorCodeDecode, err)
	}

	fc := &geojson.FeatureCollection{
		Type:     "FeatureCollection",
		Features: []*geojson.Feature{feature},
	}
	return fc, nil
}

// decodeBinary delegates binary decoding to the go-shp collaborator. Both
// bare .shp payloads and zip archives bundling .shp/.dbf are accepted.
// go-shp's reader is path-based, so the payload is staged into a temporary
// directory first; the reader tolerates a missing sidecar .dbf, in which
// case features carry no properties.
func (n *Normalizer) decodeBinary(id string, payload []byte) (*geojson.FeatureCollection, error) {
	dir, err := os.MkdirTemp("", "geonav-shp-")
	if err != nil {
		return nil, newError(id, ErrorCodeDecode, err)
	}
	defer os.RemoveAll(dir)

	shpPath, err := stageBinary(dir, payload)
	if err != nil {
		return nil, newError(id, ErrorCodeDecode, err)
	}

	reader, err := shp.Open(shpPath)
	if err != nil {
		return nil, newError(id, ErrorCodeDecode, err)
	}
	defer reader.Close()

	// Nil when no .dbf accompanies the shapes
	fields := reader.Fields()

	fc := &geojson.FeatureCollection{
		Type:     "FeatureCollection",
		Features: make([]*geojson.Feature, 0),
	}

	for reader.Next() {
		index, shape := reader.Shape()

		geom, err := shapeToGeometry(shape)
		if err != nil {
			log.Printf("Warning: skipping record %d in shapefile %s: %v", index, id, err)
			continue
		}

		feature := geojson.NewFeature(geom)
		for i, field := range fields {
			feature.Properties[field.String()] = reader.ReadAttribute(index, i)
		}
		fc.Features = append(fc.Features, feature)
	}

	if err := reader.Err(); err != nil && err != io.EOF {
		return nil, newError(id, ErrorCodeDecode, err)
	}
	return fc, nil
}

// stageBinary materializes the payload in dir by its magic number and
// returns the path of the .shp file to read
func stageBinary(dir string, payload []byte) (string, error) {
	if bytes.HasPrefix(payload, []byte("PK\x03\x04")) {
		return unpackZip(dir, payload)
	}

	if len(payload) >= 4 && binary.BigEndian.Uint32(payload[:4]) == shpFileCode {
		path := filepath.Join(dir, "data.shp")
		if err := os.WriteFile(path, payload, 0o600); err != nil {
			return "", err
		}
		return path, nil
	}

	return "", fmt.Errorf("unrecognized binary payload (%d bytes)", len(payload))
}

// unpackZip extracts the .shp and .dbf members of a zip archive into dir
// under a shared basename, so the reader finds the attribute sidecar next
// to the shapes
func unpackZip(dir string, payload []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		return "", err
	}

	var shpPath string
	for _, member := range archive.File {
		ext := strings.ToLower(filepath.Ext(member.Name))
		if ext != ".shp" && ext != ".dbf" {
			continue
		}

		path := filepath.Join(dir, "data"+ext)
		if err := extractMember(member, path); err != nil {
			return "", err
		}
		if ext == ".shp" {
			shpPath = path
		}
	}

	if shpPath == "" {
		return "", fmt.Errorf("zip archive contains no .shp member")
	}
	return shpPath, nil
}

// extractMember copies one zip member to the given path
func extractMember(member *zip.File, path string) error {
	src, err := member.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}

// shapeToGeometry converts a decoded shape record to an orb geometry
func shapeToGeometry(shape shp.Shape) (orb.Geometry, error) {
	switch s := shape.(type) {
	case *shp.Point:
		return orb.Point{s.X, s.Y}, nil
	case *shp.PointM:
		return orb.Point{s.X, s.Y}, nil
	case *shp.PointZ:
		return orb.Point{s.X, s.Y}, nil
	case *shp.MultiPoint:
		points := make(orb.MultiPoint, len(s.Points))
		for i, p := range s.Points {
			points[i] = orb.Point{p.X, p.Y}
		}
		return points, nil
	case *shp.PolyLine:
		parts := splitParts(s.Points, s.Parts)
		if len(parts) == 1 {
			return orb.LineString(parts[0]), nil
		}
		lines := make(orb.MultiLineString, len(parts))
		for i, part := range parts {
			lines[i] = orb.LineString(part)
		}
		return lines, nil
	case *shp.Polygon:
		parts := splitParts(s.Points, s.Parts)
		rings := make(orb.Polygon, len(parts))
		for i, part := range parts {
			rings[i] = orb.Ring(part)
		}
		return rings, nil
	default:
		return nil, fmt.Errorf("unsupported shape type %T", shape)
	}
}

// splitParts slices a flat point list into its part ranges
func splitParts(points []shp.Point, offsets []int32) [][]orb.Point {
	if len(offsets) == 0 {
		offsets = []int32{0}
	}

	parts := make([][]orb.Point, 0, len(offsets))
	for i, start := range offsets {
		end := int32(len(points))
		if i+1 < len(offsets) && offsets[i+1] < end {
			end = offsets[i+1]
		}
		if start < 0 || start >= end {
			continue
		}

		part := make([]orb.Point, 0, end-start)
		for _, p := range points[start:end] {
			part = append(part, orb.Point{p.X, p.Y})
		}
		parts = append(parts, part)
	}
	return parts
}

// unmarshalFeatureArray decodes a bare JSON feature array
func unmarshalFeatureArray(payload []byte, features *[]*geojson.Feature) error {
	decoded := make([]*geojson.Feature, 0)
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return err
	}
	*features = decoded
	return nil
}
