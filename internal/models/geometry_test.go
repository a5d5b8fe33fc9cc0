package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
	"github.com/twpayne/go-geom/encoding/ewkbhex"
)

func parisPoint() *geom.Point {
	return geom.NewPoint(geom.XY).MustSetCoords(geom.Coord{2.35, 48.85}).SetSRID(4326)
}

func TestGeoJSONPointScan_BinaryEWKB(t *testing.T) {
	data, err := ewkb.Marshal(parisPoint(), ewkb.NDR)
	assert.NoError(t, err)

	var g GeoJSONPoint
	assert.NoError(t, g.Scan(data))
	assert.Equal(t, "Point", g.Type)
	assert.InDelta(t, 2.35, g.Lng(), 1e-9)
	assert.InDelta(t, 48.85, g.Lat(), 1e-9)
}

func TestGeoJSONPointScan_HexEWKB(t *testing.T) {
	// lib/pq hands a raw geometry column over as hex-encoded EWKB text.
	encoded, err := ewkbhex.Encode(parisPoint(), ewkbhex.NDR)
	assert.NoError(t, err)

	var g GeoJSONPoint
	assert.NoError(t, g.Scan([]byte(encoded)))
	assert.InDelta(t, 2.35, g.Lng(), 1e-9)
	assert.InDelta(t, 48.85, g.Lat(), 1e-9)

	var fromString GeoJSONPoint
	assert.NoError(t, fromString.Scan(encoded))
	assert.InDelta(t, 48.85, fromString.Lat(), 1e-9)
}

func TestGeoJSONPointScan_NilAndGarbage(t *testing.T) {
	var g GeoJSONPoint
	assert.NoError(t, g.Scan(nil))
	assert.True(t, g.IsZero())

	assert.Error(t, g.Scan([]byte("not a geometry")))
	assert.Error(t, g.Scan(42))
}

func TestGeoJSONPointValue_ProducesEWKT(t *testing.T) {
	p := NewPoint(2.35, 48.85)

	v, err := p.Value()
	assert.NoError(t, err)
	assert.Equal(t, "SRID=4326;POINT (2.35 48.85)", v)
}

func TestGeoJSONPointValue_NilIsNull(t *testing.T) {
	var p *GeoJSONPoint
	v, err := p.Value()
	assert.NoError(t, err)
	assert.Nil(t, v)
}
