package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-polyline"

	"mapa_editor/internal/geo"
)

func TestNewORSClientRequiresKey(t *testing.T) {
	_, err := NewORSClient("", "")
	assert.Error(t, err)

	c, err := NewORSClient("test-key", "")
	require.NoError(t, err)
	assert.Equal(t, "https://api.openrouteservice.org", c.baseURL)

	c, err = NewORSClient("test-key", "http://localhost:9000/")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000", c.baseURL)
}

func TestDirectionsGeoJSONResponse(t *testing.T) {
	var gotPath string
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		assert.Equal(t, "test-key", r.Header.Get("Authorization"))

		// lng,lat order, as ORS emits.
		fmt.Fprint(w, `{
			"features": [{
				"properties": {
					"segments": [
						{"distance": 40.5, "duration": 12.0},
						{"distance": 44.9, "duration": 13.5}
					]
				},
				"geometry": {
					"coordinates": [
						[-49.4375273, -16.6805776],
						[-49.4372500, -16.6803000],
						[-49.4370000, -16.6800000]
					]
				}
			}]
		}`)
	}))
	defer server.Close()

	client, err := NewORSClient("test-key", server.URL)
	require.NoError(t, err)

	result, err := client.Directions(context.Background(), []geo.Point{
		{Lat: -16.6805776, Lng: -49.4375273},
		{Lat: -16.6800000, Lng: -49.4370000},
	})
	require.NoError(t, err)

	assert.Equal(t, "/v2/directions/driving-car", gotPath)
	assert.Equal(t, "geojson", gotBody["format"])

	// Request coordinates must be lng,lat.
	coords := gotBody["coordinates"].([]interface{})
	first := coords[0].([]interface{})
	assert.InDelta(t, -49.4375273, first[0].(float64), 1e-9)
	assert.InDelta(t, -16.6805776, first[1].(float64), 1e-9)

	assert.InDelta(t, 85.4, result.DistanceMeters, 1e-9)
	assert.InDelta(t, 25.5, result.DurationSeconds, 1e-9)

	// Response coordinates flipped back to lat,lng.
	require.Len(t, result.Geometry, 3)
	assert.InDelta(t, -16.6805776, result.Geometry[0].Lat, 1e-9)
	assert.InDelta(t, -49.4375273, result.Geometry[0].Lng, 1e-9)
}

func TestDirectionsPolylineResponse(t *testing.T) {
	encoded := polyline.EncodeCoords([][]float64{
		{-16.6805776, -49.4375273},
		{-16.6800000, -49.4370000},
	})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := map[string]interface{}{
			"routes": []map[string]interface{}{{
				"summary":  map[string]float64{"distance": 85.4, "duration": 11.4},
				"geometry": string(encoded),
			}},
		}
		require.NoError(t, json.NewEncoder(w).Encode(body))
	}))
	defer server.Close()

	client, err := NewORSClient("test-key", server.URL)
	require.NoError(t, err)

	result, err := client.Directions(context.Background(), []geo.Point{
		{Lat: -16.6805776, Lng: -49.4375273},
		{Lat: -16.6800000, Lng: -49.4370000},
	})
	require.NoError(t, err)

	assert.InDelta(t, 85.4, result.DistanceMeters, 1e-9)
	assert.InDelta(t, 11.4, result.DurationSeconds, 1e-9)
	require.Len(t, result.Geometry, 2)
	// Polyline precision is 1e-5.
	assert.InDelta(t, -16.6805776, result.Geometry[0].Lat, 1e-4)
	assert.InDelta(t, -49.4375273, result.Geometry[0].Lng, 1e-4)
}

func TestDirectionsHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"quota exceeded"}`, http.StatusForbidden)
	}))
	defer server.Close()

	client, err := NewORSClient("test-key", server.URL)
	require.NoError(t, err)

	_, err = client.Directions(context.Background(), []geo.Point{
		{Lat: 0, Lng: 0},
		{Lat: 1, Lng: 1},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestDirectionsEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	client, err := NewORSClient("test-key", server.URL)
	require.NoError(t, err)

	_, err = client.Directions(context.Background(), []geo.Point{
		{Lat: 0, Lng: 0},
		{Lat: 1, Lng: 1},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no route")
}

func TestDirectionsTooFewPoints(t *testing.T) {
	client, err := NewORSClient("test-key", "http://localhost:1")
	require.NoError(t, err)

	_, err = client.Directions(context.Background(), []geo.Point{{Lat: 0, Lng: 0}})
	assert.Error(t, err)
}
