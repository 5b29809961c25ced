package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/twpayne/go-polyline"

	"mapa_editor/internal/geo"
)

// DirectionsResult is the provider-agnostic outcome of a directions call.
type DirectionsResult struct {
	DistanceMeters  float64
	DurationSeconds float64
	Geometry        []geo.Point
}

// DirectionsClient is the outbound port to a driving-directions provider.
type DirectionsClient interface {
	Directions(ctx context.Context, points []geo.Point) (*DirectionsResult, error)
}

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

// ORSClient implements DirectionsClient using OpenRouteService.
// The client is safe for concurrent use.
type ORSClient struct {
	session *http.Client
	apiKey  string
	baseURL string
	profile string
}

func NewORSClient(apiKey, baseURL string) (*ORSClient, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}
	if baseURL == "" {
		baseURL = "https://api.openrouteservice.org"
	}

	return &ORSClient{
		session: &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		profile: "driving-car",
	}, nil
}

type orsSegment struct {
	Distance float64 `json:"distance"`
	Duration float64 `json:"duration"`
}

type orsSummary struct {
	Distance float64 `json:"distance"`
	Duration float64 `json:"duration"`
}

// orsResponse covers both response shapes the directions endpoint emits:
// GeoJSON features with per-segment metrics, or plain routes with a summary
// and an encoded polyline geometry.
type orsResponse struct {
	Features []struct {
		Properties struct {
			Segments []orsSegment `json:"segments"`
			Summary  orsSummary   `json:"summary"`
		} `json:"properties"`
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
	Routes []struct {
		Summary  orsSummary   `json:"summary"`
		Segments []orsSegment `json:"segments"`
		Geometry string       `json:"geometry"`
	} `json:"routes"`
}

// Directions submits the ordered points to ORS and normalizes the response
// into the internal lat,lng convention.
func (o *ORSClient) Directions(ctx context.Context, points []geo.Point) (*DirectionsResult, error) {
	if len(points) < 2 {
		return nil, errors.New("ORS directions: need at least 2 points")
	}

	// ORS expects lng,lat pairs.
	coords := make([][]float64, 0, len(points))
	for _, p := range points {
		coords = append(coords, []float64{p.Lng, p.Lat})
	}

	payload, err := json.Marshal(map[string]interface{}{
		"coordinates": coords,
		"format":      "geojson",
	})
	if err != nil {
		return nil, fmt.Errorf("marshal directions request: %w", err)
	}

	url := fmt.Sprintf("%s/v2/directions/%s", o.baseURL, o.profile)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", o.apiKey)
	req.Header.Set("Accept", "application/json, application/geo+json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.session.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ORS directions request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, &httpStatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	var body orsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode ORS response: %w", err)
	}

	return parseORSResponse(&body)
}

func parseORSResponse(body *orsResponse) (*DirectionsResult, error) {
	if len(body.Features) > 0 {
		feature := body.Features[0]

		result := &DirectionsResult{}
		if len(feature.Properties.Segments) > 0 {
			for _, seg := range feature.Properties.Segments {
				result.DistanceMeters += seg.Distance
				result.DurationSeconds += seg.Duration
			}
		} else {
			result.DistanceMeters = feature.Properties.Summary.Distance
			result.DurationSeconds = feature.Properties.Summary.Duration
		}

		// GeoJSON coordinates arrive lng,lat; flip to lat,lng.
		for _, c := range feature.Geometry.Coordinates {
			if len(c) < 2 {
				return nil, errors.New("ORS response: malformed coordinate pair")
			}
			result.Geometry = append(result.Geometry, geo.Point{Lat: c[1], Lng: c[0]})
		}
		return result, nil
	}

	if len(body.Routes) > 0 {
		route := body.Routes[0]

		result := &DirectionsResult{}
		if len(route.Segments) > 0 {
			for _, seg := range route.Segments {
				result.DistanceMeters += seg.Distance
				result.DurationSeconds += seg.Duration
			}
		} else {
			result.DistanceMeters = route.Summary.Distance
			result.DurationSeconds = route.Summary.Duration
		}

		coords, _, err := polyline.DecodeCoords([]byte(route.Geometry))
		if err != nil {
			return nil, fmt.Errorf("decode ORS polyline: %w", err)
		}
		for _, c := range coords {
			result.Geometry = append(result.Geometry, geo.Point{Lat: c[0], Lng: c[1]})
		}
		return result, nil
	}

	return nil, errors.New("ORS response contains no route")
}
