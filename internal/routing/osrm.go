package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/ceh6514/mavwalk/server/internal/apperr"
	"github.com/ceh6514/mavwalk/server/internal/polyline"
)

// OSRMProvider calls an OSRM-compatible routing service over HTTP using the
// walking profile. Geometry comes back as a precision-6 polyline.
type OSRMProvider struct {
	baseURL string
	client  *http.Client
}

// NewOSRMProvider builds a provider for the given base URL. The timeout
// bounds the whole request including body read.
func NewOSRMProvider(baseURL string, timeout time.Duration) *OSRMProvider {
	return &OSRMProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type osrmManeuver struct {
	Type        string `json:"type"`
	Modifier    string `json:"modifier"`
	Instruction string `json:"instruction"`
}

type osrmStep struct {
	Name     string       `json:"name"`
	Maneuver osrmManeuver `json:"maneuver"`
}

type osrmLeg struct {
	Steps []osrmStep `json:"steps"`
}

type osrmRoute struct {
	Geometry string    `json:"geometry"`
	Duration *float64  `json:"duration"`
	Distance *float64  `json:"distance"`
	Legs     []osrmLeg `json:"legs"`
}

type osrmResponse struct {
	Code   string      `json:"code"`
	Routes []osrmRoute `json:"routes"`
}

// FetchRoute requests a walking route with full overview geometry and
// turn-by-turn steps. Any failure surfaces as a provider error; nothing is
// retried here.
func (p *OSRMProvider) FetchRoute(ctx context.Context, start, end Coordinate) (*ComputedRoute, error) {
	if !finiteCoordinate(start) || !finiteCoordinate(end) {
		return nil, apperr.Provider("coordinates must be numeric", nil)
	}

	url := fmt.Sprintf("%s/route/v1/foot/%s,%s;%s,%s?overview=full&geometries=polyline6&steps=true",
		p.baseURL,
		formatCoord(start.Lng), formatCoord(start.Lat),
		formatCoord(end.Lng), formatCoord(end.Lat))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperr.Provider("build request", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, apperr.Provider("routing request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperr.Provider(fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	var body osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, apperr.Provider("decode response", err)
	}
	if len(body.Routes) == 0 {
		return nil, apperr.Provider("response contained no routes", nil)
	}

	route := body.Routes[0]
	geometry := polyline.Decode(route.Geometry, polyline.DefaultPrecision)
	if len(geometry) == 0 {
		return nil, apperr.Provider("decoded geometry is empty", nil)
	}

	computed := &ComputedRoute{
		Geometry:       geometry,
		EtaSeconds:     roundToInt(route.Duration),
		DistanceMeters: roundToInt(route.Distance),
		Summary:        "Walking route",
	}
	for _, leg := range route.Legs {
		for _, step := range leg.Steps {
			computed.Steps = append(computed.Steps, stepInstruction(step))
		}
	}
	return computed, nil
}

func finiteCoordinate(c Coordinate) bool {
	return !math.IsNaN(c.Lat) && !math.IsInf(c.Lat, 0) &&
		!math.IsNaN(c.Lng) && !math.IsInf(c.Lng, 0)
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func roundToInt(v *float64) *int {
	if v == nil {
		return nil
	}
	n := int(math.Round(*v))
	return &n
}

// stepInstruction prefers the provider's own instruction text. Without one
// it synthesizes "<Type> <modifier> onto <name>." from maneuver metadata,
// falling back to a generic instruction when no maneuver data exists.
func stepInstruction(step osrmStep) string {
	if step.Maneuver.Instruction != "" {
		return step.Maneuver.Instruction
	}
	if step.Maneuver.Type == "" {
		return "Continue straight."
	}

	parts := []string{capitalize(step.Maneuver.Type)}
	if step.Maneuver.Modifier != "" {
		parts = append(parts, step.Maneuver.Modifier)
	}
	if step.Name != "" {
		parts = append(parts, "onto", step.Name)
	}
	return strings.Join(parts, " ") + "."
}

func capitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
