// Package constellation builds a Topology from a named LEO constellation
// preset plus a table of ground-station cities, at a given wall-clock time.
package constellation

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/example/ldmrsat/geometry"
	"github.com/example/ldmrsat/orbits"
	"github.com/example/ldmrsat/topology"
)

// Errors returned by this package.
var (
	ErrUnknownPreset = errors.New("constellation: unknown preset name")
)

const (
	maxISLDistanceKm    = 8000
	maxUplinkDistanceKm = 5000
	uplinksPerStation   = 2
)

// Config describes a walker-delta constellation: num_planes orbital planes
// of sats_per_plane satellites each, at a common altitude and inclination.
type Config struct {
	Name            string
	NumSatellites   int
	AltitudeKm      float64
	InclinationDeg  float64
	NumPlanes       int
	SatsPerPlane    int
	IntraPlaneLinks bool
	InterPlaneLinks bool
}

// Presets is the closed set of named constellations this module ships.
// Keys are lowercase preset names.
var Presets = map[string]Config{
	"globalstar": {
		Name:            "GlobalStar",
		NumSatellites:   48,
		AltitudeKm:      1400,
		InclinationDeg:  55.0,
		NumPlanes:       8,
		SatsPerPlane:    6,
		IntraPlaneLinks: true,
		InterPlaneLinks: true,
	},
	"iridium": {
		Name:            "Iridium",
		NumSatellites:   66,
		AltitudeKm:      780,
		InclinationDeg:  90.0,
		NumPlanes:       6,
		SatsPerPlane:    11,
		IntraPlaneLinks: true,
		InterPlaneLinks: true,
	},
}

// Preset looks up a named constellation preset.
func Preset(name string) (Config, error) {
	cfg, ok := Presets[name]
	if !ok {
		return Config{}, fmt.Errorf("%w: %s", ErrUnknownPreset, name)
	}
	return cfg, nil
}

// city is one entry of the fixed ground-station table.
type city struct {
	Name string
	Lat  float64
	Lon  float64
}

// majorCities is the 15-city ground-station table this module ships,
// ordered so GS_0..GS_14 is deterministic.
var majorCities = []city{
	{"Beijing", 39.9042, 116.4074},
	{"New_York", 40.7128, -74.0060},
	{"London", 51.5074, -0.1278},
	{"Tokyo", 35.6762, 139.6503},
	{"Sydney", -33.8688, 151.2093},
	{"Moscow", 55.7558, 37.6173},
	{"Cairo", 30.0444, 31.2357},
	{"Sao_Paulo", -23.5505, -46.6333},
	{"Mumbai", 19.0760, 72.8777},
	{"Lagos", 6.5244, 3.3792},
	{"Berlin", 52.5200, 13.4050},
	{"Toronto", 43.6532, -79.3832},
	{"Dubai", 25.2048, 55.2708},
	{"Singapore", 1.3521, 103.8198},
	{"Mexico_City", 19.4326, -99.1332},
}

// MaxGroundStations is the number of cities in the shipped table.
const MaxGroundStations = len(majorCities)

// BuildOptions controls a single Build call.
type BuildOptions struct {
	TimeSeconds        float64
	NumGroundStations  int // clamped to [0, MaxGroundStations]
	SatelliteBandwidth float64
	GroundBandwidth    float64
}

// Build constructs a Topology for the named preset at the given time: all
// satellites and their inter-satellite links, followed by the requested
// number of ground stations and their uplinks.
func Build(presetName string, opts BuildOptions) (*topology.Topology, error) {
	cfg, err := Preset(presetName)
	if err != nil {
		return nil, err
	}

	topo := topology.New()
	satellites := generateSatelliteNodes(cfg, opts.TimeSeconds)
	for _, n := range satellites {
		if err := topo.AddNode(n); err != nil {
			return nil, err
		}
	}
	for _, l := range generateSatelliteLinks(cfg, satellites, bandwidthOrDefault(opts.SatelliteBandwidth, 10)) {
		if err := topo.AddLink(l); err != nil {
			return nil, err
		}
	}

	numGS := opts.NumGroundStations
	if numGS > MaxGroundStations {
		numGS = MaxGroundStations
	}
	if numGS < 0 {
		numGS = 0
	}
	groundStations := generateGroundStations(numGS)
	for _, n := range groundStations {
		if err := topo.AddNode(n); err != nil {
			return nil, err
		}
	}
	for _, l := range generateGroundLinks(groundStations, satellites, bandwidthOrDefault(opts.GroundBandwidth, 5)) {
		if err := topo.AddLink(l); err != nil {
			return nil, err
		}
	}

	return topo, nil
}

func bandwidthOrDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

func generateSatelliteNodes(cfg Config, t float64) []topology.Node {
	nodes := make([]topology.Node, 0, cfg.NumPlanes*cfg.SatsPerPlane)
	radius := geometry.EarthRadiusKm + cfg.AltitudeKm
	inclinationRad := cfg.InclinationDeg * math.Pi / 180

	for plane := 0; plane < cfg.NumPlanes; plane++ {
		for sat := 0; sat < cfg.SatsPerPlane; sat++ {
			id := fmt.Sprintf("S_%d_%d", plane, sat)
			pos := orbits.CircularPosition(radius, inclinationRad, plane, sat, cfg.NumPlanes, cfg.SatsPerPlane, t)
			nodes = append(nodes, topology.Node{
				ID:       id,
				Kind:     topology.Satellite,
				Position: pos,
				Attributes: map[string]string{
					"plane_idx":   fmt.Sprintf("%d", plane),
					"sat_idx":     fmt.Sprintf("%d", sat),
					"altitude_km": fmt.Sprintf("%g", cfg.AltitudeKm),
				},
			})
		}
	}
	return nodes
}

// shouldLinkSatellites implements the inter-satellite-link rule: within range, and
// either ring-adjacent in the same plane, or same sat index in an adjacent
// plane.
func shouldLinkSatellites(cfg Config, plane1, sat1, plane2, sat2 int, distanceKm float64) bool {
	if distanceKm > maxISLDistanceKm {
		return false
	}
	if plane1 == plane2 {
		diff := absInt(sat1 - sat2)
		if diff == 1 || diff == cfg.SatsPerPlane-1 {
			return cfg.IntraPlaneLinks
		}
		return false
	}
	diff := absInt(plane1 - plane2)
	if diff == 1 || diff == cfg.NumPlanes-1 {
		if sat1 == sat2 {
			return cfg.InterPlaneLinks
		}
	}
	return false
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func generateSatelliteLinks(cfg Config, satellites []topology.Node, bandwidth float64) []topology.Link {
	var links []topology.Link
	for i := 0; i < len(satellites); i++ {
		plane1, sat1 := planeAndSatIdx(satellites[i])
		for j := i + 1; j < len(satellites); j++ {
			plane2, sat2 := planeAndSatIdx(satellites[j])
			distance := geometry.Distance(satellites[i].Position, satellites[j].Position)
			if !shouldLinkSatellites(cfg, plane1, sat1, plane2, sat2, distance) {
				continue
			}
			delay := geometry.PropagationDelayMs(distance)
			links = append(links, topology.Link{
				End1: satellites[i].ID, End2: satellites[j].ID,
				BandwidthG: bandwidth, DelayMs: delay, Weight: delay, Active: true,
			})
		}
	}
	return links
}

func planeAndSatIdx(n topology.Node) (int, int) {
	var plane, sat int
	fmt.Sscanf(n.Attributes["plane_idx"], "%d", &plane)
	fmt.Sscanf(n.Attributes["sat_idx"], "%d", &sat)
	return plane, sat
}

func generateGroundStations(n int) []topology.Node {
	nodes := make([]topology.Node, 0, n)
	for i := 0; i < n; i++ {
		c := majorCities[i]
		nodes = append(nodes, topology.Node{
			ID:       fmt.Sprintf("GS_%d", i),
			Kind:     topology.GroundStation,
			Position: geometry.LatLonToCartesian(c.Lat, c.Lon, 0),
			Attributes: map[string]string{
				"city":      c.Name,
				"latitude":  fmt.Sprintf("%g", c.Lat),
				"longitude": fmt.Sprintf("%g", c.Lon),
			},
		})
	}
	return nodes
}

// generateGroundLinks connects each ground station to its two nearest
// visible satellites.
func generateGroundLinks(groundStations, satellites []topology.Node, bandwidth float64) []topology.Link {
	var links []topology.Link
	for _, gs := range groundStations {
		visible := visibleSatellites(gs, satellites)
		sort.Slice(visible, func(i, j int) bool {
			return geometry.Distance(gs.Position, visible[i].Position) < geometry.Distance(gs.Position, visible[j].Position)
		})
		count := uplinksPerStation
		if len(visible) < count {
			count = len(visible)
		}
		for i := 0; i < count; i++ {
			sat := visible[i]
			distance := geometry.Distance(gs.Position, sat.Position)
			delay := geometry.PropagationDelayMs(distance)
			links = append(links, topology.Link{
				End1: gs.ID, End2: sat.ID,
				BandwidthG: bandwidth, DelayMs: delay, Weight: delay, Active: true,
			})
		}
	}
	return links
}

func visibleSatellites(gs topology.Node, satellites []topology.Node) []topology.Node {
	var visible []topology.Node
	for _, sat := range satellites {
		distance := geometry.Distance(gs.Position, sat.Position)
		if distance > maxUplinkDistanceKm {
			continue
		}
		elevation := geometry.ElevationRad(gs.Position, sat.Position)
		if elevation >= 0 {
			visible = append(visible, sat)
		}
	}
	return visible
}
