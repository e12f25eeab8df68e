package testbed

import "fmt"

// #region params

// Params describes the wireless environment a sweep notionally runs over.
// It is a descriptor only: run logs and the run store record it, metric
// models never read it.
type Params struct {
	Standard        string  `json:"standard" yaml:"standard"`                   // wifi standard label
	Ssid            string  `json:"ssid" yaml:"ssid"`                           // network name
	RateControl     string  `json:"rate_control" yaml:"rate_control"`           // station rate-control algorithm
	ArenaWidthM     float64 `json:"arena_width_m" yaml:"arena_width_m"`         // station mobility bounds (m)
	ArenaDepthM     float64 `json:"arena_depth_m" yaml:"arena_depth_m"`         // station mobility bounds (m)
	StationMobility string  `json:"station_mobility" yaml:"station_mobility"`   // station movement model
	ApMobility      string  `json:"ap_mobility" yaml:"ap_mobility"`             // access point placement
	Ipv4Base        string  `json:"ipv4_base" yaml:"ipv4_base"`                 // address block base
	Ipv4Mask        string  `json:"ipv4_mask" yaml:"ipv4_mask"`                 // address block mask
	SupplyVoltageV  float64 `json:"supply_voltage_v" yaml:"supply_voltage_v"`   // basic energy source voltage (V)
}

// DefaultParams returns the stock single-AP indoor cell, as a basis to
// configure further.
func DefaultParams() Params {
	return Params{
		Standard:        "802.11ax",
		Ssid:            "ns3-wifi",
		RateControl:     "ideal",
		ArenaWidthM:     50,
		ArenaDepthM:     50,
		StationMobility: "random_waypoint",
		ApMobility:      "fixed",
		Ipv4Base:        "10.1.3.0",
		Ipv4Mask:        "255.255.255.0",
		SupplyVoltageV:  3.0,
	}
}

// #endregion

// #region presets

// SetDenseIndoorParams shrinks the arena to an office-floor cell.
func SetDenseIndoorParams(p *Params) {
	p.ArenaWidthM = 25
	p.ArenaDepthM = 25
	p.StationMobility = "random_walk"
}

// SetCampusOutdoorParams widens the arena to an open outdoor deployment.
func SetCampusOutdoorParams(p *Params) {
	p.ArenaWidthM = 200
	p.ArenaDepthM = 200
	p.RateControl = "minstrel_ht"
}

// #endregion

// #region environment

// Environment binds the parameter descriptor to one run's population and
// duration.
type Environment struct {
	Stations  int     `json:"stations"`
	DurationS float64 `json:"duration_s"`
	Params    Params  `json:"params"`
}

// Plan lays out the environment for a run.
func Plan(stations int, durationS float64, p Params) Environment {
	return Environment{Stations: stations, DurationS: durationS, Params: p}
}

// Summary renders a one-line description for the start-of-run log.
func (e Environment) Summary() string {
	return fmt.Sprintf("%s ssid=%s stations=%d arena=%.0fx%.0fm duration=%.1fs",
		e.Params.Standard, e.Params.Ssid, e.Stations, e.Params.ArenaWidthM, e.Params.ArenaDepthM, e.DurationS)
}

// #endregion
