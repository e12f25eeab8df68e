package testbed

import (
	"strings"
	"testing"
)

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()
	if p.Standard != "802.11ax" {
		t.Errorf("standard = %q, want 802.11ax", p.Standard)
	}
	if p.Ssid != "ns3-wifi" {
		t.Errorf("ssid = %q, want ns3-wifi", p.Ssid)
	}
	if p.SupplyVoltageV != 3.0 {
		t.Errorf("supply voltage = %v, want 3.0", p.SupplyVoltageV)
	}
}

func TestPresets_MutateInPlace(t *testing.T) {
	p := DefaultParams()
	SetDenseIndoorParams(&p)
	if p.ArenaWidthM != 25 || p.ArenaDepthM != 25 {
		t.Errorf("dense indoor arena = %vx%v, want 25x25", p.ArenaWidthM, p.ArenaDepthM)
	}

	p = DefaultParams()
	SetCampusOutdoorParams(&p)
	if p.ArenaWidthM != 200 {
		t.Errorf("campus arena width = %v, want 200", p.ArenaWidthM)
	}
	if p.Ssid != "ns3-wifi" {
		t.Errorf("preset must not touch ssid, got %q", p.Ssid)
	}
}

func TestSummary(t *testing.T) {
	env := Plan(500, 10.0, DefaultParams())
	s := env.Summary()
	for _, want := range []string{"802.11ax", "stations=500", "duration=10.0s"} {
		if !strings.Contains(s, want) {
			t.Errorf("summary %q missing %q", s, want)
		}
	}
}
