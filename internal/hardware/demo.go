package hardware

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"controlling_roaster/internal/clock"
)

// Scenario scripts a demo roast: how long the drum preheats before the
// beans go in, when each phase starts, and how noisy the probes are.
type Scenario struct {
	Name     string
	Preheat  time.Duration
	Timeline Timeline
	NoiseC   float64
}

var scenarios = map[string]Scenario{
	"light": {
		Name:    "light",
		Preheat: 3 * time.Minute,
		Timeline: Timeline{
			TurningPoint: 90 * time.Second,
			DryingEnd:    4*time.Minute + 30*time.Second,
			FirstCrackAt: 7*time.Minute + 30*time.Second,
			FirstCrack:   75 * time.Second,
		},
		NoiseC: 0.3,
	},
	"medium": {
		Name:     "medium",
		Preheat:  3 * time.Minute,
		Timeline: DefaultTimeline,
		NoiseC:   0.3,
	},
	"dark": {
		Name:    "dark",
		Preheat: 4 * time.Minute,
		Timeline: Timeline{
			TurningPoint: 100 * time.Second,
			DryingEnd:    5 * time.Minute,
			FirstCrackAt: 8*time.Minute + 45*time.Second,
			FirstCrack:   2 * time.Minute,
		},
		NoiseC: 0.5,
	},
}

// LookupScenario returns a named demo scenario.
func LookupScenario(name string) (Scenario, error) {
	sc, ok := scenarios[name]
	if !ok {
		return Scenario{}, fmt.Errorf("unknown demo scenario %q (known: %v)", name, ScenarioNames())
	}
	return sc, nil
}

// ScenarioNames lists the available scenarios, sorted.
func ScenarioNames() []string {
	names := make([]string, 0, len(scenarios))
	for n := range scenarios {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// DemoRoaster plays a scenario: beans are charged automatically once the
// drum has preheated for the scenario's preheat time.
type DemoRoaster struct {
	*simulator
	scenario Scenario
}

// NewDemoRoaster returns a demo roaster for sc. Equal seeds give equal
// sensor noise.
func NewDemoRoaster(sc Scenario, seed int64, clk clock.Clock) *DemoRoaster {
	return &DemoRoaster{
		simulator: &simulator{
			clock:  clk,
			model:  newThermalModel(sc.Timeline, sc.Preheat),
			info:   Info{Brand: "Demo", Model: "Scenario " + sc.Name, Version: "1.0"},
			kind:   KindDemo,
			noiseC: sc.NoiseC,
			rng:    rand.New(rand.NewSource(seed)),
		},
		scenario: sc,
	}
}

// Scenario returns the script the roaster is playing.
func (d *DemoRoaster) Scenario() Scenario { return d.scenario }
