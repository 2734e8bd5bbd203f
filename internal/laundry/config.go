package laundry

import (
	"time"

	"gopkg.in/yaml.v3"

	"station-mods/internal/atmos"
	"station-mods/internal/damage"
)

const (
	// DrumSolution is the active wash liquid.
	DrumSolution = "drum"
	// TankSolution is the clean water reservoir.
	TankSolution = "tank"
	// DetergentSlot is the item slot the wash-fill stage pours detergent from.
	DetergentSlot = "detergentSlot"

	// DripAmount is units per second pushed out of a dripping garment.
	DripAmount = 0.08
	// CleanStrengthFactor scales how much cleaners strip and how much they are spent.
	CleanStrengthFactor = 0.25
	// WashStrengthFactor scales how much absorbent reagents wash away.
	WashStrengthFactor = 0.75
	// MachineWashPortion is the fraction of a contained entity's share splashed per second.
	MachineWashPortion = 0.25
)

// MachineConfig is the static setup of a laundry machine.
type MachineConfig struct {
	CanWash            bool        `yaml:"can_wash"`
	CanDry             bool        `yaml:"can_dry"`
	Mode               Mode        `yaml:"mode"`
	WasherCycle        WasherCycle `yaml:"washer_cycle"`
	DryerCycle         DryerCycle  `yaml:"dryer_cycle"`
	TimeSettingMinutes int         `yaml:"time_setting_minutes"`
	TemperatureCelsius float64     `yaml:"temperature_celsius"`
	UnlockedOpenChance float64     `yaml:"unlocked_open_chance"`
	DamagePerSecond    damage.Spec `yaml:"damage_per_second"`
}

// DefaultMachineConfig matches a stock washer-dryer.
func DefaultMachineConfig() MachineConfig {
	return MachineConfig{
		CanWash:            true,
		CanDry:             true,
		Mode:               ModeWashAndDry,
		WasherCycle:        WasherNormal,
		DryerCycle:         DryerNormal,
		TimeSettingMinutes: 10,
		TemperatureCelsius: 80,
		UnlockedOpenChance: 0.01,
		DamagePerSecond:    damage.Spec{damage.Blunt: 0.5},
	}
}

// UnmarshalYAML layers the document over DefaultMachineConfig.
func (c *MachineConfig) UnmarshalYAML(n *yaml.Node) error {
	type plain MachineConfig
	p := plain(DefaultMachineConfig())
	if err := n.Decode(&p); err != nil {
		return err
	}
	*c = MachineConfig(p)
	return nil
}

// WashableConfig is the static setup of a washable garment.
type WashableConfig struct {
	Solution     string  `yaml:"solution"`
	Capacity     float64 `yaml:"capacity"`
	WashFactor   float64 `yaml:"wash_factor"`
	WetnessScale float64 `yaml:"wetness_scale"`
	DripVolume   float64 `yaml:"drip_volume"`
	// DryTemperature in kelvin above which the garment dries.
	DryTemperature float64 `yaml:"dry_temperature"`
	// BleedChance is the chance blood from a bleeding wearer soaks in.
	BleedChance  float64 `yaml:"bleed_chance"`
	BleedPortion float64 `yaml:"bleed_portion"`
}

// DefaultWashableConfig matches an ordinary jumpsuit.
func DefaultWashableConfig() WashableConfig {
	return WashableConfig{
		Solution:       "soaked",
		Capacity:       20,
		WashFactor:     1,
		WetnessScale:   1,
		DripVolume:     10,
		DryTemperature: atmos.T0C + 60,
		BleedChance:    0.5,
		BleedPortion:   0.5,
	}
}

func (c *WashableConfig) UnmarshalYAML(n *yaml.Node) error {
	type plain WashableConfig
	p := plain(DefaultWashableConfig())
	if err := n.Decode(&p); err != nil {
		return err
	}
	*c = WashableConfig(p)
	return nil
}

// Timings holds stage durations and per-second rates.
type Timings struct {
	UpdateInterval time.Duration `yaml:"update_interval"`

	Fill       time.Duration `yaml:"fill"`
	Agitate    time.Duration `yaml:"agitate"`
	Drain      time.Duration `yaml:"drain"`
	StageDelay time.Duration `yaml:"stage_delay"`
	FastSpin   time.Duration `yaml:"fast_spin"`
	DryDelay   time.Duration `yaml:"dry_delay"`

	WaterRate     float64 `yaml:"water_rate"`
	DetergentRate float64 `yaml:"detergent_rate"`
	DrainRate     float64 `yaml:"drain_rate"`
	SpinDrainRate float64 `yaml:"spin_drain_rate"`
	DryDrainRate  float64 `yaml:"dry_drain_rate"`
	// HeatPerSecond is joules added to drum liquid and air while drying.
	HeatPerSecond float64 `yaml:"heat_per_second"`
}

// DefaultTimings are the stock cycle timings.
func DefaultTimings() Timings {
	return Timings{
		UpdateInterval: time.Second,
		Fill:           10 * time.Second,
		Agitate:        2 * time.Minute,
		Drain:          30 * time.Second,
		StageDelay:     time.Second,
		FastSpin:       2 * time.Minute,
		DryDelay:       10 * time.Second,
		WaterRate:      2.5,
		DetergentRate:  10,
		DrainRate:      30,
		SpinDrainRate:  1,
		DryDrainRate:   1,
		HeatPerSecond:  18.75,
	}
}

// withDefaults fills zero fields from DefaultTimings.
func (t Timings) withDefaults() Timings {
	d := DefaultTimings()
	if t.UpdateInterval <= 0 {
		t.UpdateInterval = d.UpdateInterval
	}
	if t.Fill <= 0 {
		t.Fill = d.Fill
	}
	if t.Agitate <= 0 {
		t.Agitate = d.Agitate
	}
	if t.Drain <= 0 {
		t.Drain = d.Drain
	}
	if t.StageDelay <= 0 {
		t.StageDelay = d.StageDelay
	}
	if t.FastSpin <= 0 {
		t.FastSpin = d.FastSpin
	}
	if t.DryDelay <= 0 {
		t.DryDelay = d.DryDelay
	}
	if t.WaterRate <= 0 {
		t.WaterRate = d.WaterRate
	}
	if t.DetergentRate <= 0 {
		t.DetergentRate = d.DetergentRate
	}
	if t.DrainRate <= 0 {
		t.DrainRate = d.DrainRate
	}
	if t.SpinDrainRate <= 0 {
		t.SpinDrainRate = d.SpinDrainRate
	}
	if t.DryDrainRate <= 0 {
		t.DryDrainRate = d.DryDrainRate
	}
	if t.HeatPerSecond <= 0 {
		t.HeatPerSecond = d.HeatPerSecond
	}
	return t
}
