package atmos

const (
	// T0C is 0 °C in kelvin.
	T0C = 273.15
	// T20C is room temperature in kelvin.
	T20C = 293.15
	// BreathVolume is the volume of one breath in litres.
	BreathVolume = 0.5
)

// Gas names a gas species.
type Gas string

const (
	Oxygen        Gas = "Oxygen"
	Nitrogen      Gas = "Nitrogen"
	CarbonDioxide Gas = "CarbonDioxide"
	Plasma        Gas = "Plasma"
	WaterVapor    Gas = "WaterVapor"
)

var specificHeats = map[Gas]float64{
	Oxygen:        20,
	Nitrogen:      30,
	CarbonDioxide: 30,
	Plasma:        200,
	WaterVapor:    40,
}

// GasMixture is a volume of gas at a single temperature.
type GasMixture struct {
	Volume      float64         `json:"volume"`
	Temperature float64         `json:"temperature"`
	Moles       map[Gas]float64 `json:"moles"`
}

// NewGasMixture returns an empty mixture at room temperature.
func NewGasMixture(volume float64) *GasMixture {
	return &GasMixture{Volume: volume, Temperature: T20C, Moles: make(map[Gas]float64)}
}

// StandardAir returns a breathable mixture of the given volume.
func StandardAir(volume float64) *GasMixture {
	m := NewGasMixture(volume)
	// ~101.3 kPa at 20 °C is about 41.6 mol per 1000 L
	total := volume * 0.0416
	m.Moles[Oxygen] = total * 0.21
	m.Moles[Nitrogen] = total * 0.79
	return m
}

// TotalMoles of every gas in the mixture.
func (m *GasMixture) TotalMoles() float64 {
	var n float64
	for _, v := range m.Moles {
		n += v
	}
	return n
}

// HeatCapacity in J/K.
func (m *GasMixture) HeatCapacity() float64 {
	var hc float64
	for g, n := range m.Moles {
		sh, ok := specificHeats[g]
		if !ok {
			sh = 20
		}
		hc += n * sh
	}
	return hc
}

// AddHeat changes the temperature by joules / heat capacity. A vacuum is unaffected.
func (m *GasMixture) AddHeat(joules float64) {
	hc := m.HeatCapacity()
	if hc <= 0 {
		return
	}
	m.Temperature += joules / hc
}

// RemoveRatio takes the given fraction of every gas out into a new mixture.
func (m *GasMixture) RemoveRatio(ratio float64) *GasMixture {
	if ratio > 1 {
		ratio = 1
	}
	out := NewGasMixture(m.Volume * ratio)
	out.Temperature = m.Temperature
	if ratio <= 0 {
		return out
	}
	for g, n := range m.Moles {
		taken := n * ratio
		out.Moles[g] = taken
		m.Moles[g] = n - taken
	}
	return out
}

// RemoveVolume takes litres worth of gas out of the mixture.
func (m *GasMixture) RemoveVolume(litres float64) *GasMixture {
	if m.Volume <= 0 {
		return NewGasMixture(0)
	}
	return m.RemoveRatio(litres / m.Volume)
}
