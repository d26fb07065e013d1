package models

// SolarConfig describes a PV installation. Zero-valued efficiencies, the
// temperature coefficient and the degradation rate mean "use the default".
type SolarConfig struct {
	CapacityKW             float64 `yaml:"installed_capacity_kw" json:"installed_capacity_kw"`
	PanelEfficiency        float64 `yaml:"panel_efficiency" json:"panel_efficiency"`
	InverterEfficiency     float64 `yaml:"inverter_efficiency" json:"inverter_efficiency"`
	TemperatureCoefficient float64 `yaml:"temperature_coefficient" json:"temperature_coefficient"`
	DegradationRate        float64 `yaml:"degradation_rate" json:"degradation_rate"`

	// Accepted but not used by the generation formula (flat-plate model).
	TiltDeg    float64 `yaml:"tilt_angle" json:"tilt_angle"`
	AzimuthDeg float64 `yaml:"azimuth_angle" json:"azimuth_angle"`
}

// WindConfig describes a wind farm of identical turbines
type WindConfig struct {
	HubHeightM      float64 `yaml:"hub_height_m" json:"hub_height_m"`
	RatedCapacityKW float64 `yaml:"rated_capacity_kw" json:"rated_capacity_kw"`
	CutInMS         float64 `yaml:"cut_in_ms" json:"cut_in_ms"`
	RatedMS         float64 `yaml:"rated_ms" json:"rated_ms"`
	CutOutMS        float64 `yaml:"cut_out_ms" json:"cut_out_ms"`
	Turbines        int     `yaml:"num_turbines" json:"num_turbines"`
	ShearExponent   float64 `yaml:"shear_exponent" json:"shear_exponent"`
}
