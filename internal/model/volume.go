package model

// VolumeLevel is the icon state shown next to the volume slider
type VolumeLevel string

const (
	VolumeMuted VolumeLevel = "muted"
	VolumeLow   VolumeLevel = "low"
	VolumeHigh  VolumeLevel = "high"
)

// VolumeLowThreshold is the first volume rendered as VolumeHigh
const VolumeLowThreshold = 0.5

// VolumeLevelFor maps a volume in [0,1] to its icon state
func VolumeLevelFor(v float64) VolumeLevel {
	switch {
	case v <= 0:
		return VolumeMuted
	case v < VolumeLowThreshold:
		return VolumeLow
	default:
		return VolumeHigh
	}
}

// ClampVolume limits v to [0,1]; NaN is treated as silence
func ClampVolume(v float64) float64 {
	if v != v || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
