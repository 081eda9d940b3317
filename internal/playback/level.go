package playback

import (
	"encoding/binary"
	"math"
)

// LevelData holds the scaled audio level of a span of output along with a
// clipping indicator.
type LevelData struct {
	Level    int // 0-100
	Clipping bool
}

// CalculateLevel computes the RMS of interleaved s16le samples and scales
// it to a 0-100 range for display.
func CalculateLevel(samples []byte) LevelData {
	if len(samples) < 2 {
		return LevelData{Level: 0, Clipping: false}
	}

	var sum float64
	sampleCount := len(samples) / 2
	isClipping := false

	for i := 0; i+1 < len(samples); i += 2 {
		sample := int16(binary.LittleEndian.Uint16(samples[i : i+2]))
		sampleAbs := math.Abs(float64(sample))
		sum += sampleAbs * sampleAbs

		if sample == math.MaxInt16 || sample == math.MinInt16 {
			isClipping = true
		}
	}

	rms := math.Sqrt(sum / float64(sampleCount))

	// Convert RMS to decibels, 32768 is max value for 16-bit audio
	db := 20 * math.Log10(rms/32768.0)

	// Scale decibels to a 0-100 range, biased for sensitivity
	scaledLevel := (db + 60) * (100.0 / 50.0)

	if isClipping {
		scaledLevel = math.Max(scaledLevel, 95)
	}

	if scaledLevel < 0 {
		scaledLevel = 0
	} else if scaledLevel > 100 {
		scaledLevel = 100
	}

	return LevelData{
		Level:    int(scaledLevel),
		Clipping: isClipping,
	}
}
