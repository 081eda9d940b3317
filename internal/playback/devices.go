package playback

import (
	"encoding/hex"

	"github.com/gen2brain/malgo"

	"github.com/tphakala/pcmring/internal/errors"
)

// AudioDeviceInfo holds information about a playback device.
type AudioDeviceInfo struct {
	Index     int
	Name      string
	ID        string
	IsDefault bool
}

// ListAudioDevices returns the available playback devices.
func ListAudioDevices() ([]AudioDeviceInfo, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, errors.New(err).
			Component("playback").
			Category(errors.CategoryAudioDevice).
			Context("operation", "init_context").
			Build()
	}
	defer ctx.Uninit()

	infos, err := ctx.Devices(malgo.Playback)
	if err != nil {
		return nil, errors.New(err).
			Component("playback").
			Category(errors.CategoryAudioDevice).
			Context("operation", "list_devices").
			Build()
	}

	devices := make([]AudioDeviceInfo, 0, len(infos))
	for i, info := range infos {
		devices = append(devices, AudioDeviceInfo{
			Index:     i,
			Name:      info.Name(),
			ID:        decodeDeviceID(info.ID.String()),
			IsDefault: info.IsDefault != 0,
		})
	}

	return devices, nil
}

// decodeDeviceID turns the hex form of a malgo device ID into ASCII where
// possible; on platforms with opaque IDs the hex form is returned as is.
func decodeDeviceID(hexID string) string {
	decoded, err := hex.DecodeString(hexID)
	if err != nil {
		return hexID
	}
	// Trim trailing NULs from fixed-size ID fields.
	end := len(decoded)
	for end > 0 && decoded[end-1] == 0 {
		end--
	}
	return string(decoded[:end])
}
