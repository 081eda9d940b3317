// Package wavefile streams PCM data out of RIFF/WAV files as s16le bytes,
// the format the playback pipeline runs at.
package wavefile

import (
	"encoding/binary"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/tphakala/pcmring/internal/errors"
)

// Info describes the PCM format of a WAV file.
type Info struct {
	SampleRate   int
	NumChannels  int
	BitDepth     int
	TotalSamples int // per-channel sample count
}

// ChunkCallback receives successive chunks of interleaved s16le PCM.
// Returning an error stops the stream.
type ChunkCallback func(pcm []byte) error

// ReadInfo opens a WAV file and returns its format after validation.
func ReadInfo(path string) (Info, error) {
	file, err := os.Open(path)
	if err != nil {
		return Info{}, errors.New(err).
			Component("wavefile").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	decoder.ReadInfo()

	if !decoder.IsValidFile() {
		return Info{}, errors.Newf("invalid WAV file format: %s", path).
			Component("wavefile").
			Category(errors.CategoryValidation).
			Context("path", path).
			Build()
	}
	if decoder.BitDepth != 16 && decoder.BitDepth != 24 && decoder.BitDepth != 32 {
		return Info{}, errors.Newf("unsupported bit depth: %d", decoder.BitDepth).
			Component("wavefile").
			Category(errors.CategoryValidation).
			Context("path", path).
			Context("bitdepth", decoder.BitDepth).
			Build()
	}
	if decoder.NumChans != 1 && decoder.NumChans != 2 {
		return Info{}, errors.Newf("unsupported number of channels: %d", decoder.NumChans).
			Component("wavefile").
			Category(errors.CategoryValidation).
			Context("path", path).
			Context("channels", decoder.NumChans).
			Build()
	}

	// The data chunk length gives the exact sample count; the file size
	// would also count the RIFF headers.
	if err := decoder.FwdToPCM(); err != nil {
		return Info{}, errors.New(err).
			Component("wavefile").
			Category(errors.CategoryValidation).
			Context("path", path).
			Build()
	}

	bytesPerSample := int(decoder.BitDepth / 8)
	totalSamples := int(decoder.PCMLen()) / bytesPerSample / int(decoder.NumChans)

	return Info{
		SampleRate:   int(decoder.SampleRate),
		NumChannels:  int(decoder.NumChans),
		BitDepth:     int(decoder.BitDepth),
		TotalSamples: totalSamples,
	}, nil
}

// Stream decodes the file and hands interleaved s16le PCM to the callback
// in chunks of at most chunkSize bytes. Samples wider than 16 bits are
// truncated to their 16 most significant bits.
func Stream(path string, chunkSize int, fn ChunkCallback) error {
	file, err := os.Open(path)
	if err != nil {
		return errors.New(err).
			Component("wavefile").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	decoder.ReadInfo()
	if !decoder.IsValidFile() {
		return errors.Newf("input is not a valid WAV audio file: %s", path).
			Component("wavefile").
			Category(errors.CategoryValidation).
			Context("path", path).
			Build()
	}

	shift, err := sampleShift(int(decoder.BitDepth))
	if err != nil {
		return err
	}

	if chunkSize < 2 {
		chunkSize = 2
	}
	samplesPerChunk := chunkSize / 2

	buf := &audio.IntBuffer{
		Data: make([]int, samplesPerChunk),
		Format: &audio.Format{
			SampleRate:  int(decoder.SampleRate),
			NumChannels: int(decoder.NumChans),
		},
	}
	pcm := make([]byte, chunkSize)

	for {
		n, err := decoder.PCMBuffer(buf)
		if err != nil {
			return errors.New(err).
				Component("wavefile").
				Category(errors.CategoryFileIO).
				Context("path", path).
				Build()
		}
		if n == 0 {
			return nil
		}

		for i, sample := range buf.Data[:n] {
			binary.LittleEndian.PutUint16(pcm[i*2:], uint16(int16(sample>>shift)))
		}

		if err := fn(pcm[:n*2]); err != nil {
			return err
		}
	}
}

// sampleShift returns the right shift that reduces a decoded sample of the
// given bit depth to 16 bits.
func sampleShift(bitDepth int) (uint, error) {
	switch bitDepth {
	case 16:
		return 0, nil
	case 24:
		return 8, nil
	case 32:
		return 16, nil
	default:
		return 0, errors.Newf("unsupported bit depth: %d", bitDepth).
			Component("wavefile").
			Category(errors.CategoryValidation).
			Context("bitdepth", bitDepth).
			Build()
	}
}
