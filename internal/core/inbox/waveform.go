package inbox

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"
)

// Waveform is a recording reduced to per-bucket peak amplitudes in [0,1],
// ready for a fixed-width terminal strip.
type Waveform struct {
	Peaks      []float64
	SampleRate int
	Duration   time.Duration
}

// PeaksFromWAV walks the RIFF chunks of a PCM WAV file and folds the
// samples into at most buckets peaks. 8 and 16 bit PCM are enough; that is
// all the call recorder produces.
func PeaksFromWAV(data []byte, buckets int) (Waveform, error) {
	if buckets <= 0 {
		buckets = 64
	}
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return Waveform{}, errors.New("not a RIFF/WAVE recording")
	}

	var (
		channels, bits, rate int
		pcm                  []byte
		haveFmt              bool
	)
	off := 12
	for off+8 <= len(data) {
		id := string(data[off : off+4])
		size := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		body := off + 8
		if size < 0 || body > len(data) {
			break
		}
		if body+size > len(data) {
			// Tolerate a truncated final chunk; partial audio still draws.
			size = len(data) - body
		}

		switch id {
		case "fmt ":
			if size < 16 {
				return Waveform{}, errors.New("short fmt chunk")
			}
			format := int(binary.LittleEndian.Uint16(data[body:]))
			channels = int(binary.LittleEndian.Uint16(data[body+2:]))
			rate = int(binary.LittleEndian.Uint32(data[body+4:]))
			bits = int(binary.LittleEndian.Uint16(data[body+14:]))
			if format != 1 {
				return Waveform{}, fmt.Errorf("unsupported wav format %d, want PCM", format)
			}
			if channels < 1 || rate <= 0 {
				return Waveform{}, errors.New("invalid fmt chunk")
			}
			if bits != 8 && bits != 16 {
				return Waveform{}, fmt.Errorf("unsupported sample width %d", bits)
			}
			haveFmt = true
		case "data":
			pcm = data[body : body+size]
		}

		if size%2 == 1 {
			size++ // chunks are word aligned
		}
		off = body + size
	}

	if !haveFmt || pcm == nil {
		return Waveform{}, errors.New("missing fmt or data chunk")
	}

	frameSize := channels * bits / 8
	frames := len(pcm) / frameSize
	if frames == 0 {
		return Waveform{}, errors.New("empty recording")
	}
	if buckets > frames {
		buckets = frames
	}

	peaks := make([]float64, buckets)
	for b := range peaks {
		start := b * frames / buckets
		end := (b + 1) * frames / buckets
		var peak float64
		for f := start; f < end; f++ {
			base := f * frameSize
			for ch := 0; ch < channels; ch++ {
				var v float64
				if bits == 16 {
					s := int16(binary.LittleEndian.Uint16(pcm[base+ch*2:]))
					v = math.Abs(float64(s)) / 32768
				} else {
					v = math.Abs(float64(pcm[base+ch])-128) / 128
				}
				if v > peak {
					peak = v
				}
			}
		}
		peaks[b] = peak
	}

	return Waveform{
		Peaks:      peaks,
		SampleRate: rate,
		Duration:   time.Duration(frames) * time.Second / time.Duration(rate),
	}, nil
}
