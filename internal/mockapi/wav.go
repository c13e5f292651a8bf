package mockapi

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/google/uuid"
)

const (
	recordingSampleRate = 8000
	recordingMaxSeconds = 4
)

// SynthesizeRecording builds a small PCM WAV for a call. The tone mix is
// derived from the call id so each recording gets a distinct waveform, and
// the length is capped to keep the payload light.
func SynthesizeRecording(id uuid.UUID, durationSeconds int) []byte {
	seconds := durationSeconds
	if seconds < 1 {
		seconds = 1
	}
	if seconds > recordingMaxSeconds {
		seconds = recordingMaxSeconds
	}

	freq1 := 160.0 + float64(id[0])
	freq2 := 320.0 + 2.0*float64(id[1])

	n := recordingSampleRate * seconds
	samples := make([]int16, n)
	for i := range samples {
		t := float64(i) / recordingSampleRate
		// Speech-ish envelope: louder bursts with gaps between them.
		envelope := math.Abs(math.Sin(math.Pi * t * 1.4))
		v := 0.6*math.Sin(2*math.Pi*freq1*t) + 0.4*math.Sin(2*math.Pi*freq2*t)
		samples[i] = int16(v * envelope * 24000)
	}

	dataSize := uint32(2 * len(samples))
	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // mono
	binary.Write(&buf, binary.LittleEndian, uint32(recordingSampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(recordingSampleRate*2)) // byte rate
	binary.Write(&buf, binary.LittleEndian, uint16(2))                     // block align
	binary.Write(&buf, binary.LittleEndian, uint16(16))                    // bits per sample

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, dataSize)
	binary.Write(&buf, binary.LittleEndian, samples)

	return buf.Bytes()
}
