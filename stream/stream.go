// Package stream carries live PPG samples and BPM estimates over NATS.
// Sample frames are fixed-width binary so the 30-60 Hz hot path stays
// cheap; estimates are JSON because they are low-rate and consumed by
// dashboards.
package stream

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/hemodyne/pulsecore/ppg"
)

// Default subjects.
const (
	SampleSubject   = "ppg.samples"
	EstimateSubject = "ppg.estimates"
)

// frameSize is bytes per encoded sample: float64 value, uint64 timestamp
// in ms, one finger-presence byte.
const frameSize = 17

// Connect dials NATS with the reconnect discipline a long-running monitor
// needs: it never gives up on the server.
func Connect(url string) (*nats.Conn, error) {
	return nats.Connect(
		url,
		nats.Name("pulsecore"),
		nats.Timeout(3*time.Second),
		nats.ReconnectWait(500*time.Millisecond),
		nats.MaxReconnects(-1),
	)
}

// EncodeSamples packs samples into one message payload.
func EncodeSamples(samples []ppg.Sample) []byte {
	out := make([]byte, frameSize*len(samples))
	for i, s := range samples {
		off := i * frameSize
		binary.LittleEndian.PutUint64(out[off:], math.Float64bits(s.Value))
		binary.LittleEndian.PutUint64(out[off+8:], s.TimestampMS)
		if s.FingerPresent {
			out[off+16] = 1
		}
	}
	return out
}

// DecodeSamples unpacks a payload produced by EncodeSamples.
func DecodeSamples(data []byte) ([]ppg.Sample, error) {
	if len(data)%frameSize != 0 {
		return nil, fmt.Errorf("stream: payload of %d bytes is not a multiple of the %d-byte frame", len(data), frameSize)
	}

	out := make([]ppg.Sample, len(data)/frameSize)
	for i := range out {
		off := i * frameSize
		out[i] = ppg.Sample{
			Value:         math.Float64frombits(binary.LittleEndian.Uint64(data[off:])),
			TimestampMS:   binary.LittleEndian.Uint64(data[off+8:]),
			FingerPresent: data[off+16] != 0,
		}
	}
	return out, nil
}

// Estimate is the JSON message published on each detected beat.
type Estimate struct {
	TimestampMS   uint64    `json:"ts_ms"`
	BPM           uint32    `json:"bpm"`
	Confidence    float64   `json:"confidence"`
	RRIntervalsMS []float64 `json:"rr_intervals_ms,omitempty"`
}
