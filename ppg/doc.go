// Package ppg extracts heart rate from a photoplethysmography signal: a
// stream of scalar color-intensity samples captured from a fingertip at
// roughly 30-60 Hz. The pipeline band-passes the raw stream to isolate the
// pulsatile component, detects beats with an adaptive-threshold peak
// detector, aggregates inter-beat (RR) intervals into a smoothed BPM with
// basic HRV statistics, and scores the result with a 0-100 confidence
// value. It is a best-effort real-time estimator: malformed samples are
// dropped at the boundary and insufficient data yields a zero reading,
// never an error.
package ppg
