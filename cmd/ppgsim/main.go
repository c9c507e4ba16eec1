// ppgsim generates a synthetic PPG waveform with a known heart rate and
// either writes it as a sample CSV for ppgreplay or publishes it to NATS
// in real time for ppgproc.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	_ "github.com/hemodyne/pulsecore/buildinfoprint"
	"github.com/hemodyne/pulsecore/ppg"
	"github.com/hemodyne/pulsecore/ppgsynth"
	"github.com/hemodyne/pulsecore/stream"
)

func main() {
	var (
		bpm       = flag.Float64("bpm", 72, "simulated heart rate")
		fs        = flag.Float64("fs", 30, "sample rate in Hz")
		seconds   = flag.Float64("seconds", 30, "duration to generate")
		amplitude = flag.Float64("amplitude", 0.1, "pulse amplitude")
		noise     = flag.Float64("noise", 0.01, "Gaussian noise SD")
		shape     = flag.String("shape", ppgsynth.Sine, "waveform shape: sine or triangle")
		seed      = flag.Int64("seed", 1, "noise seed")
		out       = flag.String("out", "", "CSV output path, or - for stdout")
		natsURL   = flag.String("nats", "", "publish to this NATS URL instead of writing CSV")
		subject   = flag.String("subject", stream.SampleSubject, "NATS subject for sample frames")
		batch     = flag.Int("batch", 10, "samples per NATS message")
	)
	flag.Parse()

	if *out == "" && *natsURL == "" {
		flag.Usage()
		os.Exit(1)
	}

	gen := ppgsynth.New(*fs, *bpm, *amplitude, *noise, *seed)
	gen.Shape = *shape

	if *natsURL != "" {
		if err := publish(gen, *natsURL, *subject, *fs, *seconds, *batch); err != nil {
			log.Fatalln(err)
		}
		return
	}

	if err := writeCSV(gen, *out, *fs, *seconds); err != nil {
		log.Fatalln(err)
	}
}

func writeCSV(gen *ppgsynth.Generator, out string, fs, seconds float64) error {
	w := os.Stdout
	if out != "-" {
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	n := int(seconds * fs)
	stepMS := 1000.0 / fs

	fmt.Fprintln(w, "timestamp_ms,value,finger")
	for i := 0; i < n; i++ {
		ts := uint64(float64(i) * stepMS)
		fmt.Fprintf(w, "%d,%f,1\n", ts, gen.Next())
	}

	return nil
}

func publish(gen *ppgsynth.Generator, url, subject string, fs, seconds float64, batch int) error {
	nc, err := stream.Connect(url)
	if err != nil {
		return err
	}
	defer nc.Drain()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt)
	go func() {
		<-ch
		cancel()
	}()

	period := time.Duration(float64(time.Second) / fs)
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	start := time.Now()
	buffer := make([]ppg.Sample, 0, batch)
	deadline := time.Duration(seconds * float64(time.Second))

	for {
		select {
		case <-ctx.Done():
			log.Println("ppgsim: stopping")
			return nil

		case <-ticker.C:
			elapsed := time.Since(start)
			if elapsed > deadline {
				log.Println("ppgsim: done")
				return nil
			}

			buffer = append(buffer, ppg.Sample{
				Value:         gen.Next(),
				TimestampMS:   uint64(elapsed.Milliseconds()),
				FingerPresent: true,
			})

			if len(buffer) >= batch {
				if err := nc.Publish(subject, stream.EncodeSamples(buffer)); err != nil {
					return err
				}
				buffer = buffer[:0]
			}
		}
	}
}
