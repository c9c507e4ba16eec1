// ppgproc subscribes to a NATS subject of PPG sample frames, runs the
// pulse-extraction pipeline, and publishes a JSON estimate on every
// detected beat.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/nats-io/nats.go"

	_ "github.com/hemodyne/pulsecore/buildinfoprint"
	"github.com/hemodyne/pulsecore/ppg"
	"github.com/hemodyne/pulsecore/stream"
)

func main() {
	var (
		natsURL = flag.String("nats", "nats://127.0.0.1:4222", "NATS URL")
		in      = flag.String("in", stream.SampleSubject, "input subject")
		outSubj = flag.String("out", stream.EstimateSubject, "output subject")
		fs      = flag.Float64("fs", 30, "nominal sample rate in Hz")
	)
	flag.Parse()

	if err := run(*natsURL, *in, *outSubj, *fs); err != nil {
		log.Fatalln(err)
	}
}

func run(natsURL, in, outSubj string, fs float64) error {
	params := ppg.DefaultParams()
	params.SampleRateHz = fs

	pipeline, err := ppg.NewPipeline(params)
	if err != nil {
		return err
	}

	nc, err := stream.Connect(natsURL)
	if err != nil {
		return err
	}
	defer nc.Drain()

	_, err = nc.Subscribe(in, func(msg *nats.Msg) {
		samples, err := stream.DecodeSamples(msg.Data)
		if err != nil {
			log.Println("ppgproc: dropping message:", err)
			return
		}

		for _, s := range samples {
			out := pipeline.Process(s)
			if !out.IsPeak {
				continue
			}

			est := stream.Estimate{
				TimestampMS:   out.TimestampMS,
				BPM:           out.BPM,
				Confidence:    out.Confidence,
				RRIntervalsMS: out.RRIntervalsMS,
			}

			b, err := json.Marshal(est)
			if err != nil {
				log.Println("ppgproc:", err)
				continue
			}
			if err := nc.Publish(outSubj, b); err != nil {
				log.Println("ppgproc:", err)
				continue
			}

			log.Printf("beat at %dms: %d BPM (confidence %.0f)", out.TimestampMS, out.BPM, out.Confidence)
		}
	})
	if err != nil {
		return err
	}

	log.Println("ppgproc: processing", in, "->", outSubj)

	// Block until interrupted; the NATS client runs on its own goroutines.
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt)
	<-ch

	d := pipeline.Diagnostics()
	log.Printf("ppgproc: ingested %d samples (%d non-finite dropped, %d stale dropped, %d no-finger ticks)",
		d.Ingested, d.DroppedNonFinite, d.DroppedStaleTS, d.NoFingerTicks)

	return nil
}
