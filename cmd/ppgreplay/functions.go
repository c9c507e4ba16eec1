package main

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/wcharczuk/go-chart/v2"
	"gonum.org/v1/gonum/stat"

	"github.com/hemodyne/pulsecore/ppg"
)

func printSummary(pipeline *ppg.Pipeline, outputs []ppg.Output, rrIntervals []float64) {
	d := pipeline.Diagnostics()

	fmt.Println()
	fmt.Println("Samples ingested:", d.Ingested)
	fmt.Println("Dropped non-finite:", d.DroppedNonFinite)
	fmt.Println("Dropped stale timestamps:", d.DroppedStaleTS)
	fmt.Println("No-finger ticks:", d.NoFingerTicks)

	if len(outputs) > 0 {
		final := outputs[len(outputs)-1]
		fmt.Println("Final BPM:", final.BPM)
		fmt.Printf("Final confidence: %.1f\n", final.Confidence)
		if final.HRV.MeanMS > 0 {
			fmt.Printf("HRV: mean %.1f ms, SD %.1f ms, CV %.3f, RMSSD %.1f ms\n",
				final.HRV.MeanMS, final.HRV.SDMS, final.HRV.CV, final.HRV.RMSSDMS)
		}
	}

	if len(rrIntervals) == 0 {
		fmt.Println("No RR intervals accepted")
		return
	}

	sorted := make([]float64, len(rrIntervals))
	copy(sorted, rrIntervals)
	sort.Float64s(sorted)

	fmt.Println()
	fmt.Println("RR intervals accepted:", len(rrIntervals))
	fmt.Printf("RR mean: %.1f ms, SD: %.1f ms\n", stat.Mean(sorted, nil), stat.StdDev(sorted, nil))
	fmt.Printf("RR 5th-95th percentile: %.1f - %.1f ms\n",
		stat.Quantile(0.05, stat.LinInterp, sorted, nil),
		stat.Quantile(0.95, stat.LinInterp, sorted, nil))

	fmt.Println()
	hist := histogram.Hist(10, rrIntervals)
	if err := histogram.Fprint(os.Stdout, hist, histogram.Linear(40)); err != nil {
		fmt.Println("histogram:", err)
	}
}

func plotFiltered(filename string, outputs []ppg.Output, fs float64) error {
	xs := make([]float64, len(outputs))
	ys := make([]float64, len(outputs))

	var peakXs, peakYs []float64

	for i, out := range outputs {
		xs[i] = float64(out.TimestampMS) / 1000.0
		ys[i] = out.FilteredValue

		if out.IsPeak {
			peakXs = append(peakXs, xs[i])
			peakYs = append(peakYs, ys[i])
		}
	}

	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    "filtered",
			XValues: xs,
			YValues: ys,
		},
	}

	if len(peakXs) > 0 {
		series = append(series, chart.ContinuousSeries{
			Name: "peaks",
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    4,
			},
			XValues: peakXs,
			YValues: peakYs,
		})
	}

	graph := chart.Chart{
		Width:  1024,
		Height: 320,
		XAxis: chart.XAxis{
			Name: "seconds",
		},
		YAxis: chart.YAxis{
			Style: chart.Hidden(),
		},
		Series: series,
	}

	// Render to a byte buffer
	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return err
	}

	outFile, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer outFile.Close()

	if _, err := buffer.WriteTo(outFile); err != nil {
		return err
	}

	return nil
}
