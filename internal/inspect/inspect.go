// Package inspect checks what a bar store holds against an expected instrument list.
package inspect

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"futures-data/internal/instrument"
	"futures-data/internal/model"
	"futures-data/internal/store"
)

const defaultSample = 3

// Options selects the window and granularity to query per instrument.
type Options struct {
	Start    time.Time
	End      time.Time
	Interval model.Interval
	// Sample is how many leading bars to include per instrument.
	Sample int
}

// InstrumentReport is the query result for one expected instrument.
type InstrumentReport struct {
	Instrument model.Instrument
	Count      int
	First      model.Bar
	Last       model.Bar
	Sample     []model.Bar
	// Missing counts bars with at least one field equal to model.MissingValue.
	Missing int
}

// Report is the outcome of Inspect.
type Report struct {
	Options     Options
	Overview    []store.Overview
	Present     []model.InstrumentKey
	Absent      []model.InstrumentKey
	Extra       []model.InstrumentKey
	Instruments []InstrumentReport
}

// Inspect queries st for every expected instrument over opts' window. When st also
// implements store.Overviewer the whole-store overview and the extra keys are filled in.
func Inspect(ctx context.Context, st store.BarStore, expected []model.Instrument, opts Options) (*Report, error) {
	if opts.Interval == "" {
		opts.Interval = model.IntervalDaily
	}
	if opts.Sample <= 0 {
		opts.Sample = defaultSample
	}
	r := &Report{Options: opts}

	stored := make(map[model.InstrumentKey]bool)
	if ov, ok := st.(store.Overviewer); ok {
		list, err := ov.Overview(ctx)
		if err != nil {
			return nil, fmt.Errorf("overview: %w", err)
		}
		r.Overview = list
		for _, o := range list {
			if o.Interval == opts.Interval {
				stored[o.Key] = true
			}
		}
	}

	want := make(map[model.InstrumentKey]bool, len(expected))
	keys := instrument.Keys(expected)
	for i, inst := range expected {
		key := keys[i]
		want[key] = true
		bars, err := st.Query(ctx, key, opts.Interval, opts.Start, opts.End)
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", key, err)
		}
		ir := InstrumentReport{Instrument: inst, Count: len(bars)}
		if len(bars) > 0 {
			ir.First, ir.Last = bars[0], bars[len(bars)-1]
			n := min(opts.Sample, len(bars))
			ir.Sample = append([]model.Bar(nil), bars[:n]...)
			for _, b := range bars {
				if b.HasMissing() {
					ir.Missing++
				}
			}
		}
		r.Instruments = append(r.Instruments, ir)

		if r.Overview == nil {
			stored[key] = len(bars) > 0
		}
		if stored[key] {
			r.Present = append(r.Present, key)
		} else {
			r.Absent = append(r.Absent, key)
		}
	}
	seen := make(map[model.InstrumentKey]bool)
	for _, o := range r.Overview {
		if o.Interval == opts.Interval && !want[o.Key] && !seen[o.Key] {
			seen[o.Key] = true
			r.Extra = append(r.Extra, o.Key)
		}
	}
	return r, nil
}

// Print writes a human-readable report to w.
func (r *Report) Print(w io.Writer) {
	rule := strings.Repeat("=", 60)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "bar store inspection  interval=%s  window=%s..%s\n", r.Options.Interval,
		r.Options.Start.Format(model.DateLayout), r.Options.End.Format(model.DateLayout))
	fmt.Fprintln(w, rule)

	if len(r.Overview) > 0 {
		fmt.Fprintf(w, "\nstore overview (%d series)\n", len(r.Overview))
		for _, o := range r.Overview {
			fmt.Fprintf(w, "  %-12s %-3s %10s  %s .. %s\n", o.Key, o.Interval, humanize.Comma(int64(o.Count)),
				o.First.Format(time.DateOnly), o.Last.Format(time.DateOnly))
		}
	}

	fmt.Fprintf(w, "\nexpected %d  present %d  missing %d  extra %d\n",
		len(r.Instruments), len(r.Present), len(r.Absent), len(r.Extra))
	if len(r.Absent) > 0 {
		fmt.Fprintf(w, "  missing: %s\n", joinKeys(r.Absent))
	}
	if len(r.Extra) > 0 {
		fmt.Fprintf(w, "  extra:   %s\n", joinKeys(r.Extra))
	}

	for _, ir := range r.Instruments {
		if ir.Count == 0 {
			fmt.Fprintf(w, "\n[FAIL] %s: no data\n", ir.Instrument.Label())
			continue
		}
		fmt.Fprintf(w, "\n[ OK ] %s\n", ir.Instrument.Label())
		fmt.Fprintf(w, "   bars:    %s\n", humanize.Comma(int64(ir.Count)))
		fmt.Fprintf(w, "   first:   %s\n", ir.First.Time().Format(time.DateOnly))
		fmt.Fprintf(w, "   last:    %s\n", ir.Last.Time().Format(time.DateOnly))
		if ir.Missing > 0 {
			fmt.Fprintf(w, "   missing: %d bars carry %v\n", ir.Missing, model.MissingValue)
		}
		for _, b := range ir.Sample {
			fmt.Fprintf(w, "   %s O:%g H:%g L:%g C:%g V:%g OI:%g\n", b.Time().Format(time.DateOnly),
				b.Open, b.High, b.Low, b.Close, b.Volume, b.OpenInterest)
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
}

func joinKeys(keys []model.InstrumentKey) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k.String()
	}
	return strings.Join(parts, ", ")
}
