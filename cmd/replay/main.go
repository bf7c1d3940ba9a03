// Command replay re-runs a recorded trace against a fresh session and
// verifies the state digest at every step. A clean run proves the trace,
// the catalogs, and the kernel build all still agree; the first divergence
// is reported with both digests.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"craftgrid.ai/internal/persistence/snapshot"
	"craftgrid.ai/internal/persistence/trace"
	"craftgrid.ai/internal/sim/catalogs"
	"craftgrid.ai/internal/sim/session"
)

func main() {
	var (
		tracePath = flag.String("trace", "", "path to episode trace (.jsonl.zst)")
		snapPath  = flag.String("snapshot", "", "snapshot to inspect instead of replaying (optional)")
		configDir = flag.String("configs", "./configs", "config directory")
		quiet     = flag.Bool("quiet", false, "only print the final verdict")
	)
	flag.Parse()

	if *snapPath != "" {
		inspectSnapshot(*snapPath)
		return
	}
	if *tracePath == "" {
		fmt.Fprintln(os.Stderr, "missing -trace (or -snapshot)")
		os.Exit(2)
	}

	cats, err := catalogs.Load(*configDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load catalogs:", err)
		os.Exit(1)
	}

	r, err := trace.Open(*tracePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open trace:", err)
		os.Exit(1)
	}
	defer r.Close()

	h := r.Header
	if !*quiet {
		fmt.Printf("trace episode=%s seed=%d world=%dx%d\n", h.EpisodeID, h.Seed, h.Width, h.Height)
	}

	sess, err := session.New(session.Config{
		Seed:   h.Seed,
		Width:  h.Width,
		Height: h.Height,
		Tuning: h.Tuning,
	}, cats)
	if err != nil {
		fmt.Fprintln(os.Stderr, "create session:", err)
		os.Exit(1)
	}
	if got := sess.Digest(); got != h.Digest {
		fmt.Fprintf(os.Stderr, "DIVERGED at tick 0: trace=%s replay=%s\n", h.Digest, got)
		os.Exit(1)
	}

	var steps int
	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, "read trace:", err)
			os.Exit(1)
		}
		a, ok := session.ParseAction(rec.Action)
		if !ok {
			fmt.Fprintf(os.Stderr, "tick %d: unknown action %q\n", rec.Tick, rec.Action)
			os.Exit(1)
		}
		out, err := sess.Step(a)
		if err != nil {
			fmt.Fprintf(os.Stderr, "tick %d: step: %v\n", rec.Tick, err)
			os.Exit(1)
		}
		if got := sess.Digest(); got != rec.Digest {
			fmt.Fprintf(os.Stderr, "DIVERGED at tick %d: trace=%s replay=%s\n", rec.Tick, rec.Digest, got)
			os.Exit(1)
		}
		if out.Done != rec.Done {
			fmt.Fprintf(os.Stderr, "tick %d: done mismatch: trace=%v replay=%v\n", rec.Tick, rec.Done, out.Done)
			os.Exit(1)
		}
		steps++
	}

	fmt.Printf("OK: %d steps verified, final tick %d\n", steps, sess.Tick())
}

func inspectSnapshot(path string) {
	h, err := snapshot.ReadHeader(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read snapshot:", err)
		os.Exit(1)
	}
	fmt.Printf("snapshot v%d episode=%s tick=%d digest=%s\n", h.Version, h.EpisodeID, h.Tick, h.Digest)
}
