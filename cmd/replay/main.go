// Command replay re-runs a recorded frame log through the sculpting
// pipeline without a transport and reports the resulting world.
package main

import (
	"flag"
	"log"
	"os"

	"handsculpt.ai/internal/export"
	"handsculpt.ai/internal/persistence/framelog"
	"handsculpt.ai/internal/protocol"
	"handsculpt.ai/internal/sim/session"
	"handsculpt.ai/internal/sim/tuning"
	"handsculpt.ai/internal/sim/world"
)

func main() {
	var (
		framesPath = flag.String("frames", "./data/frames.jsonl.zst", "recorded frame log")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: built-in defaults)")
		objPath    = flag.String("obj", "", "write final world as OBJ to this path")
		glbPath    = flag.String("glb", "", "write final world as GLB to this path")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[replay] ", log.LstdFlags|log.Lmicroseconds)

	tune := tuning.Defaults()
	if *tuningPath != "" {
		var err error
		tune, err = tuning.Load(*tuningPath)
		if err != nil {
			logger.Fatalf("load tuning: %v", err)
		}
	}

	w := world.New(tune.GridSize)

	// Drain session output so slow-consumer drops never skew a replay.
	out := make(chan []byte, 1024)
	done := make(chan struct{})
	counts := map[string]int{}
	go func() {
		defer close(done)
		for b := range out {
			if base, err := protocol.DecodeBase(b); err == nil {
				counts[base.Type]++
			}
		}
	}()

	sess := session.New(w, tune, out)

	frames := 0
	err := framelog.Read(*framesPath, func(f protocol.FrameMsg) error {
		frames++
		return sess.Step(f)
	})
	if err != nil {
		logger.Fatalf("replay: %v", err)
	}
	sess.Close()
	close(out)
	<-done

	logger.Printf("replayed %d frames: %d voxels, digest %s", frames, w.Count(), w.Digest())
	for typ, n := range counts {
		logger.Printf("  %s x%d", typ, n)
	}
	if n := sess.Dropped(); n > 0 {
		logger.Printf("warning: %d outbound messages dropped", n)
	}

	if *objPath != "" {
		writeFile(logger, *objPath, func(f *os.File) error { return export.WriteOBJ(f, w) })
	}
	if *glbPath != "" {
		writeFile(logger, *glbPath, func(f *os.File) error { return export.WriteGLB(f, w, tune.Palette) })
	}
}

func writeFile(logger *log.Logger, path string, fn func(*os.File) error) {
	f, err := os.Create(path)
	if err != nil {
		logger.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := fn(f); err != nil {
		logger.Fatalf("write %s: %v", path, err)
	}
	logger.Printf("wrote %s", path)
}
