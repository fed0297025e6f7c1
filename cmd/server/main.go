// Command server runs the hand-gesture sculpting service: a websocket
// ingest for tracking frames plus HTTP export endpoints.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"handsculpt.ai/internal/export"
	"handsculpt.ai/internal/persistence/framelog"
	"handsculpt.ai/internal/sim/tuning"
	"handsculpt.ai/internal/sim/world"
	"handsculpt.ai/internal/transport/ws"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "http listen address")
		configDir  = flag.String("configs", "./configs", "config directory")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		record     = flag.Bool("record", false, "record inbound frames to <data>/frames.jsonl.zst")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Printf("tuning not found (%s); using defaults", tp)
			tune = tuning.Defaults()
		} else {
			logger.Fatalf("load tuning: %v", err)
		}
	}
	logger.Printf("tuning digest %s", tune.Digest())

	var rec *framelog.Writer
	if *record {
		path := filepath.Join(*dataDir, "frames.jsonl.zst")
		rec, err = framelog.NewWriter(path)
		if err != nil {
			logger.Fatalf("open frame log: %v", err)
		}
		defer rec.Close()
		logger.Printf("recording frames to %s", path)
	}

	w := world.New(tune.GridSize)
	srv := ws.NewServer(w, tune, logger, recorderOrNil(rec))

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusOK)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.HandleFunc("/v1/ws", srv.Handler())
	mux.HandleFunc("/v1/export.obj", func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "text/plain; charset=utf-8")
		rw.Header().Set("Content-Disposition", `attachment; filename="sculpt.obj"`)
		srv.View(func(w *world.World) {
			if err := export.WriteOBJ(rw, w); err != nil {
				logger.Printf("export obj: %v", err)
			}
		})
	})
	mux.HandleFunc("/v1/export.mtl", func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "text/plain; charset=utf-8")
		rw.Header().Set("Content-Disposition", `attachment; filename="sculpt.mtl"`)
		if err := export.WriteMTL(rw, tune.Palette); err != nil {
			logger.Printf("export mtl: %v", err)
		}
	})
	mux.HandleFunc("/v1/export.glb", func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "model/gltf-binary")
		rw.Header().Set("Content-Disposition", `attachment; filename="sculpt.glb"`)
		srv.View(func(w *world.World) {
			if err := export.WriteGLB(rw, w, tune.Palette); err != nil {
				logger.Printf("export glb: %v", err)
			}
		})
	})
	mux.HandleFunc("/v1/state", func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "application/json")
		srv.View(func(w *world.World) {
			fmt.Fprintf(rw, `{"grid_size":%d,"count":%d,"digest":%q,"voxels":`, w.Size(), w.Count(), w.Digest())
			_, _ = rw.Write(w.State())
			_, _ = rw.Write([]byte("}"))
		})
	})

	ctx, cancel := signalContext()
	defer cancel()

	httpSrv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		_ = httpSrv.Shutdown(ctx2)
	}()

	logger.Printf("listening on %s", *addr)
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("ListenAndServe: %v", err)
	}
}

// recorderOrNil keeps a typed-nil *framelog.Writer from sneaking into
// the Recorder interface.
func recorderOrNil(rec *framelog.Writer) ws.Recorder {
	if rec == nil {
		return nil
	}
	return rec
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}
