package main

import (
	"context"
	"encoding/csv"
	"flag"
	"image"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/LdDl/colortrack-go/colortrack"
	"github.com/LdDl/colortrack-go/config"
	"github.com/LdDl/colortrack-go/internal/overlay"
	"github.com/LdDl/colortrack-go/metrics"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	framesDir   = flag.String("frames", "", "Directory with frame images, processed in name order")
	roiFlag     = flag.String("roi", "", "Region of interest x,y,w,h (defaults to the whole first frame)")
	boxesFlag   = flag.String("boxes", "", "Initial boxes x,y,w,h[;x,y,w,h...]")
	seedFlag    = flag.String("seed", "", "Optional seed index,x,y applied on the first frame")
	configPath  = flag.String("config", "", "Optional JSON tuning file")
	outDir      = flag.String("out", "", "Optional directory for annotated PNG frames")
	metricsAddr = flag.String("metrics", "", "Optional address to serve /metrics on, e.g. :9090")
	workers     = flag.Int("workers", 0, "Per-object goroutines (overrides tuning file when > 0)")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		log.Fatalln(err)
	}
}

func run() error {
	if *framesDir == "" || *boxesFlag == "" {
		flag.Usage()
		return errors.New("-frames and -boxes are required")
	}
	boxes, err := parseBoxes(*boxesFlag)
	if err != nil {
		return errors.Wrap(err, "Bad -boxes")
	}
	seed, err := parseSeed(*seedFlag)
	if err != nil {
		return errors.Wrap(err, "Bad -seed")
	}
	cfg := colortrack.DefaultConfig()
	if *configPath != "" {
		tuning, err := config.LoadTuningConfig(*configPath)
		if err != nil {
			return err
		}
		cfg = tuning.TrackerConfig()
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	files, err := listFrames(*framesDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.Errorf("No frames found in %s", *framesDir)
	}
	if *outDir != "" {
		if err := os.MkdirAll(*outDir, 0755); err != nil {
			return errors.Wrap(err, "Can't create output directory")
		}
	}

	collector := metrics.NewCollector("colortrack", nil)
	if *metricsAddr != "" {
		registry := prometheus.NewRegistry()
		if err := collector.Register(registry); err != nil {
			return err
		}
		_, stop, err := serveMetrics(*metricsAddr, registry)
		if err != nil {
			return err
		}
		defer func() {
			if err := stop(); err != nil {
				log.Printf("Metrics server shutdown failed: %v\n", err)
			}
		}()
	}

	tracker := colortrack.NewTracker(cfg, colortrack.WithObserver(collector))
	if err := tracker.Initialize(); err != nil {
		return err
	}
	defer tracker.Release()

	out := csv.NewWriter(os.Stdout)
	defer out.Flush()
	if err := out.Write([]string{"frame", "index", "x", "y", "w", "h", "confidence", "lost"}); err != nil {
		return err
	}

	published := false
	for _, file := range files {
		img, err := decodeFrame(file)
		if err != nil {
			log.Printf("[colortrack-replay] skipping %s: %v\n", file, err)
			continue
		}
		if !published {
			roi := colortrack.NewRect(0, 0, img.Bounds().Dx(), img.Bounds().Dy())
			if *roiFlag != "" {
				roi, err = parseRect(*roiFlag)
				if err != nil {
					return errors.Wrap(err, "Bad -roi")
				}
			}
			tracker.Publish(colortrack.Snapshot{ROI: roi, Boxes: boxes, Reinit: true, Seed: seed})
			published = true
		}
		res, err := tracker.ProcessFrame(colortrack.FrameFromImage(img))
		if err != nil {
			log.Printf("[colortrack-replay] frame %s rejected: %v\n", file, err)
			continue
		}
		if res.SeedErr != nil {
			log.Printf("[colortrack-replay] seed rejected on %s: %v\n", file, res.SeedErr)
		}
		name := filepath.Base(file)
		for _, obj := range res.Objects {
			row := []string{
				name,
				strconv.Itoa(obj.Index),
				strconv.Itoa(obj.Box.X),
				strconv.Itoa(obj.Box.Y),
				strconv.Itoa(obj.Box.Width),
				strconv.Itoa(obj.Box.Height),
				strconv.FormatFloat(obj.Confidence, 'f', 3, 64),
				strconv.FormatBool(obj.Lost),
			}
			if err := out.Write(row); err != nil {
				return err
			}
		}
		if *outDir != "" {
			if err := writeAnnotated(filepath.Join(*outDir, strings.TrimSuffix(name, filepath.Ext(name))+".png"), img, tracker.Session().ROI(), res); err != nil {
				return err
			}
		}
	}
	return out.Error()
}

func decodeFrame(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrap(err, "Can't decode image")
	}
	return img, nil
}

func writeAnnotated(path string, img image.Image, roi colortrack.Rectangle, res colortrack.Result) error {
	b := img.Bounds()
	canvas := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(canvas, canvas.Rect, img, b.Min, draw.Src)
	overlay.Draw(canvas, roi, res.Objects, overlay.DefaultStyle())
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "Can't create annotated frame")
	}
	defer f.Close()
	if err := png.Encode(f, canvas); err != nil {
		return errors.Wrapf(err, "Can't encode %s", path)
	}
	return nil
}

// serveMetrics binds addr and serves /metrics from registry in background.
// The returned stop shuts the server down and reports the shutdown error.
func serveMetrics(addr string, registry *prometheus.Registry) (net.Addr, func() error, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, errors.Wrap(err, "Can't listen for metrics")
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	server := &http.Server{
		Handler: mux,
	}
	go func() {
		log.Printf("Starting metrics server on %s\n", listener.Addr())
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Printf("Metrics server failed: %v\n", err)
		}
	}()
	stop := func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(ctx)
	}
	return listener.Addr(), stop, nil
}
