// Command play loads and validates a station configuration, then runs the
// dataset frames through the preprocessing formatter, dumping the formatted
// frames as PNG files. It exits non-zero on any load or validation failure.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/YetAnotherUser24/awive/internal/config"
	"github.com/YetAnotherUser24/awive/internal/monitoring"
	"github.com/YetAnotherUser24/awive/internal/video"
)

var (
	configDir = flag.String("config-dir", "config", "Directory containing per-station config files")
	outDir    = flag.String("out", "images", "Directory for formatted frame dumps")
	undistort = flag.Bool("undistort", false, "Apply distortion correction")
	roi       = flag.Bool("roi", false, "Extract only the region of interest")
	wlcrop    = flag.Bool("wlcrop", false, "Crop to the water-level region instead of the ROI")
	blur      = flag.Bool("blur", false, "Apply a median blur")
	resize    = flag.Bool("resize", false, "Resize frames to 1000x1000")
	delay     = flag.Int("time", 1, "Delay between frames (ms)")
)

func main() {
	flag.Parse()
	if flag.NArg() != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <station> <video-id>\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
		os.Exit(2)
	}
	station, videoID := flag.Arg(0), flag.Arg(1)

	configPath := filepath.Join(*configDir, station+".json")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load config %s: %v", configPath, err)
	}
	monitoring.Logf("loaded station %s (video %s): %d control points", station, videoID, len(cfg.Dataset.GCP.Pixels))

	if *wlcrop && cfg.WaterLevel == nil {
		log.Fatalf("station %s has no water_level section", station)
	}

	loader, err := video.MakeLoader(cfg.Dataset)
	if err != nil {
		log.Fatalf("failed to build loader: %v", err)
	}
	defer loader.Close()
	formatter := video.NewFormatter(cfg)

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		log.Fatalf("failed to create output dir: %v", err)
	}

	if err := play(loader, formatter, cfg); err != nil {
		log.Fatalf("playback failed: %v", err)
	}
}

func play(loader video.Loader, formatter *video.Formatter, cfg *config.Config) error {
	for i := 0; loader.HasNext(); i++ {
		img, err := loader.Read()
		if err != nil {
			return err
		}
		if *undistort {
			img = formatter.ApplyDistortionCorrection(img)
		}
		switch {
		case *roi:
			img = formatter.ApplyROIExtraction(img, 0)
		case *wlcrop:
			img = video.Crop(img, cfg.WaterLevel.GetROI())
		}
		if *blur {
			img = video.MedianBlur(img, 5)
		}
		if *resize {
			img = video.Resize(img, 1000, 1000)
		}

		path := filepath.Join(*outDir, fmt.Sprintf("im_%04d.png", i))
		if err := writePNG(path, img); err != nil {
			return err
		}
		monitoring.Logf("wrote %s", path)
		time.Sleep(time.Duration(*delay) * time.Millisecond)
	}
	return nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}
