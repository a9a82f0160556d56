// Command markertest runs marker detection on an image and prints results.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"gocv.io/x/gocv"

	"toolcheck/internal/marker"
)

func main() {
	path := flag.String("i", "", "Path to image")
	asJSON := flag.Bool("json", false, "Print detections as JSON")
	flag.Parse()

	if *path == "" {
		fmt.Println("Usage: markertest -i <image> [-json]")
		os.Exit(1)
	}

	img := gocv.IMRead(*path, gocv.IMReadColor)
	if img.Empty() {
		fmt.Fprintf(os.Stderr, "Failed to read image: %s\n", *path)
		os.Exit(1)
	}
	defer img.Close()

	detector := marker.NewDetector()
	defer detector.Close()

	markers := detector.Detect(img)

	if *asJSON {
		out, err := json.MarshalIndent(markers, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(out))
		return
	}

	fmt.Printf("=== %s (%dx%d) ===\n", *path, img.Cols(), img.Rows())
	fmt.Printf("Markers detected: %d (%d of 4 corner ids)\n", len(markers), len(marker.Corners(markers)))
	for _, m := range markers {
		fmt.Printf("  id=%d center=(%.1f, %.1f)\n", m.ID, m.Center.X, m.Center.Y)
	}
	if marker.Complete(markers) {
		fmt.Println("Corner set complete; registration possible.")
	} else {
		fmt.Println("Corner set incomplete; check-ins would run unregistered.")
	}
}
