// Command analyzetest runs the full analysis pipeline against a template
// JSON file and a captured image, printing per-slot verdicts.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/fogleman/gg"

	"toolcheck/internal/analyze"
	"toolcheck/internal/annotate"
	"toolcheck/internal/config"
	"toolcheck/internal/logger"
	"toolcheck/internal/marker"
	"toolcheck/internal/model"
)

func main() {
	templatePath := flag.String("t", "", "Path to template JSON")
	imagePath := flag.String("i", "", "Path to captured image")
	outPath := flag.String("o", "", "Write annotated PNG to this path")
	fontPath := flag.String("font", "", "TTF font for annotation labels")
	flag.Parse()

	if *templatePath == "" || *imagePath == "" {
		fmt.Println("Usage: analyzetest -t <template.json> -i <image> [-o <annotated.png>] [-font <file.ttf>]")
		os.Exit(1)
	}

	raw, err := os.ReadFile(*templatePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read template: %v\n", err)
		os.Exit(1)
	}
	var tpl model.Template
	if err := json.Unmarshal(raw, &tpl); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse template: %v\n", err)
		os.Exit(1)
	}

	imageBytes, err := os.ReadFile(*imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read image: %v\n", err)
		os.Exit(1)
	}

	renderer, err := annotate.NewRenderer(*fontPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load font: %v\n", err)
		os.Exit(1)
	}

	pipeline := analyze.NewPipeline(marker.NewDetector(), renderer, config.DefaultDetectionParams(), logger.NewNop())
	defer pipeline.Close()

	res, err := pipeline.Analyze(imageBytes, &tpl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Analysis failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("=== %s vs template %q ===\n", *imagePath, tpl.Name)
	reg := res.Registration
	if reg.Applied {
		fmt.Printf("Registration: applied (%d/%d markers)\n", reg.MarkersDetected, reg.MarkersExpected)
	} else {
		fmt.Printf("Registration: skipped (%s)\n", reg.Reason)
	}

	for _, v := range res.Verdicts {
		fmt.Printf("  slot %2d %-24s %-10s conf=%.2f  bright=%.2f sat=%.2f edge=%.3f\n",
			v.SlotIndex, v.Name, v.Status, v.Confidence,
			v.Signals.BrightnessRatio, v.Signals.SaturationRatio, v.Signals.EdgeDensity)
	}
	fmt.Printf("Summary: %d present, %d missing, %d uncertain (of %d)\n",
		res.Summary.Present, res.Summary.Missing, res.Summary.Uncertain, res.Summary.Total)

	if *outPath != "" {
		if err := gg.SavePNG(*outPath, res.Annotated); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", *outPath, err)
			os.Exit(1)
		}
		fmt.Printf("Annotated image written to %s\n", *outPath)
	}
}
