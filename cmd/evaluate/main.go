// Command evaluate runs a single GMPE selection from the command line,
// without Kafka. The tectonic classification comes either from a live
// classification service (-strec-url) or from a JSON file (-classification),
// which makes the tool usable offline and in review workflows.
//
// Usage:
//
//	go run ./cmd/evaluate \
//	  -config config/select.yaml \
//	  -lat 38.3 -lon 142.4 -depth 29 -mag 9.0 \
//	  -classification testdata/tohoku_strec.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/quakemetrics/gmpe-select/internal/adapter/strec"
	"github.com/quakemetrics/gmpe-select/internal/config"
	"github.com/quakemetrics/gmpe-select/internal/domain"
	"github.com/quakemetrics/gmpe-select/internal/observability"
	"github.com/quakemetrics/gmpe-select/internal/selection"
)

func main() {
	configPath := flag.String("config", "config/select.yaml", "path to selection YAML config")
	eventID := flag.String("event-id", "manual", "event identifier for the output")
	lat := flag.Float64("lat", 0, "origin latitude in degrees")
	lon := flag.Float64("lon", 0, "origin longitude in degrees")
	depth := flag.Float64("depth", 0, "origin depth in km")
	mag := flag.Float64("mag", 0, "origin magnitude")
	strecURL := flag.String("strec-url", "", "classification service base URL")
	classificationPath := flag.String("classification", "", "path to a classification JSON file (alternative to -strec-url)")
	distancesPath := flag.String("layer-distances", "", "path to a layer-distances JSON file (map of layer name to km)")
	flag.Parse()

	if *strecURL == "" && *classificationPath == "" {
		fmt.Fprintln(os.Stderr, "either -strec-url or -classification is required")
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*configPath, *eventID, *lat, *lon, *depth, *mag, *strecURL, *classificationPath, *distancesPath); code != 0 {
		os.Exit(code)
	}
}

func run(configPath, eventID string, lat, lon, depth, mag float64, strecURL, classificationPath, distancesPath string) int {
	selCfg, err := config.LoadSelection(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load selection config: %v\n", err)
		return 1
	}

	logger := observability.NewLogger("warn", "text")
	metrics := observability.NewMetricsForTesting()

	var classifier domain.TectonicClassifier
	if classificationPath != "" {
		classifier, err = fileClassifierFrom(classificationPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load classification: %v\n", err)
			return 1
		}
	} else {
		classifier = strec.NewClient(strecURL, 10*time.Second, metrics, logger)
	}

	var distancer domain.LayerDistancer
	if distancesPath != "" {
		distancer, err = fileDistancerFrom(distancesPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load layer distances: %v\n", err)
			return 1
		}
	}

	selector, err := selection.New(selCfg, classifier, distancer, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "build selector: %v\n", err)
		return 1
	}

	origin := domain.Origin{ID: eventID, Lat: lat, Lon: lon, Depth: depth, Magnitude: mag}
	if err := origin.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid origin: %v\n", err)
		return 1
	}

	set, prov, err := selector.Select(context.Background(), origin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "evaluate: %v\n", err)
		return 1
	}

	out, err := json.MarshalIndent(domain.Assignment{
		EventID:    eventID,
		GMPEs:      set,
		Provenance: prov,
	}, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "encode assignment: %v\n", err)
		return 1
	}
	fmt.Println(string(out))
	return 0
}

// fileClassifier serves a fixed classification read from disk.
type fileClassifier struct {
	cls domain.Classification
}

func fileClassifierFrom(path string) (*fileClassifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cls domain.Classification
	if err := json.Unmarshal(data, &cls); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &fileClassifier{cls: cls}, nil
}

func (f *fileClassifier) Classify(context.Context, domain.Origin) (domain.Classification, error) {
	return f.cls, nil
}

// fileDistancer serves fixed layer distances read from disk.
type fileDistancer struct {
	distances map[string]float64
}

func fileDistancerFrom(path string) (*fileDistancer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var distances map[string]float64
	if err := json.Unmarshal(data, &distances); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &fileDistancer{distances: distances}, nil
}

func (f *fileDistancer) LayerDistances(context.Context, float64, float64) (map[string]float64, error) {
	return f.distances, nil
}
