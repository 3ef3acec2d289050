// Package main exports ORCA subgrid descriptions as JSON for offline use by
// coupling tools.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/nemo-coupling/orca-grids/internal/adapter/store/orca"
	"github.com/nemo-coupling/orca-grids/internal/domain"
	"github.com/nemo-coupling/orca-grids/internal/usecase"
)

func main() {
	// Command line flags
	domainCfg := flag.String("domain-cfg", "./data/domain_cfg.nc", "Path to the NEMO domain_cfg NetCDF file")
	masks := flag.String("masks", "", "Path to a NEMO mask utility file (optional)")
	subgrid := flag.String("subgrid", "t", "Subgrid to export: t, u, v, or all")
	out := flag.String("out", "", "Output file (default: stdout)")
	indent := flag.Bool("indent", false, "Indent the JSON output")

	flag.Parse()

	source, err := orca.NewStore(*domainCfg, *masks)
	if err != nil {
		log.Fatalf("Failed to open grid source: %v", err)
	}

	var payload any
	if *subgrid == "all" {
		bundles, err := usecase.BuildAllBundles(source)
		if err != nil {
			log.Fatalf("Failed to build subgrid bundles: %v", err)
		}
		payload = bundles
	} else {
		sg, err := domain.ParseSubgrid(*subgrid)
		if err != nil {
			log.Fatalf("Invalid -subgrid: %v", err)
		}
		bundle, err := usecase.BuildBundle(source, sg)
		if err != nil {
			log.Fatalf("Failed to build subgrid bundle: %v", err)
		}
		payload = bundle
	}

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			log.Fatalf("Failed to create output file: %v", err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				log.Fatalf("Failed to close output file: %v", err)
			}
		}()
		w = f
	}

	enc := json.NewEncoder(w)
	if *indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(payload); err != nil {
		log.Fatalf("Failed to encode JSON: %v", err)
	}
}
