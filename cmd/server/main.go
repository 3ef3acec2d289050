// Package main provides the ORCA grid description HTTP server.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/nemo-coupling/orca-grids/internal/adapter/store/orca"
	httpHandler "github.com/nemo-coupling/orca-grids/internal/http"
)

const version = "0.1.0"

func main() {
	// Parse command-line flags.
	showHelp := flag.Bool("help", false, "Show usage information")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showHelp {
		printUsage()
		return
	}

	if *showVersion {
		fmt.Printf("orca-grids version %s\n", version)
		return
	}

	// Load configuration from environment.
	port := getEnv("PORT", "8080")
	domainCfg := getEnv("DOMAIN_CFG_PATH", "./data/domain_cfg.nc")
	masks := getEnv("MASKS_PATH", "")

	log.Printf("Starting ORCA grid server...")
	log.Printf("Port: %s", port)
	log.Printf("Domain config: %s", domainCfg)
	if masks != "" {
		log.Printf("Masks file: %s", masks)
	} else {
		log.Printf("No masks file configured (masks derived from top_level)")
	}

	// Initialize the coordinate source; this validates the dataset and
	// resolves the configuration name.
	source, err := orca.NewStore(domainCfg, masks)
	if err != nil {
		log.Fatalf("Failed to open grid source: %v", err)
	}
	ni, nj := source.Shape()
	log.Printf("Loaded grid %s (%d x %d)", source.Name(), ni, nj)

	// Setup router.
	router := httpHandler.SetupRouter(source)

	// Start server.
	addr := fmt.Sprintf(":%s", port)
	log.Printf("Server listening on %s", addr)
	log.Printf("Health check: http://localhost:%s/healthz", port)
	log.Printf("API endpoints:")
	log.Printf("  - GET /v1/grids")
	log.Printf("  - GET /v1/subgrids/:subgrid")
	log.Printf("  - GET /v1/subgrids/:subgrid/cells/:i/:j")

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// printUsage prints usage information.
func printUsage() {
	fmt.Printf("ORCA Grid Server v%s\n\n", version)
	fmt.Println("USAGE:")
	fmt.Println("  orca-grids [flags]")
	fmt.Println()
	fmt.Println("FLAGS:")
	fmt.Println("  -help          Show this help message")
	fmt.Println("  -version       Show version information")
	fmt.Println()
	fmt.Println("ENVIRONMENT VARIABLES:")
	fmt.Println("  PORT                    Server port (default: 8080)")
	fmt.Println("  DOMAIN_CFG_PATH         Path to the NEMO domain_cfg NetCDF file")
	fmt.Println("  MASKS_PATH              Path to a NEMO mask utility file (optional)")
	fmt.Println("  CORS_ALLOWED_ORIGINS    Comma-separated list of allowed origins (default: all origins)")
	fmt.Println()
	fmt.Println("API ENDPOINTS:")
	fmt.Println("  GET /healthz                           Health check")
	fmt.Println("  GET /v1/grids                          Supported grid configurations")
	fmt.Println("  GET /v1/subgrids/{t|u|v}               Subgrid summary (?arrays=true for full data)")
	fmt.Println("  GET /v1/subgrids/{t|u|v}/cells/{i}/{j} Single cell geometry")
	fmt.Println()
}
