// Command trademap transforms bank-specific CSV trade data into the
// standardized JSON document used for trade comparison.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/davecgh/go-spew/spew"

	"github.com/palace-finmktstech-latam/cr2.0/internal/mapping"
	"github.com/palace-finmktstech-latam/cr2.0/internal/tabular"
	"github.com/palace-finmktstech-latam/cr2.0/internal/trademap"
)

func main() {
	input := flag.String("input", "", "Input CSV file path (required)")
	configPath := flag.String("config", "", "Mapping configuration YAML file path (required)")
	output := flag.String("output", "", "Output JSON file path (required)")
	source := flag.String("source", "", "Source type: banco or contrato (required)")
	debug := flag.Bool("debug", false, "Dump the parsed mapping configuration")
	flag.Parse()

	if *input == "" || *configPath == "" || *output == "" || *source == "" {
		fmt.Println("Error: all flags (-input, -config, -output, -source) are required.")
		flag.Usage()
		os.Exit(1)
	}

	if *source != trademap.SourceBank && *source != trademap.SourceContract {
		log.Fatalf("invalid -source %q: must be %q or %q", *source, trademap.SourceBank, trademap.SourceContract)
	}

	cfg, err := mapping.LoadFile(*configPath)
	if err != nil {
		log.Fatalf("failed to load mapping configuration: %v", err)
	}

	if *debug {
		spew.Dump(cfg)
	}

	log.Printf("starting transformation: %s -> %s", *input, *output)

	parsed, err := tabular.ReadFile(*input)
	if err != nil {
		log.Fatalf("failed to read input: %v", err)
	}

	for _, w := range parsed.Warnings {
		log.Printf("warning: %s row %d: %s", *input, w.Row, w.Message)
	}

	transformer := trademap.NewTransformer(cfg, *source)
	trades := transformer.TransformAll(parsed.Rows)

	out, err := os.Create(*output)
	if err != nil {
		log.Fatalf("failed to create output file: %v", err)
	}
	defer out.Close()

	if err := trademap.WriteDocument(out, trades); err != nil {
		log.Fatalf("failed to write output: %v", err)
	}

	log.Printf("transformation completed: %d of %d records transformed", transformer.Transformed(), transformer.Attempted())

	for _, d := range transformer.Diagnostics().Errors {
		log.Printf("failed record: %s", d)
	}

	fmt.Println("Transformation completed successfully!")
	fmt.Printf("Output written to: %s\n", *output)
}
