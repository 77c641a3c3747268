// Command tradecompare compares two standardized trade JSON documents (or
// two directories of paired banco/contrato output files) and generates CSV
// and HTML difference reports.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/palace-finmktstech-latam/cr2.0/internal/jsondiff"
	"github.com/palace-finmktstech-latam/cr2.0/internal/report"
)

// suppressedPath always differs between the two sides (each side assigns
// its own identifier) and is excluded from the paired-directory reports.
const suppressedPath = "trade.tradeIdentifier[0].assignedIdentifier[0].identifier.value"

func main() {
	bancoDir := flag.String("banco-dir", "", "Directory of banco output files (paired mode)")
	contratoDir := flag.String("contrato-dir", "", "Directory of contrato output files (paired mode)")
	translationsPath := flag.String("translations", "", "Path to JSON file with path translations")
	outputDir := flag.String("output-dir", ".", "Output directory for reports")
	prefix := flag.String("prefix", "json_comparison", "Prefix for output files")
	flag.Parse()

	translations := loadTranslations(*translationsPath)

	switch {
	case *bancoDir != "" && *contratoDir != "":
		runPaired(*bancoDir, *contratoDir, translations, *outputDir, *prefix)

	case flag.NArg() == 2:
		runSingle(flag.Arg(0), flag.Arg(1), translations, *outputDir, *prefix)

	default:
		fmt.Println("Usage: tradecompare [flags] <file1.json> <file2.json>")
		fmt.Println("   or: tradecompare -banco-dir <dir> -contrato-dir <dir> [flags]")
		flag.Usage()
		os.Exit(1)
	}
}

func loadTranslations(path string) jsondiff.Translations {
	if path == "" {
		return nil
	}

	t, err := jsondiff.LoadTranslations(path)
	if err != nil {
		log.Printf("warning: %v", err)
		return nil
	}

	log.Printf("loaded %d path translations", len(t))

	return t
}

// runSingle compares two explicit files: CSV plus HTML report, strict
// labels (an untranslated path shows an empty description).
func runSingle(file1, file2 string, translations jsondiff.Translations, outputDir, prefix string) {
	left, err := jsondiff.DecodeFile(file1)
	if err != nil {
		log.Fatalf("%v", err)
	}

	right, err := jsondiff.DecodeFile(file2)
	if err != nil {
		log.Fatalf("%v", err)
	}

	entries := jsondiff.Compare(left, right, jsondiff.Options{
		Translations: translations,
		LabelMode:    jsondiff.LabelStrict,
	})

	if len(entries) == 0 {
		fmt.Println("No differences found! The JSON files are identical.")
		return
	}

	stats := jsondiff.Summarize(entries)

	fmt.Printf("Found %d differences:\n", stats.Total())
	fmt.Printf("  - Added: %d\n", stats.Added)
	fmt.Printf("  - Removed: %d\n", stats.Removed)
	fmt.Printf("  - Modified: %d\n", stats.Modified)
	fmt.Printf("  - Type Changed: %d\n", stats.TypeChanged)

	timestamp := time.Now().Format("20060102_150405")
	csvPath := filepath.Join(outputDir, fmt.Sprintf("%s_%s.csv", prefix, timestamp))
	htmlPath := filepath.Join(outputDir, fmt.Sprintf("%s_%s.html", prefix, timestamp))

	writeCSV(csvPath, entries, report.CSVOptions{})

	htmlFile, err := os.Create(htmlPath)
	if err != nil {
		log.Fatalf("failed to create HTML report: %v", err)
	}
	defer htmlFile.Close()

	if err := report.RenderHTML(htmlFile, filepath.Base(file1), filepath.Base(file2), entries); err != nil {
		log.Fatalf("%v", err)
	}

	fmt.Printf("CSV report saved to: %s\n", csvPath)
	fmt.Printf("HTML report saved to: %s\n", htmlPath)
}

// runPaired matches banco/contrato files across two directories and writes
// one grouped HTML report plus a CSV per pair. Labels are lenient (an
// untranslated path falls back to the raw path) and the per-side identifier
// path is suppressed.
func runPaired(bancoDir, contratoDir string, translations jsondiff.Translations, outputDir, prefix string) {
	log.Printf("searching for matching file pairs...")

	pairs, err := report.FindMatchingPairs(bancoDir, contratoDir)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if len(pairs) == 0 {
		fmt.Println("No matching file pairs found!")
		os.Exit(1)
	}

	log.Printf("found %d matching file pairs", len(pairs))

	timestamp := time.Now().Format("20060102_150405")

	var results []report.PairResult

	for _, pair := range pairs {
		left, err := jsondiff.DecodeFile(pair.Banco.Path)
		if err != nil {
			log.Fatalf("%v", err)
		}

		right, err := jsondiff.DecodeFile(pair.Contrato.Path)
		if err != nil {
			log.Fatalf("%v", err)
		}

		entries := jsondiff.Compare(left, right, jsondiff.Options{
			Translations: translations,
			LabelMode:    jsondiff.LabelLenient,
			Exclude:      []string{suppressedPath},
		})

		results = append(results, report.PairResult{
			Pair:    pair,
			Entries: entries,
			Stats:   jsondiff.Summarize(entries),
		})

		csvPath := filepath.Join(outputDir, fmt.Sprintf("%s_%s_%s.csv", prefix, pair.Banco.MatchKey(), timestamp))
		writeCSV(csvPath, entries, report.CSVOptions{MissingText: "No registrado"})
	}

	htmlPath := filepath.Join(outputDir, fmt.Sprintf("%s_%s.html", prefix, timestamp))

	htmlFile, err := os.Create(htmlPath)
	if err != nil {
		log.Fatalf("failed to create HTML report: %v", err)
	}
	defer htmlFile.Close()

	if err := report.RenderGroupedHTML(htmlFile, results); err != nil {
		log.Fatalf("%v", err)
	}

	fmt.Printf("Reports generated for %d pairs\n", len(results))
	fmt.Printf("HTML report: %s\n", htmlPath)
}

func writeCSV(path string, entries []jsondiff.Entry, opts report.CSVOptions) {
	f, err := os.Create(path)
	if err != nil {
		log.Fatalf("failed to create CSV report: %v", err)
	}
	defer f.Close()

	if err := report.WriteCSV(f, entries, opts); err != nil {
		log.Fatalf("%v", err)
	}
}
