// Package main provides the entry point for the cerco CLI.
//
// cerco composes case reports into paginated PDF documents.
//
// Usage:
//
//	cerco compose --input report.yaml --out report.pdf
//	cerco import --db reports.db report.yaml...
//	cerco batch --db reports.db --out-dir out/
//	cerco serve --db reports.db --addr :8080
//
// See --help for all available options.
package main

// main is the entry point for cerco.
func main() {
	Execute()
}
