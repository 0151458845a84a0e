// Package dataprocessing turns ingested shipment-inspection rows into
// query-able results. It covers the complete path from Excel ingestion to
// rollup analytics.
//
// # Architecture
//
// The package is organized into three main components:
//
//  1. Parser: reads inspection workbooks and extracts raw rows
//  2. Classifier: maps free-text REMARKS into the status taxonomy
//  3. Aggregator: computes per-container, per-factory, and overall
//     completion rollups
//
// # Usage
//
// Basic parsing example:
//
//	rows, err := dataprocessing.ParseFile("CONTAINER 12 inspection.xlsx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Rollups are recomputed fresh on every call and never persisted:
//
//	agg := dataprocessing.NewAggregator(slog.Default())
//	records := agg.ByContainer(normalized)
package dataprocessing
