// Package exporter writes inspection reports to disk: combined normalized
// CSVs, rollup CSVs, and a multi-sheet Excel summary workbook. CSV files are
// written with a UTF-8 BOM so Excel opens them correctly.
package exporter
