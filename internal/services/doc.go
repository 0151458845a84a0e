// Package services contains the business logic layer for Cargo Pulse.
//
// The data service owns dataset lifecycle: loading inspection workbooks and
// remote sheets, normalizing their rows against the canonical schema,
// computing rollup analytics, applying row edits, and exporting reports.
// The health service reports process and dataset health for monitoring.
//
// Services are constructed once at startup and shared between the HTTP
// transport and the batch processor; they hold no per-request state beyond
// the dataset store they own.
package services
