// Package core validates regional membership address lists and merges them
// into one list for the print vendor.
//
// This package holds all domain logic of the tool, independent of the
// command line. It can be driven by the CLI or by tests without
// modification.
//
// # Pipeline
//
// A run over one period directory goes through these stages:
//
//  1. [LoadRegions] reads the semicolon-delimited region config
//     (konfiguration.csv), one [RegionConfig] per row, in file order.
//  2. [Precheck] verifies that every region directory holds exactly one
//     file. All violations are collected before the run aborts.
//  3. [Processor.Process] reads one region file, checks its header against
//     the required columns and runs every record through a [RowValidator].
//     Afterwards the region's address count is checked against the
//     configured bounds, and so is the presence of the check member number.
//  4. [WriteOutput] writes the merged CSV and the run log, both named with
//     the same timestamp, into the target directory.
//
// [Run] drives all stages.
//
// # Error Handling
//
// There are two tiers:
//
//   - Fatal errors are returned as Go errors (usually a [*FatalError]) and
//     end the run immediately: unreadable files, missing required columns,
//     malformed config values.
//   - Record and region errors are appended to the [RunLog] and counted.
//     The run continues so that operators see every problem at once, but
//     no output is written when the count is non-zero. [Run] reports this
//     with [ErrPrecheckFailed] or [ErrValidationFailed].
//
// Every run log line is echoed to stderr as it is recorded, because the log
// file only exists for successful runs.
package core
