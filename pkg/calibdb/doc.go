// Package calibdb resolves calibration records from a calibration index
// folder.
//
// An index folder is a git working copy holding:
//
//   - calib_db.csv: one row per calibration artifact, with the columns
//     Calibration_Step, Start, End, Size, Type, File and optionally Channel
//     and Filter
//   - version.yml: the dataset version and instrument name
//   - the raw binary artifacts the File column points to
//
// The table is loaded once by New and never changes afterwards. An End value
// of "Now" is replaced by the wall clock at load time, so a long-lived Index
// treats such records as ending at the moment it was built. A Filter value of
// "all" is stored as 0.
//
// Resolve ANDs four conditions over the table (step, date range, channel,
// filter) and returns the first matching row in file order. Several matching
// rows are not an error.
package calibdb
