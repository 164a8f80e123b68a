// Package io reads edge lists into graphs and moves analysis reports in and
// out of JSON.
//
// # Edge List Format
//
// An edge list is plain text with one undirected edge per line. The two node
// identifiers are separated by whitespace or a single comma:
//
//	# friendships
//	4039
//	0 1
//	0 2
//	1,2
//
// Blank lines and lines beginning with '#' or '%' are comments. When the
// first data line holds a single integer it is taken as a node-count header
// (the layout of the common SNAP and course datasets) and skipped.
//
// Every other line must hold exactly two non-negative integers. Malformed
// lines fail with an INVALID_FORMAT error that names the line number.
//
// # Reports
//
// [WriteReportJSON] and [ReadReportJSON] encode [analysis.Report] values.
// Graphs themselves are not serialized; reports are what the cache and the
// report store keep.
//
// [analysis.Report]: github.com/matzehuels/friendgraph/pkg/analysis.Report
package io
