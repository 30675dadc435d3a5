// Package report builds PDF and XLSX reports from threat models, findings
// and the organization dashboard.
//
// PDFs are rendered from an HTML template by headless Chrome. When no
// browser can be started, NativeRenderer draws the same sections with fpdf.
// Artifacts are optionally signed with an OpenPGP key and handed to a
// Storage backend (a local directory or an S3 bucket).
package report
