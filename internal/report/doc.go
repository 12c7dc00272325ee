// Package report renders the summary of a finished session as JSON.
//
// The report is produced with protojson over structpb values and written to
// stdout or a file at the end of a session. It is never read back.
package report
