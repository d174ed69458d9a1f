// Package flowlog processes flow-log records: positional field extraction,
// format-sniffed record sources, insertion-ordered count tables, and the
// sequential pipeline that ties them to the reference tables.
package flowlog
