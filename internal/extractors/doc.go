// Package extractors provides implementations of the Extractor interface
// for the document formats askdoc accepts. Each extractor turns uploaded
// bytes of one MIME type family into plain text that keeps paragraph
// breaks, since chunking splits on blank lines.
//
// Extractors are registered with the Registry at startup.
package extractors
