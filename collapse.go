// Package collapse provides the disclosure layer for statically rendered
// content pages: collapsible blocks, the rules that decide which blocks are
// expanded, and the reveal logic that opens every block hiding a target.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, goldmark-backed markdown/,
// bloom/).
package collapse
