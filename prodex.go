// Package prodex extracts structured product records from rendered HTML
// pages without prior knowledge of a site's template. It locates product
// containers with ordered selector cascades (falling back to a structural
// scan) and pulls a normalized record out of each one, always producing a
// best-effort result instead of failing on odd markup.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, rod/, http/).
package prodex
