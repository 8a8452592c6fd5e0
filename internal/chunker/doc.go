// Package chunker packs normalised document blocks into token-budgeted
// chunks. Text blocks are split structurally and packed with a character
// overlap tail between consecutive chunks; table blocks are grouped by
// rows with the header repeated, and rendered to compact markdown so both
// kinds are scored through the same text field.
package chunker
