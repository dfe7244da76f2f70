// Package matching scores how well a free-text ability name matches a
// catalog entry name.
//
// Literal prefix relationships always outrank edit-distance similarity:
//
//	exact (after normalization)        1.0
//	target starts with search          [0.9, 1.0)
//	search starts with target          0.8
//	anything else                      (1 - distance/maxLen) * 0.7
package matching
