// Package persist implements the JSON model document format for saving
// and restoring trained parameter stores.
//
// The document is a single JSON object with three contractual keys:
//
//	{
//	  "shape":   [n0, n1, ..., nL-1],
//	  "weights": [W1, ..., W(L-1)],   // each Wl: nl x n(l-1) nested array
//	  "biases":  [b1, ..., b(L-1)]    // each bl: nl x 1 nested array
//	}
//
// Loading is defensive: the raw bytes, the document structure, and every
// matrix dimension are validated against the declared shape before any
// parameter store is constructed. A failed load commits nothing.
package persist
