// Package lottery holds the Lotofácil domain: draws, frequency tables, the
// weighted ticket generator and the ticket analyzer.
//
// Everything here is pure and free of I/O. Randomness is injected so that
// seeded generators are reproducible.
package lottery
