// Package weeding runs the two-pass corpus transformation.
//
// The first pass counts every word of every document. The second pass walks
// the corpus again and, for each document, keeps or drops each word occurrence
// according to a subsample.Policy, then writes the reassembled text to the
// sink under the document's name. The frequency table is read-only during the
// second pass, so documents can be weeded concurrently; each document draws
// from its own random stream derived from the run seed, which makes the output
// of a seeded run independent of worker scheduling.
package weeding
