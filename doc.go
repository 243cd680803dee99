// Package arcrack recovers forgotten archive passwords by enumerating
// candidate strings and handing each to an external archive verifier
// until one is accepted or the search space is exhausted.
//
// The search space is described by an ordered charset, a length range,
// and an optional wildcard pattern (`?` one charset character, `*` a
// charset-character run, `\c` a literal). Candidates are produced by a
// deterministic bijection between 64-bit indices and strings, so the
// space can be split into contiguous index windows across worker
// goroutines, walked length by length in ascending or descending
// order, or shuffled wholesale for random order.
//
// # Quick Start
//
//	cracker, err := arcrack.New(arcrack.Config{
//		Charset:     "abcdefghijklmnopqrstuvwxyz0123456789",
//		MinLength:   1,
//		MaxLength:   5,
//		ArchivePath: "./secret.7z",
//		Mode:        arcrack.ModeAscending,
//	}, arcrack.WithTester(&archive.SevenZip{Path: "/usr/bin/7z"}))
//	if err != nil {
//		log.Fatal(err)
//	}
//	password, _ := cracker.Run(ctx)
//
// An empty result means the space was exhausted (or a cooperative stop
// was requested); the verifier's own cost dominates throughput, so one
// worker per core keeps verifier processes overlapped.
//
// # Skip List
//
// With a skip file configured, rejected candidates enter a Bloom
// filter that is checkpointed periodically and saved on success or
// stop. A later run over the same space skips everything the filter
// remembers; the accepted password is never inserted, so a re-run
// converges on it again. Creating the sibling file <skip>.stop
// requests a cooperative stop.
package arcrack
