// Package batch runs many independent discoveries with bounded concurrency.
//
// Every seed is handled by exactly one goroutine, so the ordering guarantees
// of a single discovery hold per seed. Results come back in input order no
// matter which seed finishes first. A failing seed never stops the others:
// its error is described on the returned model.Discovery instead.
package batch
