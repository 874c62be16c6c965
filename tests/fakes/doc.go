// Package fakes provides manual fake implementations for testing.
//
// Fakes are test doubles that have working implementations but take
// shortcuts compared to production code: secrets, objects and index
// records live in memory, and failures are injected per key. They let
// the resolution and transfer pipelines run end to end in unit tests
// without a secret store, an object-storage backend or an index API.
package fakes
