// Package testing provides test utilities for the rolepref library.
//
// This package offers helpers for setting up test environments: an embedded NATS
// server for KV storage integration tests, loggers that write through testing.T or
// record entries for assertions, and fixtures for catalogs, pools and in-memory
// preference records. It follows Go's convention of providing testing utilities in
// a dedicated package (similar to net/http/httptest).
//
// Key utilities:
//   - StartEmbeddedNATS: Single NATS server with JetStream
//   - CreateJetStreamKV: Convenience wrapper for KV bucket creation
//   - NewTestLogger / NewRecordingLogger: Loggers for tests
//   - Records: Map-backed RecordLookup built from preference lists
//
// Example usage:
//
//	import (
//	    "testing"
//	    rolepreftest "github.com/arloliu/rolepref/testing"
//	)
//
//	func TestMyComponent(t *testing.T) {
//	    catalog := rolepreftest.Catalog(t, "a", "b", "c")
//	    records := rolepreftest.NewRecords(t, catalog).With("p1", 1, 0, 2)
//	}
package testing
