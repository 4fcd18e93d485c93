// Package importers turns parsed Goodreads records into catalog books,
// shelf assignments, ratings and reading progress.
//
// The pipeline is strictly sequential: one pass over the parsed records, one
// reconcile-and-write step per record, outcomes accumulated in input order.
// Collaborators are injected as interfaces so the pipeline can be tested
// with stubs and so failure handling stays explicit: "not found" is a nil
// result, never an error, and metadata-service failures downgrade to "no
// data" instead of failing the record.
package importers
