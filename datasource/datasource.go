// Package datasource defines the external data-source interface consumed by
// Scan/ScanExec (CSV ingestion and file I/O are out of scope per spec.md §1
// beyond this interface) and implements the two sources spec.md §6
// describes: a CSV source and an in-memory source.
package datasource

import (
	"github.com/colquery/colquery/record"
	"github.com/colquery/colquery/types"
)

// DataSource is the interface a Scan/ScanExec pulls batches from.
type DataSource interface {
	Schema() *types.Schema
	// Scan returns a lazy batch iterator. If projection is empty, all
	// columns are returned in source order; otherwise each batch's schema
	// equals source.Schema().Select(projection). Failure to resolve a
	// projected name is UnknownFieldError.
	Scan(projection []string) (record.BatchIterator, error)
}
