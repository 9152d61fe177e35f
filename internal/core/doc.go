// Package core holds the dataset catalog and the exploration service that
// the HTTP transport and the CLI drive.
//
// # Catalog
//
// Datasets come from three sources: built-in folders under DATASET_DIR,
// user uploads (.csv or .zip with data.csv and images), and optional
// PostgreSQL tables. Each is parsed once by package source into an
// immutable [dataset.Dataset] and registered in the [Catalog] in load
// order. Ids are unique across sources.
//
// # Service
//
// [Service] owns exactly one [session.State]. Every user event is a
// session.Action passed to [Service.Dispatch], which runs the pure reducer
// under a mutex and returns a [Snapshot] of state, source and palette taken
// under the same lock:
//
//	snap := svc.Dispatch(session.AddFilter{Column: "in:height", Range: filter.NumericRange(2, 8)})
//	page := snap.State.Page(1, svc.PageSize())
//
// Ingestion (uploads and SQL loads) runs outside the mutex and is bounded
// by an [IngestLimiter]; shutdown waits for it with [Service.WaitForIngests].
//
// # Errors
//
// Failures are wrapped sentinel errors. [MapError] turns any of them into a
// [UserMessage] with a support code for the transport to render.
package core
