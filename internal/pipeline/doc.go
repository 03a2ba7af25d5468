// Package pipeline loads and classifies file views.
//
// A Pipeline runs Steps in order against one model.FileView:
//   - FetchStep: GET /files/{id} from the backend
//   - DigestStep: SHA3-256 over the content items
//   - CacheLoadStep / CacheSaveStep: the local SQLite cache
//   - ClassifyStep: classification and rendering of every item
//
// ViewPipeline assembles the usual online or offline sequence, and
// BatchProcessor runs one pipeline per file ID with bounded concurrency
// while keeping results in input order.
package pipeline
