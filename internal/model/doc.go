// Package model defines the records exchanged with the Parser Engine backend
// and the FileView assembled while a file is inspected.
//
// This package contains the following main types:
//   - File, ContentRecord, FileDetail: file metadata and extracted text
//   - Stats, Health, SearchResult, ProcessResult: the other API responses
//   - FileStatus: the backend processing state of a file
//   - FileView: one file's metadata, content and renderings, filled in by
//     the pipeline and read by the report writers, the cache and the viewer
//
// The JSON tags follow the backend's snake_case field names so responses
// decode directly into these types.
package model
