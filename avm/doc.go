// Package avm loads ABC constant pools into runtime domains and resolves
// their namespace tables.
//
// This package contains:
//   - Runtime: the interner, the playerglobals domain and the root API version
//   - Domain: isolation context for loaded translation units
//   - TranslationUnit: one loaded constant pool and its namespace cache
//   - The namespace materializer: version mark decoding and version inference
package avm
