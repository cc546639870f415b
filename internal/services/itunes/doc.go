// Package itunes resolves music entities to canonical Apple Music URLs
// via the iTunes Search API.
//
// Searches retry transport failures with exponential backoff; empty
// result sets and unmatchable results are soft failures reported through
// the Result value rather than errors, so the pipeline keeps going.
package itunes
