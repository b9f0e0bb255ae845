// Package storage persists closed-loop runs on disk.
//
// Every run lives in its own directory named by a UUID, holding metadata.json and
// states.csv. [ExportJSON] writes a self-contained JSON document of one run.
package storage
