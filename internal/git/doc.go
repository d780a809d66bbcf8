// Package git wraps go-git for the page store's versioning model: one plain
// repository per course, holding every page body file of that course.
//
// The engine only ever snapshots the whole working tree ("commit what was just
// written") and reads the head commit. Remotes, branches, and merges are
// deliberately absent: the store is single-writer and local.
package git
