// Package file provides a file-based DataFetcher for the config package.
//
// The file is read at construction time and cached, so every Fetch during the
// lifetime of an App sees the same property snapshot.
//
// Usage:
//
//	fetcher, err := file.NewFetcher("/etc/app/beans.properties")()
//	data, err := fetcher.Fetch()
//
// Pass "-" to read standard input, or use FromReader for any io.Reader.
// Use errors.Is(err, file.ErrPathIsDirectory) to detect directory paths.
package file
