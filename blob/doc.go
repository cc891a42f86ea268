// Package blob provides container-level storage operations: listing blobs, creating and
// deleting a container.
//
// ContainerOperations reads per-call options from an Exchange's headers, falls back to its
// Configuration for anything a header does not set, and delegates to a ContainerClient.
// A nil Exchange skips both and calls the client with empty options.
//
// The operations and their configuration are plain structs, so they can be declared as beans:
//
//	app.beans.store=#class:MinioClient
//	app.beans.store.bucket=orders
//	app.beans.containers=#class:BlobContainerOperations
//	app.beans.containers.client=#bean:store
//	app.beans.containers.configuration.timeout=5s
package blob
