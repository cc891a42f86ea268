package blob

import "github.com/0xalexb/hjarta-beans/beans"

// RegisterTypes makes the blob types available to "#class:" and "#type:" directives as
// BlobContainerOperations, BlobConfiguration, BlobRequestConditions and BlobContainerClient.
func RegisterTypes(catalog *beans.Catalog) {
	beans.RegisterType[ContainerOperations](catalog, "BlobContainerOperations")
	beans.RegisterType[Configuration](catalog, "BlobConfiguration")
	beans.RegisterType[RequestConditions](catalog, "BlobRequestConditions")
	beans.RegisterInterface[ContainerClient](catalog, "BlobContainerClient")
}
