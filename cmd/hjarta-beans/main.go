// Command hjarta-beans resolves a bean property file and reports the outcome of every bean.
//
// Usage:
//
//	hjarta-beans resolve -f beans.properties
//	hjarta-beans resolve -f app.yaml --path properties --namespace app
//	cat beans.properties | hjarta-beans resolve -f - --format properties
package main

import (
	"os"
)

func main() {
	err := newRootCommand().Execute()
	if err != nil {
		os.Exit(1)
	}
}
