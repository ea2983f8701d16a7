// Command campusctl inspects and maintains a campus-connect store from the
// shell. It reads the same environment variables as the server, so pointing
// it at a deployment is a matter of sharing that environment.
//
//	campusctl stats
//	campusctl users list
//	campusctl export > backup.json
//	STORE_BACKEND=redis campusctl import backup.json --force
package main

import (
	"os"
)

func main() {
	if err := run(defaultOpener, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}
