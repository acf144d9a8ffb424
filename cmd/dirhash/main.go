// Command dirhash computes a composite content digest for one or more
// directory trees, a thin CLI driver over the github.com/mattkeenan/dirhash
// library.
package main

import "os"

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
