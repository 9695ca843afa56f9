// Command claimguard analyzes healthcare claim batches for anomalies
// and suspicious patient-provider clusters.
package main

import (
	"fmt"
	"os"

	"github.com/nithinmohantk/claimguard/cmd/claimguard/root"
)

func main() {
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
