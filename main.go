// main is the entry point of the readiness CLI.
package main

import (
	"fmt"
	"os"

	"github.com/huangsam/readiness/cmd"
	"github.com/huangsam/readiness/internal/contract"
	"github.com/huangsam/readiness/internal/iocache"
)

func main() {
	cmd.SetStoreManager(iocache.Manager)

	err := cmd.Execute()

	iocache.CloseStores()
	contract.SyncLogger()

	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
