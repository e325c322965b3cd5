package main

import "github.com/plenert/bank2ledger/bank2ledger/cmd"

func main() {
	cmd.Execute()
}
