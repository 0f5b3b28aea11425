// Command queuesim simulates a single-server shop and reports its queueing
// statistics.
package main

import "github.com/sarchlab/queuesim/cmd/queuesim/cmd"

func main() {
	cmd.Execute()
}
