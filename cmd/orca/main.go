// Command orca crawls OpenReview venues and analyses their discussion
// threads.
package main

import (
	"github.com/orca-labs/orca-cli/internal/adapters/driving/cli"
)

func main() {
	cli.Execute()
}
