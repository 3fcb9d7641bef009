// Reviewgen generates synthetic business reviews from the command line.
//
// Usage:
//
//	reviewgen generate --name "Sunrise Cafe" --type restaurant --category "Food & Beverage" --rating 5 --save
//	reviewgen history --limit 5
//	reviewgen settings
//	reviewgen export --indices 0,1 -o auto
//	reviewgen export --format pdf -o auto
package main

import (
	"os"

	"github.com/Conceptual-Machines/review-generator/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
