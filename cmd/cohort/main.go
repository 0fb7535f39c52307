// Command cohort matches entities against cohort rules loaded from files.
//
//	cohort match 1 4
//	cohort match --explain 1
//	cohort upsert 'cohort:5\tlast_name:Jackson\tage:(18,26)'
//	cohort list
//	cohort export --format yaml
//	cohort watch 1 4
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
