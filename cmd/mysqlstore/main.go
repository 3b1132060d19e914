// Command mysqlstore is a small operator console for a mysqlstore-managed
// database: ping the server, run ad-hoc queries, count rows.
package main

import (
	"os"

	_ "github.com/go-sql-driver/mysql"
)

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
