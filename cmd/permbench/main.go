// Permbench generates shuffled record files, sorts them in place with either
// store strategy, and benchmarks the two against each other.
//
// Usage:
//
//	go run ./cmd/permbench generate --records 100000 --out records.txt
//	go run ./cmd/permbench sort --strategy multi --in records.txt
//	go run ./cmd/permbench verify --in records.txt
//	go run ./cmd/permbench bench --strategy both --min-pow 0 --max-pow 4 --reps 100
package main

import "github.com/tamirms/permsort/cmd/permbench/cmd"

func main() {
	cmd.Execute()
}
