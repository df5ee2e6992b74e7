package main

import (
	"fmt"
	"os"

	"github.com/fairway/scorecard-server/internal/util"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: go run scripts/hash-pin.go <pin>\n")
		os.Exit(1)
	}

	pin := os.Args[1]
	if !util.IsValidPin(pin) {
		fmt.Fprintf(os.Stderr, "Error: pin must be exactly 4 digits\n")
		os.Exit(1)
	}

	hash, err := util.HashPin(pin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(hash)
}
