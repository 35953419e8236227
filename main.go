package main

import (
	"os"

	"github.com/PolarWolf314/securevault/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
