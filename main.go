package main

import (
	"github.com/Manu343726/instrcheck/cmd"
)

func main() {
	cmd.Execute()
}
