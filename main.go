package main

import (
	"github.com/yeisme/codetree/cmd"
)

func main() {
	cmd.Execute()
}
