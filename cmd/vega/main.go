package main

import (
	"github.com/coko7/vegapull/cmd/vega/commands"
	"github.com/coko7/vegapull/lib/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
