package main

import (
	"github.com/Paintersrp/procwatch/internal/cli"
	"github.com/Paintersrp/procwatch/internal/metrics"
)

func main() {
	metrics.EmitBuildInfo()
	cli.Execute()
}
