//go:build tinygo

package main

import (
	"mearm/app"
	"mearm/hal"
)

func main() {
	app.Run(hal.New())
}
