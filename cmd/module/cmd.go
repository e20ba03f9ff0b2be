// package main is a module for the wilc power sequence
package main

import (
	"github.com/viam-modules/wilc/wilc"
	"go.viam.com/rdk/components/generic"
	"go.viam.com/rdk/module"
	"go.viam.com/rdk/resource"
)

func main() {
	module.ModularMain(
		resource.APIModel{API: generic.API, Model: wilc.Model},
	)
}
