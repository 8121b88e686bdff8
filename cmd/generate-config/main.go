package main

import (
	"blackjack-server/internal/config"
	"os"

	"gopkg.in/yaml.v2"
)

// prints the default configuration, redirect it to config.yaml to start from it
func main() {
	if err := yaml.NewEncoder(os.Stdout).Encode(config.DefaultConfig()); err != nil {
		panic(err)
	}
}
