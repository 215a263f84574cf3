package main

import "github.com/verdantlabs/storefront/cmd"

func main() {
	cmd.Start()
}
