package main

import "github.com/vibast-solutions/ms-go-sbp-checkout/cmd"

func main() {
	cmd.Execute()
}
