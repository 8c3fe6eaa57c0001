package main

import "fleetdesk/cmd/fleetctl/cmd"

func main() {
	cmd.Execute()
}
