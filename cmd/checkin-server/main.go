package main

import "github.com/oshokin/safety-checkin/cmd/checkin-server/cmd"

func main() {
	cmd.Execute()
}
