package main

import "github.com/oshokin/safety-checkin/cmd/checkin/cmd"

func main() {
	cmd.Execute()
}
