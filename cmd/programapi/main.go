package main

import "github.com/argo-platform/program-service/cmd/programapi/cmd"

func main() {
	cmd.Execute()
}
