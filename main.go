package main

import (
	_ "time/tzdata"

	"ops-portal.com/ops-portal/cmd"
)

func main() {
	cmd.Execute()
}
