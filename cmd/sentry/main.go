package main

import "github.com/ganot/project-sentry/internal/cmd"

func main() {
	cmd.Execute()
}
