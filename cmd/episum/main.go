// cmd/episum/main.go
package main

import (
	"episum/internal/app"
	"episum/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}
