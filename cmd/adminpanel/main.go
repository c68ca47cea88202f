package main

import (
	"fmt"
	"os"

	"adminpanel/internal/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// @title                      Admin Panel API
// @version                    1.0
// @description                Users, branches and PIN login for the administration panel.
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
// @description                Type "Bearer" followed by a space and the JWT.
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	return cli.NewRootCmd(version).Execute()
}
