package main

import (
	"github.com/taskhive/go-tasks/app"
	_ "github.com/taskhive/go-tasks/docs"
)

//	@title			go-tasks API
//	@version		1.0
//	@description	Multi-tenant task tracking with bearer-token authentication.

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization

func main() {
	// setup and run app
	err := app.SetupAndRunApp()
	if err != nil {
		panic(err)
	}
}
