package main

import "github.com/taskhub/api/internal/app"

func main() {
	app.InitDefaultLogger()
	app.MustReadEnv()
	app.MustInitApplicationLogger()

	app.MustConnectPostgres()
	defer app.DisconnectPostgres()
	app.MustInitSchema()

	app.MustListenAndServeHTTP()
}
