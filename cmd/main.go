package main

import (
	"github.com/supremewaffle/order-svc/internal/app"
	"github.com/supremewaffle/order-svc/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
