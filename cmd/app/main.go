package main

import (
	"go.uber.org/fx"

	"github.com/clipfetch/clipfetch-bot/internal/app"
)

func main() {
	fx.New(app.CreateApp()).Run()
}
