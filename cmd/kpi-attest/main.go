package main

import (
	"os"

	"go.uber.org/zap"

	"github.com/nautilus-earnout/kpi-engine/app"
)

func main() {
	if err := app.RootCmd().Execute(); err != nil {
		zap.L().Fatal("command failed", zap.Error(err))
	}
	os.Exit(0)
}

func init() {
	zap.ReplaceGlobals(zap.Must(zap.NewProduction()))
}
