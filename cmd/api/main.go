package main

import (
	"context"
	"log"
	"os"

	"reinocalc/cmd"
)

func main() {
	apiHandler, settings, err := cmd.InitializeDependencies(context.Background())
	if err != nil {
		log.Fatal(err)
	}
	defer cmd.CloseDependencies(apiHandler)

	apiHandler.Log.Infow("starting api", "port", settings.Port, "commitHash", os.Getenv("commit_hash"))
	err = apiHandler.StartApi(settings.Port)
	if err != nil {
		log.Fatal(err)
	}
}
