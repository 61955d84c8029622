package main

import (
	"fmt"
	"os"

	"fjacquet/trs-records/cmd/batch"
	"fjacquet/trs-records/cmd/extract"
	"fjacquet/trs-records/cmd/root"
	"fjacquet/trs-records/cmd/serve"
	"fjacquet/trs-records/internal/config"

	"github.com/sirupsen/logrus"
)

func init() {
	// .env must be loaded before anything logs
	config.LoadEnv()
	logrus.SetLevel(config.LogLevelFromEnv())

	root.Init()

	root.Cmd.AddCommand(extract.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
	root.Cmd.AddCommand(serve.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
