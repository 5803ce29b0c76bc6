package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/musicdl/musicdl/cmd"
	"github.com/musicdl/musicdl/cmd/common"
)

var (
	version   string
	commit    string
	date      string
	buildType string = "unclassified"
)

var osExit = os.Exit

func runMain(args []string, execute func([]string) error) int {
	err := execute(args)
	if err == nil {
		return 0
	}
	if !errors.Is(err, common.ErrReported) {
		fmt.Printf("musicdl: %s\n", err.Error())
	}
	return 1
}

func main() {
	osExit(runMain(os.Args, func(args []string) error {
		return cmd.Execute(args, cmd.BuildArgs{
			Version:   version,
			Commit:    commit,
			Date:      date,
			BuildType: buildType,
		})
	}))
}
