package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/juju/errors"
	"github.com/temoto/tapui/cmd/tapui/camera"
	"github.com/temoto/tapui/cmd/tapui/console"
	"github.com/temoto/tapui/cmd/tapui/keyboard"
	"github.com/temoto/tapui/cmd/tapui/slideshow"
	"github.com/temoto/tapui/cmd/tapui/subcmd"
	"github.com/temoto/tapui/internal/state"
	"github.com/temoto/tapui/log2"
)

var log = log2.NewStderr(log2.LDebug)
var modules = []subcmd.Mod{
	camera.Mod,
	keyboard.Mod,
	slideshow.Mod,
	console.Mod,
}

// set by -ldflags="-X main.BuildVersion=..."
var BuildVersion string = "unknown"

func main() {
	flags := flag.NewFlagSet("tapui", flag.ExitOnError)
	flagConfig := flags.String("config", "tapui.hcl", "")
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "Usage: %s [-config=tapui.hcl] command [flags]\n", os.Args[0])
		fmt.Fprintf(flags.Output(), "commands:")
		for _, m := range modules {
			fmt.Fprintf(flags.Output(), " %s", m.Name)
		}
		fmt.Fprintln(flags.Output())
		flags.PrintDefaults()
	}
	_ = flags.Parse(os.Args[1:])

	mod, err := subcmd.Parse(flags.Arg(0), modules)
	if err != nil {
		flags.Usage()
		log.Fatal(err)
	}

	if mod.Name != console.Mod.Name && subcmd.SdNotify("start") {
		// under systemd, journal adds timestamps
		log.SetFlags(log2.LServiceFlags)
	} else {
		log.SetFlags(log2.LInteractiveFlags)
	}

	log.Infof("tapui version=%s command=%s", BuildVersion, mod.Name)
	config := state.MustReadConfig(log, state.NewOsFullReader(), *flagConfig)
	ctx, g := state.NewContext(log)
	g.BuildVersion = BuildVersion
	if err := mod.Main(ctx, config, flags.Args()[1:]); err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
	log.Infof("tapui %s done", mod.Name)
}
