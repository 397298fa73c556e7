package main

import (
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/MixinNetwork/aspect/config"
	"github.com/MixinNetwork/aspect/kernel"
	"github.com/MixinNetwork/aspect/logger"
	"github.com/MixinNetwork/aspect/rpc"
	"github.com/MixinNetwork/aspect/storage"
	"github.com/urfave/cli/v2"
)

func main() {
	defaultRPC := os.Getenv("ASPECT_KERNEL_RPC")
	if defaultRPC == "" {
		defaultRPC = "http://127.0.0.1:6860"
	}

	app := cli.NewApp()
	app.Name = "aspect"
	app.Usage = "Describe the aspect ratio of dimensions and images, exactly and in humane terms."
	app.Version = config.BuildVersion
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "node",
			Aliases: []string{"n"},
			Value:   defaultRPC,
			Usage:   "the RPC endpoint, and the default value is read from environment variable ASPECT_KERNEL_RPC",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "the configuration `FILE` for local commands",
		},
		&cli.IntFlag{
			Name:    "log",
			Aliases: []string{"l"},
			Value:   logger.INFO,
			Usage:   "the log level",
		},
		&cli.StringFlag{
			Name:  "filter",
			Usage: "the RE2 regex pattern to filter log",
		},
	}
	app.Before = func(c *cli.Context) error {
		logger.SetLevel(c.Int("log"))
		return logger.SetFilter(c.String("filter"))
	}
	app.EnableBashCompletion = true
	app.Commands = []*cli.Command{
		{
			Name:    "kernel",
			Aliases: []string{"k"},
			Usage:   "Start the aspect kernel daemon with query history and RPC",
			Action:  kernelCmd,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "dir",
					Aliases: []string{"d"},
					Usage:   "the data directory with an optional config.toml",
				},
				&cli.IntFlag{
					Name:    "port",
					Aliases: []string{"p"},
					Usage:   "the RPC port to listen, overrides the configuration",
				},
			},
		},
		{
			Name:    "describe",
			Aliases: []string{"d"},
			Usage:   "Describe the aspect ratio of dimensions or an image",
			Action:  describeCmd,
			Flags: []cli.Flag{
				&cli.Int64Flag{
					Name:    "width",
					Aliases: []string{"w"},
					Usage:   "the width",
				},
				&cli.Int64Flag{
					Name:  "height",
					Usage: "the height",
				},
				&cli.StringFlag{
					Name:    "image",
					Aliases: []string{"i"},
					Usage:   "the image `PATH` or http(s) URL to probe instead of dimensions",
				},
			},
		},
		{
			Name:   "limit",
			Usage:  "Find the closest fraction with a bounded denominator",
			Action: limitCmd,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "fraction",
					Aliases: []string{"f"},
					Usage:   "the fraction as n/d or n:d",
				},
				&cli.Int64Flag{
					Name:  "max",
					Value: 10,
					Usage: "the maximum denominator",
				},
			},
		},
		{
			Name:   "ratios",
			Usage:  "List the common aspect ratios",
			Action: ratiosCmd,
		},
		{
			Name:   "getinfo",
			Usage:  "Get info from the kernel",
			Action: getInfoCmd,
		},
		{
			Name:   "getquery",
			Usage:  "Get a recorded query by id",
			Action: getQueryCmd,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "id",
					Usage: "the query `ID`",
				},
			},
		},
		{
			Name:   "listqueries",
			Usage:  "List the recorded queries, newest first",
			Action: listQueriesCmd,
			Flags: []cli.Flag{
				&cli.Uint64Flag{
					Name:  "since",
					Usage: "only queries recorded before this Unix nanoseconds timestamp",
				},
				&cli.IntFlag{
					Name:  "limit",
					Value: 10,
					Usage: "the up limit of the returned queries",
				},
			},
		},
	}
	err := app.Run(os.Args)
	if err != nil {
		fmt.Println(err)
	}
}

func kernelCmd(c *cli.Context) error {
	runtime.GOMAXPROCS(runtime.NumCPU())

	custom, err := config.Initialize(c.String("dir") + "/config.toml")
	if os.IsNotExist(err) {
		logger.Printf("No config.toml in %s, using defaults\n", c.String("dir"))
		custom, err = config.Default(), nil
	}
	if err != nil {
		return err
	}
	if p := c.Int("port"); p > 0 {
		custom.RPC.Port = p
	}

	store, err := storage.NewBadgerStore(custom, c.String("dir"))
	if err != nil {
		return err
	}
	defer store.Close()

	calc, err := kernel.NewCalculator(custom, store)
	if err != nil {
		return err
	}

	server := rpc.NewServer(custom, calc)
	go func() {
		err := server.ListenAndServe()
		if err != nil {
			panic(err)
		}
	}()
	logger.Printf("Version:\t%s\n", config.BuildVersion)
	logger.Printf("RPC:\t%s\n", server.Addr)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Printf("Shutdown after %s\n", calc.Uptime())
	return server.Close()
}
