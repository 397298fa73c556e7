package main

import (
	"context"
	"fmt"

	"github.com/MixinNetwork/aspect/common"
	"github.com/MixinNetwork/aspect/config"
	"github.com/MixinNetwork/aspect/kernel"
	"github.com/MixinNetwork/aspect/rpc"
	"github.com/MixinNetwork/aspect/source"
	"github.com/urfave/cli/v2"
)

func describeCmd(c *cli.Context) error {
	calc, err := localCalculator(c)
	if err != nil {
		return err
	}

	var q *common.Query
	if ref := c.String("image"); ref != "" {
		var slot source.Slot
		defer slot.Release()
		src, err := source.Open(ref)
		if err != nil {
			return err
		}
		err = slot.Swap(src)
		if err != nil {
			return err
		}
		q, err = calc.DescribeSource(context.Background(), slot.Current())
		if err != nil {
			return err
		}
		fmt.Printf("%dx%d\n", q.Aspect.Width, q.Aspect.Height)
	} else {
		q, err = calc.Describe(c.Int64("width"), c.Int64("height"))
		if err != nil {
			return err
		}
	}
	for _, l := range q.Aspect.Lines() {
		fmt.Println(l)
	}
	return nil
}

func limitCmd(c *cli.Context) error {
	calc, err := localCalculator(c)
	if err != nil {
		return err
	}
	f, err := common.ParseFraction(c.String("fraction"))
	if err != nil {
		return err
	}
	r, err := calc.Limit(f, c.Int64("max"))
	if err != nil {
		return err
	}
	fmt.Println(r.String())
	return nil
}

func ratiosCmd(c *cli.Context) error {
	for _, r := range common.CommonRatios() {
		fmt.Printf("%s\t%.4f\n", r.Ratio(), r.Float64())
	}
	return nil
}

func getInfoCmd(c *cli.Context) error {
	data, err := rpc.CallRPC(c.String("node"), "getinfo", []interface{}{})
	if err == nil {
		fmt.Println(string(data))
	}
	return err
}

func getQueryCmd(c *cli.Context) error {
	data, err := rpc.CallRPC(c.String("node"), "getquery", []interface{}{
		c.String("id"),
	})
	if err == nil {
		fmt.Println(string(data))
	}
	return err
}

func listQueriesCmd(c *cli.Context) error {
	data, err := rpc.CallRPC(c.String("node"), "listqueries", []interface{}{
		c.Uint64("since"),
		c.Int("limit"),
	})
	if err == nil {
		fmt.Println(string(data))
	}
	return err
}

func localCalculator(c *cli.Context) (*kernel.Calculator, error) {
	custom := config.Default()
	if file := c.String("config"); file != "" {
		var err error
		custom, err = config.Initialize(file)
		if err != nil {
			return nil, err
		}
	}
	return kernel.NewCalculator(custom, nil)
}
