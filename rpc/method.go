package rpc

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/MixinNetwork/aspect/common"
	"github.com/MixinNetwork/aspect/kernel"
	"github.com/MixinNetwork/aspect/source"
)

func describe(calc *kernel.Calculator, params []interface{}) (*common.Query, error) {
	if len(params) != 2 {
		return nil, errors.New("invalid params count")
	}
	width, err := strconv.ParseInt(fmt.Sprint(params[0]), 10, 64)
	if err != nil {
		return nil, err
	}
	height, err := strconv.ParseInt(fmt.Sprint(params[1]), 10, 64)
	if err != nil {
		return nil, err
	}
	return calc.Describe(width, height)
}

func describeImage(ctx context.Context, calc *kernel.Calculator, params []interface{}) (*common.Query, error) {
	if len(params) != 1 {
		return nil, errors.New("invalid params count")
	}
	src, err := source.NewRemoteSource(fmt.Sprint(params[0]))
	if err != nil {
		return nil, err
	}
	defer src.Release()
	return calc.DescribeSource(ctx, src)
}

func limitDenominator(calc *kernel.Calculator, params []interface{}) (common.Fraction, error) {
	if len(params) != 2 {
		return common.Fraction{}, errors.New("invalid params count")
	}
	f, err := common.ParseFraction(fmt.Sprint(params[0]))
	if err != nil {
		return common.Fraction{}, err
	}
	max, err := strconv.ParseInt(fmt.Sprint(params[1]), 10, 64)
	if err != nil {
		return common.Fraction{}, err
	}
	return calc.Limit(f, max)
}

func approximate(calc *kernel.Calculator, params []interface{}) (common.Approximation, error) {
	if len(params) != 1 {
		return common.Approximation{}, errors.New("invalid params count")
	}
	f, err := common.ParseFraction(fmt.Sprint(params[0]))
	if err != nil {
		return common.Approximation{}, err
	}
	return calc.Approximate(f)
}

func closest(calc *kernel.Calculator, params []interface{}) (common.Approximation, error) {
	if len(params) != 1 {
		return common.Approximation{}, errors.New("invalid params count")
	}
	f, err := common.ParseFraction(fmt.Sprint(params[0]))
	if err != nil {
		return common.Approximation{}, err
	}
	return calc.Closest(f)
}

func listRatios(params []interface{}) ([]common.Fraction, error) {
	if len(params) != 0 {
		return nil, errors.New("invalid params count")
	}
	return common.CommonRatios(), nil
}

func getQuery(calc *kernel.Calculator, params []interface{}) (*common.Query, error) {
	if len(params) != 1 {
		return nil, errors.New("invalid params count")
	}
	return calc.ReadQuery(fmt.Sprint(params[0]))
}

func listQueries(calc *kernel.Calculator, params []interface{}) ([]*common.Query, error) {
	if len(params) != 2 {
		return nil, errors.New("invalid params count")
	}
	since, err := strconv.ParseUint(fmt.Sprint(params[0]), 10, 64)
	if err != nil {
		return nil, err
	}
	limit, err := strconv.ParseInt(fmt.Sprint(params[1]), 10, 64)
	if err != nil {
		return nil, err
	}
	return calc.ListQueries(since, int(limit))
}
