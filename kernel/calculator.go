package kernel

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/MixinNetwork/aspect/common"
	"github.com/MixinNetwork/aspect/config"
	"github.com/MixinNetwork/aspect/kernel/internal/clock"
	"github.com/MixinNetwork/aspect/logger"
	"github.com/MixinNetwork/aspect/source"
	"github.com/MixinNetwork/aspect/storage"
	"github.com/VictoriaMetrics/fastcache"
	"github.com/gofrs/uuid"
)

// Calculator serves aspect ratio descriptions with a memory cache in front
// and records every description in the store when one is configured.
type Calculator struct {
	custom  *config.Custom
	store   storage.Store
	cache   *fastcache.Cache
	prober  *source.Prober
	startAt time.Time
}

func NewCalculator(custom *config.Custom, store storage.Store) (*Calculator, error) {
	calc := &Calculator{
		custom:  custom,
		store:   store,
		cache:   fastcache.New(custom.Node.MemoryCacheSize * 1024 * 1024),
		prober:  source.NewProber(custom),
		startAt: clock.Now(),
	}
	if store == nil {
		return calc, nil
	}

	var version string
	found, err := store.StateGet("version", &version)
	if err != nil {
		return nil, err
	}
	if found && version != config.BuildVersion {
		logger.Printf("Calculator upgrade from %s to %s\n", version, config.BuildVersion)
	}
	err = store.StateSet("version", config.BuildVersion)
	if err != nil {
		return nil, err
	}
	return calc, nil
}

func (calc *Calculator) Uptime() time.Duration {
	return clock.Now().Sub(calc.startAt)
}

func (calc *Calculator) Describe(width, height int64) (*common.Query, error) {
	return calc.describe(width, height, "")
}

// DescribeSource probes the image dimensions of src and describes them.
// The source is not released.
func (calc *Calculator) DescribeSource(ctx context.Context, src source.Source) (*common.Query, error) {
	width, height, err := calc.prober.Dimensions(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("probe %s: %w", src.URL(), err)
	}
	ref := src.URL()
	if _, ok := src.(*source.FileSource); ok {
		ref = ""
	}
	return calc.describe(width, height, ref)
}

func (calc *Calculator) describe(width, height int64, ref string) (*common.Query, error) {
	key := []byte(fmt.Sprintf("%d:%d", width, height))
	aspect := calc.cacheGet(key)
	if aspect == nil {
		a, err := common.Describe(width, height)
		if err != nil {
			logger.Verbosef("Calculator.Describe(%d, %d) => %v\n", width, height, err)
			return nil, err
		}
		calc.cacheSet(key, a)
		aspect = a
	}

	q := common.NewQuery(aspect, ref)
	q.Timestamp = uint64(clock.Now().UnixNano())
	logger.Verbosef("Calculator.Describe(%d, %d) => %s %s\n", width, height, q.Id, aspect.Exact)
	if calc.store == nil {
		return q, nil
	}
	err := calc.store.WriteQuery(q)
	if err != nil {
		logger.Errorf("Calculator.WriteQuery(%s) => %v\n", q.Id, err)
		return nil, err
	}
	return q, nil
}

func (calc *Calculator) Limit(f common.Fraction, max int64) (r common.Fraction, err error) {
	defer recoverDomainError(&err)
	r, err = f.LimitDenominator(max)
	logger.Verbosef("Calculator.Limit(%s, %d) => %s %v\n", f, max, r, err)
	return r, err
}

func (calc *Calculator) Approximate(f common.Fraction) (a common.Approximation, err error) {
	defer recoverDomainError(&err)
	a, err = common.FindApproximateAspectRatio(f)
	logger.Verbosef("Calculator.Approximate(%s) => %s %v\n", f, a.Fraction, err)
	return a, err
}

func (calc *Calculator) Closest(f common.Fraction) (a common.Approximation, err error) {
	defer recoverDomainError(&err)
	a = common.FindClosestCommonAspectRatio(f)
	logger.Verbosef("Calculator.Closest(%s) => %s\n", f, a.Fraction)
	return a, nil
}

func (calc *Calculator) ReadQuery(id string) (*common.Query, error) {
	if calc.store == nil {
		return nil, fmt.Errorf("no query store")
	}
	qid, err := uuid.FromString(id)
	if err != nil {
		return nil, err
	}
	return calc.store.ReadQuery(qid)
}

func (calc *Calculator) ListQueries(since uint64, limit int) ([]*common.Query, error) {
	if calc.store == nil {
		return nil, fmt.Errorf("no query store")
	}
	return calc.store.ListQueries(since, limit)
}

func (calc *Calculator) cacheGet(key []byte) *common.Aspect {
	val := calc.cache.Get(nil, key)
	if len(val) <= 8 {
		return nil
	}
	ts := time.Unix(0, int64(binary.BigEndian.Uint64(val[:8])))
	if ts.Add(calc.cacheTTL()).Before(clock.Now()) {
		calc.cache.Del(key)
		return nil
	}
	var a common.Aspect
	err := common.MsgpackUnmarshal(val[8:], &a)
	if err != nil {
		logger.Errorf("Calculator.cacheGet(%s) => %v\n", key, err)
		return nil
	}
	return &a
}

func (calc *Calculator) cacheSet(key []byte, a *common.Aspect) {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(clock.Now().UnixNano()))
	calc.cache.Set(key, append(buf, common.MsgpackMarshalPanic(a)...))
}

func (calc *Calculator) cacheTTL() time.Duration {
	return time.Duration(calc.custom.Node.CacheTTL) * time.Second
}

func recoverDomainError(err *error) {
	r := recover()
	if r == nil {
		return
	}
	de, ok := r.(*common.DomainError)
	if !ok {
		panic(r)
	}
	*err = de
}
