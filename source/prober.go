package source

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"syscall"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/MixinNetwork/aspect/config"
	"github.com/MixinNetwork/aspect/logger"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var ErrForbiddenAddress = errors.New("forbidden address")

type Prober struct {
	client  *http.Client
	retries int
	maxSize int64
}

func NewProber(custom *config.Custom) *Prober {
	dialer := &net.Dialer{Timeout: custom.ProbeTimeout()}
	if !custom.Probe.AllowPrivate {
		dialer.Control = rejectPrivateAddress
	}
	client := &http.Client{
		Timeout:   custom.ProbeTimeout(),
		Transport: &http.Transport{DialContext: dialer.DialContext},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= config.ProbeMaxRedirect {
				return fmt.Errorf("stopped after %d redirects", len(via))
			}
			return nil
		},
	}
	return &Prober{
		client:  client,
		retries: custom.Probe.Retries,
		maxSize: custom.Probe.MaxImageSize,
	}
}

// Dimensions decodes only the image header of src and reports its size.
func (p *Prober) Dimensions(ctx context.Context, src Source) (int64, int64, error) {
	u, err := url.Parse(src.URL())
	if err != nil {
		return 0, 0, err
	}
	switch u.Scheme {
	case "file":
		f, err := os.Open(u.Path)
		if err != nil {
			return 0, 0, err
		}
		defer f.Close()
		return p.decode(f)
	case "http", "https":
		return p.fetch(ctx, u.String())
	}
	return 0, 0, fmt.Errorf("unsupported source %s", src.URL())
}

func (p *Prober) decode(r io.Reader) (int64, int64, error) {
	cfg, format, err := image.DecodeConfig(io.LimitReader(r, p.maxSize))
	if err != nil {
		return 0, 0, err
	}
	logger.Debugf("Prober.decode %s %dx%d\n", format, cfg.Width, cfg.Height)
	return int64(cfg.Width), int64(cfg.Height), nil
}

func (p *Prober) fetch(ctx context.Context, ref string) (int64, int64, error) {
	var err error
	for i := 0; i <= p.retries; i++ {
		if i > 0 {
			delay := backoff(i)
			logger.Verbosef("Prober.fetch(%s) retry %d in %s after %v\n", ref, i, delay, err)
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return 0, 0, ctx.Err()
			case <-timer.C:
			}
		}
		var w, h int64
		var retry bool
		w, h, retry, err = p.fetchOnce(ctx, ref)
		if err == nil {
			return w, h, nil
		}
		if !retry || ctx.Err() != nil {
			return 0, 0, err
		}
	}
	return 0, 0, err
}

func (p *Prober) fetchOnce(ctx context.Context, ref string) (int64, int64, bool, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", ref, nil)
	if err != nil {
		return 0, 0, false, err
	}
	resp, err := p.client.Do(req)
	if errors.Is(err, ErrForbiddenAddress) {
		return 0, 0, false, err
	} else if err != nil {
		return 0, 0, true, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return 0, 0, true, fmt.Errorf("GET %s => %s", ref, resp.Status)
	case resp.StatusCode != http.StatusOK:
		return 0, 0, false, fmt.Errorf("GET %s => %s", ref, resp.Status)
	}
	if resp.ContentLength > p.maxSize {
		return 0, 0, false, fmt.Errorf("GET %s => image too large %d", ref, resp.ContentLength)
	}
	w, h, err := p.decode(resp.Body)
	return w, h, false, err
}

// rejectPrivateAddress runs after name resolution, so redirects and
// rebinding names are checked against the address actually dialed.
func rejectPrivateAddress(network, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	ip := net.ParseIP(host)
	if ip == nil || ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() ||
		ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() || ip.IsInterfaceLocalMulticast() {
		return fmt.Errorf("%w %s", ErrForbiddenAddress, address)
	}
	return nil
}

func backoff(attempt int) time.Duration {
	delay := config.ProbeBackoffBase
	for i := 1; i < attempt && delay < config.ProbeBackoffMax; i++ {
		delay *= 2
	}
	if delay > config.ProbeBackoffMax {
		return config.ProbeBackoffMax
	}
	return delay
}
