package source

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MixinNetwork/aspect/config"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func TestProberFile(t *testing.T) {
	require := require.New(t)
	prober := NewProber(config.Default())

	var buf bytes.Buffer
	err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 160, 90)))
	require.Nil(err)
	src, err := NewFileSource(&buf, "frame.png")
	require.Nil(err)
	defer src.Release()
	w, h, err := prober.Dimensions(context.Background(), src)
	require.Nil(err)
	require.Equal(int64(160), w)
	require.Equal(int64(90), h)

	buf.Reset()
	err = bmp.Encode(&buf, image.NewGray(image.Rect(0, 0, 40, 30)))
	require.Nil(err)
	bsrc, err := NewFileSource(&buf, "frame.bmp")
	require.Nil(err)
	defer bsrc.Release()
	w, h, err = prober.Dimensions(context.Background(), bsrc)
	require.Nil(err)
	require.Equal(int64(40), w)
	require.Equal(int64(30), h)

	junk, err := NewFileSource(bytes.NewReader([]byte("not an image")), "junk.png")
	require.Nil(err)
	defer junk.Release()
	_, _, err = prober.Dimensions(context.Background(), junk)
	require.NotNil(err)
}

func TestProberRemote(t *testing.T) {
	require := require.New(t)

	var img bytes.Buffer
	err := png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 200, 101)))
	require.Nil(err)

	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/flaky.png":
			if atomic.AddInt32(&calls, 1) == 1 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.Write(img.Bytes())
		case "/image.png":
			w.Write(img.Bytes())
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	prober := &Prober{client: server.Client(), retries: 1, maxSize: 1 << 20}
	src, err := NewRemoteSource(server.URL + "/image.png")
	require.Nil(err)
	w, h, err := prober.Dimensions(context.Background(), src)
	require.Nil(err)
	require.Equal(int64(200), w)
	require.Equal(int64(101), h)

	src, err = NewRemoteSource(server.URL + "/flaky.png")
	require.Nil(err)
	w, h, err = prober.Dimensions(context.Background(), src)
	require.Nil(err)
	require.Equal(int64(200), w)
	require.Equal(int64(101), h)
	require.Equal(int32(2), atomic.LoadInt32(&calls))

	src, err = NewRemoteSource(server.URL + "/missing.png")
	require.Nil(err)
	_, _, err = prober.Dimensions(context.Background(), src)
	require.NotNil(err)

	atomic.StoreInt32(&calls, 0)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	src, err = NewRemoteSource(server.URL + "/flaky.png")
	require.Nil(err)
	_, _, err = prober.Dimensions(ctx, src)
	require.Equal(context.DeadlineExceeded, err)
}

func TestProberPrivateAddress(t *testing.T) {
	require := require.New(t)

	var img bytes.Buffer
	err := png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 16, 9)))
	require.Nil(err)
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write(img.Bytes())
	}))
	defer server.Close()
	src, err := NewRemoteSource(server.URL + "/internal.png")
	require.Nil(err)

	custom := config.Default()
	custom.Probe.Retries = 1
	_, _, err = NewProber(custom).Dimensions(context.Background(), src)
	require.NotNil(err)
	require.True(errors.Is(err, ErrForbiddenAddress))
	require.Equal(int32(0), atomic.LoadInt32(&calls))

	custom.Probe.AllowPrivate = true
	w, h, err := NewProber(custom).Dimensions(context.Background(), src)
	require.Nil(err)
	require.Equal(int64(16), w)
	require.Equal(int64(9), h)
	require.Equal(int32(1), atomic.LoadInt32(&calls))

	for _, addr := range []string{"127.0.0.1:80", "10.1.2.3:80", "192.168.0.1:443", "172.16.5.4:80", "169.254.169.254:80", "0.0.0.0:80", "[::1]:443", "[fe80::1]:80", "[fd00::1]:80"} {
		err = rejectPrivateAddress("tcp", addr, nil)
		require.True(errors.Is(err, ErrForbiddenAddress), addr)
	}
	for _, addr := range []string{"93.184.216.34:80", "8.8.8.8:443", "[2606:4700::1111]:443"} {
		err = rejectPrivateAddress("tcp", addr, nil)
		require.Nil(err, addr)
	}
	require.NotNil(rejectPrivateAddress("tcp", "no-port", nil))
}

func TestBackoff(t *testing.T) {
	require := require.New(t)

	require.Equal(time.Second, backoff(1))
	require.Equal(2*time.Second, backoff(2))
	require.Equal(8*time.Second, backoff(4))
	require.Equal(config.ProbeBackoffMax, backoff(5))
	require.Equal(config.ProbeBackoffMax, backoff(40))
	require.Equal(config.ProbeBackoffMax, backoff(80))
}
