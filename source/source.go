package source

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Source is an image reference that may hold resources until released.
type Source interface {
	URL() string
	Release() error
}

type FileSource struct {
	path     string
	mutex    sync.Mutex
	released bool
}

// NewFileSource copies r into a temporary file that lives until Release.
func NewFileSource(r io.Reader, name string) (*FileSource, error) {
	f, err := os.CreateTemp("", "aspect-*"+filepath.Ext(name))
	if err != nil {
		return nil, err
	}
	_, err = io.Copy(f, r)
	if err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, err
	}
	err = f.Close()
	if err != nil {
		os.Remove(f.Name())
		return nil, err
	}
	return &FileSource{path: f.Name()}, nil
}

func (s *FileSource) Path() string {
	return s.path
}

func (s *FileSource) URL() string {
	return (&url.URL{Scheme: "file", Path: s.path}).String()
}

func (s *FileSource) Release() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.released {
		return nil
	}
	s.released = true
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

type RemoteSource struct {
	url string
}

func NewRemoteSource(ref string) (*RemoteSource, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, fmt.Errorf("invalid remote source %s", ref)
	}
	return &RemoteSource{url: u.String()}, nil
}

func (s *RemoteSource) URL() string {
	return s.url
}

func (s *RemoteSource) Release() error {
	return nil
}

// Open resolves ref to a RemoteSource for http(s) URLs, otherwise the file
// at ref is copied into a FileSource.
func Open(ref string) (Source, error) {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return NewRemoteSource(ref)
	}
	f, err := os.Open(ref)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return NewFileSource(f, ref)
}

// Slot holds the current source, replacing it releases the previous one.
type Slot struct {
	mutex   sync.Mutex
	current Source
}

func (s *Slot) Current() Source {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.current
}

func (s *Slot) Swap(next Source) error {
	s.mutex.Lock()
	prev := s.current
	s.current = next
	s.mutex.Unlock()

	if prev == nil || prev == next {
		return nil
	}
	return prev.Release()
}

func (s *Slot) Release() error {
	return s.Swap(nil)
}
