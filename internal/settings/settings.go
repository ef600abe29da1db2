// Package settings persists small integer settings across restarts.
// Failures never reach the caller: defaults stay in effect and errors are logged.
package settings

import (
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/juju/errors"
	"github.com/pelletier/go-toml/v2"
	"github.com/temoto/extremofile"
	"github.com/temoto/tapui/helpers"
	"github.com/temoto/tapui/log2"
)

type Values map[string]int

type storage interface {
	Read() ([]byte, error)
	io.Writer
}

// Store binds Values to crash safe file pair under root/tag.
type Store struct {
	sync.Mutex
	log     *log2.Log
	tag     string
	storage storage
}

// New with empty root returns disabled store, Load gives nothing and Save does nothing.
func New(tag, root string, log *log2.Log) *Store {
	s := &Store{log: log, tag: tag}
	if root == "" {
		log.Debugf("settings %s disabled", tag)
		return s
	}
	s.storage = extremofile.New(extremofile.Config{
		Dir:      filepath.Join(root, tag),
		DirPerm:  0755,
		FilePerm: 0644,
	})
	return s
}

func (self *Store) Enabled() bool { return self.storage != nil }

// Save logs and forgets errors.
func (self *Store) Save(v Values) {
	if err := self.save(v); err != nil {
		self.log.Errorf("settings %s save err=%v", self.tag, errors.ErrorStack(err))
	}
}

// Load returns stored values, empty on any error or missing store.
func (self *Store) Load() Values {
	v, err := self.load()
	if err != nil {
		self.log.Errorf("settings %s load err=%v", self.tag, errors.ErrorStack(err))
		return Values{}
	}
	return v
}

func (self *Store) save(v Values) error {
	if self.storage == nil {
		return nil
	}
	self.Lock()
	defer self.Unlock()
	b, err := toml.Marshal(v)
	if err != nil {
		return errors.Annotate(err, "encode")
	}
	tbegin := time.Now()
	err = helpers.WriteAll(self.storage, b)
	self.log.Debugf("settings %s storage.write duration=%v", self.tag, time.Since(tbegin))
	return errors.Annotate(err, "write")
}

func (self *Store) load() (Values, error) {
	v := Values{}
	if self.storage == nil {
		return v, nil
	}
	self.Lock()
	defer self.Unlock()
	b, err := self.storage.Read()
	if b == nil {
		return v, errors.Annotate(err, "read")
	}
	if err != nil {
		self.log.Errorf("settings %s ignore non-critical storage err=%v", self.tag, err)
	}
	if err = toml.Unmarshal(b, &v); err != nil {
		return Values{}, errors.Annotate(err, "decode")
	}
	return v, nil
}

// Apply calls f for each present key, in keys order. Missing keys are skipped.
func (v Values) Apply(keys []string, f func(key string, value int)) {
	for _, k := range keys {
		if x, ok := v[k]; ok {
			f(k, x)
		}
	}
}
