package ipc

import (
	"bufio"
	"io"
	"os"

	"github.com/juju/errors"
	"github.com/temoto/tapui/internal/types"
	"github.com/temoto/tapui/log2"
	"golang.org/x/sys/unix"
)

const FifoTag = "fifo"
const DefaultFifoPath = "/tmp/myfifo"

// Fifo is input source of trigger events framed by Parser.
type Fifo struct {
	Log *log2.Log
	r   *bufio.Reader
	c   io.Closer
	p   Parser
}

// OpenFifo creates named pipe if missing. Read-write open does not wait for writer.
func OpenFifo(path string, log *log2.Log) (*Fifo, error) {
	if err := unix.Mkfifo(path, 0666); err != nil && !os.IsExist(err) {
		return nil, errors.Annotatef(err, "mkfifo path=%s", path)
	}
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, errors.Annotatef(err, "fifo path=%s", path)
	}
	return NewFifo(f, log), nil
}

// NewFifo wraps any byte stream.
func NewFifo(r io.ReadCloser, log *log2.Log) *Fifo {
	return &Fifo{Log: log, r: bufio.NewReader(r), c: r}
}

func (self *Fifo) String() string { return FifoTag }

func (self *Fifo) Read() (types.InputEvent, error) {
	for {
		b, err := self.r.ReadByte()
		if err != nil {
			return types.InputEvent{}, err
		}
		if self.p.Feed(b) {
			e := types.InputEvent{
				Source:  FifoTag,
				Kind:    types.InputKindTrigger,
				Payload: self.p.Message(),
			}
			self.p.Reset()
			self.Log.Debugf("fifo message=%q", e.Payload)
			return e, nil
		}
	}
}

func (self *Fifo) Close() error { return self.c.Close() }
