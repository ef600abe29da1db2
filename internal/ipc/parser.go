// Package ipc reads "START|<len>|<payload>" trigger messages from a byte stream.
// Payload length is len-1 bytes. No acks, parser resets after each message.
package ipc

import (
	"strconv"
	"strings"
)

const Magic = "START|"

const (
	sep          = '|'
	maxLengthLen = 6
)

// Allowed reports whether byte passes character filter, other bytes are ignored.
func Allowed(b byte) bool {
	switch {
	case b == '\a', b == '.', b == sep:
		return true
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		return true
	}
	return false
}

// Parser is fed one byte at a time. Zero value is ready to use.
type Parser struct {
	word1     string
	word1Done bool
	word2     string
	word2Done bool
	msg       []byte
	msgLength int
	complete  bool
}

// Feed returns true when message is complete, it stays complete until Reset.
func (self *Parser) Feed(b byte) bool {
	if self.complete {
		return true
	}
	if !Allowed(b) {
		return false
	}
	switch {
	case !self.word1Done:
		self.word1 += string(b)
		if self.word1 == Magic {
			self.word1Done = true
		} else if !strings.HasPrefix(Magic, self.word1) {
			self.word1 = ""
			if b == Magic[0] {
				self.word1 = string(b)
			}
		}

	case !self.word2Done:
		if b != sep {
			if len(self.word2) >= maxLengthLen {
				self.Reset()
				return false
			}
			self.word2 += string(b)
			return false
		}
		n, err := strconv.Atoi(self.word2)
		if err != nil {
			self.Reset()
			return false
		}
		self.word2Done = true
		self.msgLength = n - 1
		if self.msgLength <= 0 {
			self.msgLength = 0
			self.complete = true
		}

	default:
		self.msg = append(self.msg, b)
		if len(self.msg) >= self.msgLength {
			self.complete = true
		}
	}
	return self.complete
}

func (self *Parser) Complete() bool { return self.complete }

// Message is payload of complete message, partial payload otherwise.
func (self *Parser) Message() string { return string(self.msg) }

func (self *Parser) Reset() { *self = Parser{msg: self.msg[:0]} }
