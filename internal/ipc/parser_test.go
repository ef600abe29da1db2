package ipc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func feed(p *Parser, s string) (completeAt int) {
	for i := 0; i < len(s); i++ {
		if p.Feed(s[i]) {
			return i + 1
		}
	}
	return -1
}

func TestFramingLiteral(t *testing.T) {
	t.Parallel()

	p := &Parser{}
	input := []byte{'S', 'T', 'A', 'R', 'T', '|', '3', '|', 'a', 'b'}
	for i, b := range input {
		done := p.Feed(b)
		if i < len(input)-1 {
			assert.False(t, done, "byte #%d=%q", i+1, b)
		} else {
			assert.True(t, done, "byte #%d=%q", i+1, b)
		}
	}
	assert.True(t, p.Complete())
	assert.Equal(t, "ab", p.Message())

	// stays complete until reset
	assert.True(t, p.Feed('c'))
	assert.Equal(t, "ab", p.Message())
	p.Reset()
	assert.False(t, p.Complete())
	assert.Equal(t, "", p.Message())
}

func TestFraming(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		input  string
		at     int
		expect string
	}{
		{"garbage-prefix", "xxSTART|2|k", 11, "k"},
		{"restart-on-s", "SSTART|2|k", 10, "k"},
		{"filtered-bytes", "ST AR\nT|3|a-b", 13, "ab"},
		{"zero-length", "START|1|", 8, ""},
		{"length-zero", "START|0|", 8, ""},
		{"pipe-in-payload", "START|4|a|b", 11, "a|b"},
		{"bad-length", "START|x|START|2|z", 17, "z"},
		{"long-length", "START|1234567|START|2|q", 23, "q"},
		{"incomplete", "START|5|ab", -1, ""},
		{"no-magic", "STRAT|2|a", -1, ""},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			p := &Parser{}
			assert.Equal(t, c.at, feed(p, c.input))
			if c.at > 0 {
				assert.Equal(t, c.expect, p.Message())
			}
		})
	}
}

func TestSequence(t *testing.T) {
	t.Parallel()

	p := &Parser{}
	msgs := []string{}
	for _, b := range []byte("START|3|abSTART|3|cd..START|2|e") {
		if p.Feed(b) {
			msgs = append(msgs, p.Message())
			p.Reset()
		}
	}
	assert.Equal(t, []string{"ab", "cd", "e"}, msgs)
}

func TestAllowed(t *testing.T) {
	t.Parallel()

	for _, b := range []byte("\aazAZ09.|") {
		assert.True(t, Allowed(b), "b=%q", b)
	}
	for _, b := range []byte(" -_\n\x00{~\xff") {
		assert.False(t, Allowed(b), "b=%q", b)
	}
}
