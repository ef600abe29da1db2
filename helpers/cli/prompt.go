// Package cli runs line oriented command loop: go-prompt on terminal, plain lines otherwise.
package cli

import (
	"bufio"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/c-bata/go-prompt"
	"github.com/mattn/go-isatty"
)

// Exec returns false to end the loop.
type Exec func(line string) bool

// MainLoop returns when exec asks to stop, input ends or a signal arrives.
// onSignal runs in signal goroutine, typically stops alive.
func MainLoop(tag string, exec Exec, complete prompt.Completer, onSignal func(os.Signal)) {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT)
	defer signal.Stop(signalCh)
	go func() {
		for s := range signalCh {
			if onSignal != nil {
				onSignal(s)
			}
			os.Exit(1)
		}
	}()

	if isatty.IsTerminal(os.Stdin.Fd()) {
		// go-prompt has no way to leave Run from executor
		prompt.New(func(line string) {
			if !exec(line) {
				if onSignal != nil {
					onSignal(nil)
				}
				os.Exit(0)
			}
		}, complete, prompt.OptionPrefix(tag+"> ")).Run()
		return
	}
	ReadLines(os.Stdin, exec)
}

// ReadLines feeds trimmed non-empty lines to exec.
func ReadLines(r io.Reader, exec Exec) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !exec(line) {
			return
		}
	}
}
