package main

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/term"
)

// keyboard puts stdin in raw mode and reports single key presses.
type keyboard struct {
	fd   int
	old  *term.State
	keys chan byte
}

func openKeyboard() (*keyboard, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, errors.New("stdin is not a terminal")
	}
	old, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("set raw mode: %w", err)
	}
	k := &keyboard{fd: fd, old: old, keys: make(chan byte, 16)}
	go k.read()
	return k, nil
}

func (k *keyboard) read() {
	buf := make([]byte, 1)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil {
			close(k.keys)
			return
		}
		if n == 1 {
			k.keys <- buf[0]
		}
	}
}

// Keys yields bytes as typed. It is closed when stdin ends.
func (k *keyboard) Keys() <-chan byte { return k.keys }

func (k *keyboard) Close() error {
	return term.Restore(k.fd, k.old)
}
