// Package console reads registration and login fields from an interactive
// terminal.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"unicode/utf8"

	"github.com/hongminglow/coffee-shop/internal/auth"
	"github.com/hongminglow/coffee-shop/internal/models"
)

// ErrNoInput is returned when the reader is exhausted before a field is read.
var ErrNoInput = errors.New("no input")

var _ auth.Input = (*Prompter)(nil)

// Prompter asks for each field on out and reads whitespace-separated tokens
// from in. Tokens longer than a field's limit are truncated.
type Prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewPrompter creates a Prompter.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	scanner := bufio.NewScanner(in)
	scanner.Split(bufio.ScanWords)
	return &Prompter{scanner: scanner, out: out}
}

// Registration prompts for name, phone and password in that order.
func (p *Prompter) Registration(context.Context) (auth.Registration, error) {
	fmt.Fprint(p.out, "\n=== User Registration ===\n")
	name, err := p.ask("please input your name: ", models.MaxNameLen)
	if err != nil {
		return auth.Registration{}, err
	}
	phone, err := p.ask("please input your phone number: ", models.MaxPhoneLen)
	if err != nil {
		return auth.Registration{}, err
	}
	password, err := p.ask("please set your password: ", models.MaxPasswordLen)
	if err != nil {
		return auth.Registration{}, err
	}
	return auth.Registration{Name: name, Phone: phone, Password: password}, nil
}

// Credentials prompts for the account id and password.
func (p *Prompter) Credentials(context.Context) (auth.Credentials, error) {
	fmt.Fprint(p.out, "\n=== User Login ===\n")
	rawID, err := p.ask("please input your ID: ", 20)
	if err != nil {
		return auth.Credentials{}, err
	}
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return auth.Credentials{}, fmt.Errorf("id %q is not a number", rawID)
	}
	password, err := p.ask("please input your password: ", models.MaxPasswordLen)
	if err != nil {
		return auth.Credentials{}, err
	}
	return auth.Credentials{ID: id, Password: password}, nil
}

func (p *Prompter) ask(prompt string, limit int) (string, error) {
	fmt.Fprint(p.out, prompt)
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		return "", ErrNoInput
	}
	return truncate(p.scanner.Text(), limit), nil
}

// truncate cuts s to at most limit bytes without splitting a UTF-8 sequence.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
