package main

import (
	"errors"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// confirm asks a yes/no question on the terminal. Anything other than y/yes,
// including Ctrl-C or EOF, is a no.
func confirm(prompt string) (bool, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt + " (yes/no): ",
		InterruptPrompt: "^C",
		EOFPrompt:       "no",
	})
	if err != nil {
		return false, err
	}
	defer rl.Close()

	line, err := rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return isYes(line), nil
}

// readSecret reads a line without echoing it.
func readSecret(prompt string) (string, error) {
	rl, err := readline.NewEx(&readline.Config{})
	if err != nil {
		return "", err
	}
	defer rl.Close()

	secret, err := rl.ReadPassword(prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(secret)), nil
}

func isYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
