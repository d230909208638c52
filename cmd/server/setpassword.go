package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/HndrkDrs/WeekWise/internal/auth"
	"github.com/HndrkDrs/WeekWise/internal/config"
	"github.com/HndrkDrs/WeekWise/internal/service"
)

// setPassword handles the set-password subcommand. It writes the admin
// login hash straight into the settings document.
func setPassword(args []string) {
	fs := flag.NewFlagSet("set-password", flag.ExitOnError)
	configPath := fs.String("config", "./weekwise.yaml", "Path to the YAML config file")
	dataDir := fs.String("data", "", "Data directory (overrides config)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: weekwise set-password [OPTIONS]\n\n")
		fmt.Fprintf(os.Stderr, "Sets the admin password. Reads from the terminal, or one line from stdin when piped.\n")
		fmt.Fprintf(os.Stderr, "Stop the server first; it would overwrite the settings document on its next save.\n")
		fmt.Fprintf(os.Stderr, "At least %d characters with upper case, lower case and a digit.\n\nOptions:\n", auth.MinPasswordLength)
		fs.PrintDefaults()
	}
	fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatalf("loading config: %v", err)
	}
	applyOverrides(cfg, "", *dataDir, "")

	password, err := readNewPassword()
	if err != nil {
		fatalf("%v", err)
	}
	if err := auth.ValidatePolicy(password); err != nil {
		fatalf("%v", err)
	}

	store, closeStore, err := openStore(cfg)
	if err != nil {
		fatalf("opening storage: %v", err)
	}
	defer closeStore()

	ctx := context.Background()
	p := service.New(store, nil, nil)
	if err := p.Load(ctx); err != nil {
		closeStore()
		fatalf("loading documents: %v", err)
	}
	if err := p.SetPassword(ctx, password); err != nil {
		closeStore()
		fatalf("%v", err)
	}
	fmt.Println("Admin password updated.")
}

func readNewPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Print("New password:     ")
	first, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	fmt.Print("Confirm password: ")
	second, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	return string(first), nil
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
