package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Signup(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	ForgotPassword(ctx context.Context) error
	Ads(ctx context.Context, args []string) error
	Ad(ctx context.Context, args []string) error
	Buy(ctx context.Context, args []string) error
	Profile(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the AdConnect CLI.
//
// It reads a line from reader, parses the first token as the command and
// dispatches to methods on 'a'. Command prompts read from the same reader,
// so input typed ahead is never lost between the two. The loop exits on EOF,
// when ctx is done, or when the user types "exit" or "quit".
//
// Prompt & Commands
//
//	Not logged in:
//	  - help                  show available commands
//	  - signup                create an account
//	  - login                 authenticate
//	  - forgot                request a password reset link
//	  - ads [filters] [text]  browse adverts
//	  - ad <id>               show one advert
//	  - exit | quit           leave the program
//
//	Logged in, additionally:
//	  - buy <id>              pay for an advert
//	  - profile               show the account and own adverts
//	  - logout                log out
//
// Handler errors are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("adc %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: ads, ad <id>, buy <id>, profile, logout, exit")
			} else {
				printlnFn("Available commands: signup, login, forgot, ads, ad <id>, exit")
			}

		case "signup", "register":
			cmdErr = a.Signup(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "forgot":
			cmdErr = a.ForgotPassword(ctx)

		case "ads", "l", "list":
			cmdErr = a.Ads(ctx, args)

		case "ad", "show":
			cmdErr = a.Ad(ctx, args)

		case "buy":
			cmdErr = a.Buy(ctx, args)

		case "profile":
			cmdErr = a.Profile(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr.Error())
		}
		if err != nil {
			return
		}
	}
}
