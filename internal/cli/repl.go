package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	List(ctx context.Context) error
	Show(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Download(ctx context.Context, args []string) error
	Share(ctx context.Context, args []string) error
	Pick(ctx context.Context) error
	Camera(ctx context.Context) error
	Queue(ctx context.Context) error
	Clear(ctx context.Context) error
	Upload(ctx context.Context) error
	Account(ctx context.Context) error
	Logout(ctx context.Context) error
}

const (
	helpSignedOut = "Available commands: register, login, exit"
	helpSignedIn  = "Available commands: (l)ist, show <n>, delete [n], download [n], share [n], pick, camera, queue, clear, upload, account, logout, exit"
)

// runREPL starts a simple read–eval–print loop for the ImgVault shell.
//
// It reads a line from in, parses the first token as the
// command, and dispatches to methods on 'a'. The command set depends on
// whether a user is signed in; commands of the other set are reported as
// unknown. The loop exits on EOF or when the user types "exit" or "quit".
//
// Command handlers prompt through the same reader, so in must be the only
// buffered reader over stdin.
//
// Any errors returned by command handlers are ignored here; handlers report
// to the user and log on their own.
func runREPL(ctx context.Context, a execIface, statusFn func() string, in *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("imgvault %s> ", statusFn()))
		line, err := in.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "exit", "quit":
			printlnFn("Bye!")
			return
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpSignedIn)
			} else {
				printlnFn(helpSignedOut)
			}
			continue
		}

		if a.isLoggedIn() {
			dispatchSignedIn(ctx, a, cmd, args)
		} else {
			dispatchSignedOut(ctx, a, cmd)
		}
	}
}

func dispatchSignedOut(ctx context.Context, a execIface, cmd string) {
	switch cmd {
	case "register":
		_ = a.Register(ctx)
	case "login":
		_ = a.Login(ctx)
	default:
		printlnFn("Unknown command:", cmd)
	}
}

func dispatchSignedIn(ctx context.Context, a execIface, cmd string, args []string) {
	switch cmd {
	case "l", "list":
		_ = a.List(ctx)
	case "show":
		_ = a.Show(ctx, args)
	case "delete":
		_ = a.Delete(ctx, args)
	case "download":
		_ = a.Download(ctx, args)
	case "share":
		_ = a.Share(ctx, args)
	case "pick":
		_ = a.Pick(ctx)
	case "camera":
		_ = a.Camera(ctx)
	case "queue":
		_ = a.Queue(ctx)
	case "clear":
		_ = a.Clear(ctx)
	case "upload":
		_ = a.Upload(ctx)
	case "account":
		_ = a.Account(ctx)
	case "logout":
		_ = a.Logout(ctx)
	default:
		printlnFn("Unknown command:", cmd)
	}
}
