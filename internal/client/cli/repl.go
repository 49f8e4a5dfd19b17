package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL drives. App satisfies it.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Show(ctx context.Context, args []string) error
	Push(ctx context.Context, path string) error
	Sync(ctx context.Context) error
	Export(ctx context.Context, path string) error
	AdminList(ctx context.Context) error
	AdminGet(ctx context.Context, email string) error
	AdminDelete(ctx context.Context, email string) error
}

// runREPL reads commands from reader and dispatches them to a until EOF,
// "exit" or "quit". Handlers prompt on the same reader.
//
//	Not logged in:  help, register, login, admin-*, exit
//	Logged in:      help, show [json], push <file>, sync, export <file>,
//	                logout, admin-*, exit
//	Admin:          admin-list, admin-get <email>, admin-delete <email>
//
// Handler errors are ignored here; handlers report to the user themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("sk%s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: show [json], push <file>, sync, export <file>, logout, admin-list, admin-get <email>, admin-delete <email>, exit")
			} else {
				printlnFn("Available commands: register, login, admin-list, admin-get <email>, admin-delete <email>, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "show":
			_ = a.Show(ctx, args)

		case "push":
			if len(args) == 0 {
				printlnFn("Usage: push <file>")
				continue
			}
			_ = a.Push(ctx, args[0])

		case "sync":
			_ = a.Sync(ctx)

		case "export":
			if len(args) == 0 {
				printlnFn("Usage: export <file>")
				continue
			}
			_ = a.Export(ctx, args[0])

		case "admin-list":
			_ = a.AdminList(ctx)

		case "admin-get":
			if len(args) == 0 {
				printlnFn("Usage: admin-get <email>")
				continue
			}
			_ = a.AdminGet(ctx, args[0])

		case "admin-delete":
			if len(args) == 0 {
				printlnFn("Usage: admin-delete <email>")
				continue
			}
			_ = a.AdminDelete(ctx, args[0])

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
