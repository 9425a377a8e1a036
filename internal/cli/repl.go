package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Drain(ctx context.Context)
	Locate(ctx context.Context) error
	Wait(ctx context.Context) error
	Snap(ctx context.Context) error
	Center(ctx context.Context, args []string) error
	History(ctx context.Context) error
	Delete(ctx context.Context, args []string) error
	Clear(ctx context.Context) error
	Select(ctx context.Context, args []string) error
	Settings(ctx context.Context) error
	Set(ctx context.Context, args []string) error
	Defaults(ctx context.Context) error
	Photos(ctx context.Context) error
	Reset(ctx context.Context) error
}

const helpText = `Available commands:
  locate                 start a capture at the device or map center
  wait                   block until the current capture settles
  snap                   save the built capture
  center <lat> <lon>     pan the map
  history                list saved captures
  delete <row>           delete one capture and its photo
  clear                  delete every capture and photo
  select <row>           show a saved capture on the map
  settings               list preferences
  set <name> <value>     change a preference
  defaults               restore every preference
  photos                 list and verify album photos
  reset                  abandon the current capture
  exit | quit            leave the program`

// runREPL reads commands from scanner and dispatches them to a until EOF,
// "exit" or "quit". Pending completions are drained before each prompt.
// A nil statusFn suppresses the prompt.
//
// Errors returned by command handlers are ignored here; handlers report
// their own errors.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		a.Drain(ctx)
		if statusFn != nil {
			printlnFn(fmt.Sprintf("snap> %s > ", statusFn()))
		}
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		switch cmd {
		case "help", "?":
			printlnFn(helpText)

		case "locate", "l":
			_ = a.Locate(ctx)

		case "wait":
			_ = a.Wait(ctx)

		case "snap", "s":
			_ = a.Snap(ctx)

		case "center":
			_ = a.Center(ctx, args)

		case "history", "h":
			_ = a.History(ctx)

		case "delete":
			_ = a.Delete(ctx, args)

		case "clear":
			_ = a.Clear(ctx)

		case "select":
			_ = a.Select(ctx, args)

		case "settings":
			_ = a.Settings(ctx)

		case "set":
			_ = a.Set(ctx, args)

		case "defaults":
			_ = a.Defaults(ctx)

		case "photos":
			_ = a.Photos(ctx)

		case "reset":
			_ = a.Reset(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if ctx.Err() != nil {
			return
		}
	}
}
