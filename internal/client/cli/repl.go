package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/chepeat/chepeat/internal/client/models"
	"github.com/chepeat/chepeat/internal/logging"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	role() models.Role

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error

	BecomeSeller(ctx context.Context) error
	Switch(ctx context.Context, args []string) error

	Nearby(ctx context.Context, args []string) error
	Product(ctx context.Context, args []string) error
	Request(ctx context.Context, args []string) error

	ShowRequest(ctx context.Context, args []string) error
	Accept(ctx context.Context, args []string) error
	Reject(ctx context.Context, args []string) error
	Complete(ctx context.Context, args []string) error
	Transactions(ctx context.Context) error

	MyProducts(ctx context.Context) error
	AddProduct(ctx context.Context) error
	ShowProduct(ctx context.Context, args []string) error
	UpdateProduct(ctx context.Context, args []string) error
	DeleteProduct(ctx context.Context, args []string) error
}

const (
	helpGuest  = "Available commands: register, login, exit"
	helpBuyer  = "Available commands: nearby [lat lon [km]], product <name>, request <productId>, become-seller, switch seller, whoami, logout, exit"
	helpSeller = "Available commands: show-request <id>, accept <id>, reject <id>, complete <txId> <delivered> <paid>, transactions, myproducts, addproduct, showproduct <id>, updateproduct <id>, delproduct <id>, switch buyer, whoami, logout, exit"
)

// runREPL starts a simple read–eval–print loop for the Chepeat CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command and passes the remaining tokens as arguments to methods on 'a'.
// Unknown commands are reported back to the user. The loop exits on scanner
// EOF or when the user types "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers print
// their own alert. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("chepeat %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]
		ctx := logging.WithFields(ctx, "command", cmd)

		switch cmd {
		case "help":
			switch {
			case !a.isLoggedIn():
				printlnFn(helpGuest)
			case a.role() == models.RoleSeller:
				printlnFn(helpSeller)
			default:
				printlnFn(helpBuyer)
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "become-seller":
			_ = a.BecomeSeller(ctx)

		case "switch":
			_ = a.Switch(ctx, args)

		case "nearby":
			_ = a.Nearby(ctx, args)

		case "product":
			_ = a.Product(ctx, args)

		case "request":
			_ = a.Request(ctx, args)

		case "show-request":
			_ = a.ShowRequest(ctx, args)

		case "accept":
			_ = a.Accept(ctx, args)

		case "reject":
			_ = a.Reject(ctx, args)

		case "complete":
			_ = a.Complete(ctx, args)

		case "transactions":
			_ = a.Transactions(ctx)

		case "myproducts":
			_ = a.MyProducts(ctx)

		case "addproduct":
			_ = a.AddProduct(ctx)

		case "showproduct":
			_ = a.ShowProduct(ctx, args)

		case "updateproduct":
			_ = a.UpdateProduct(ctx, args)

		case "delproduct":
			_ = a.DeleteProduct(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
