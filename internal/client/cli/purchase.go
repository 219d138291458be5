package cli

import (
	"context"
	"errors"
	"time"

	"github.com/chepeat/chepeat/internal/client/lifecycle"
	"github.com/chepeat/chepeat/internal/client/models"
)

var errSellerMode = errors.New("seller mode required")

// requireSellerMode reports whether the session is in seller mode, telling
// the user how to get there when it is not.
func (a *App) requireSellerMode() error {
	if a.role() == models.RoleSeller {
		return nil
	}
	a.println("This command is for sellers. Type 'switch seller' first.")
	return errSellerMode
}

// Request sends a purchase request for a product: "request <productId>".
func (a *App) Request(ctx context.Context, args []string) error {
	if len(args) != 1 {
		a.println("Usage: request <productId>")
		return nil
	}
	pr, err := a.purchases.CreateRequest(ctx, args[0])
	if err != nil {
		return a.alert(err)
	}
	a.printf("Request %s sent. The seller will review it.\n", pr.ID)
	return nil
}

func (a *App) ShowRequest(ctx context.Context, args []string) error {
	if len(args) != 1 {
		a.println("Usage: show-request <id>")
		return nil
	}
	pr, err := a.purchases.GetRequest(ctx, args[0])
	if err != nil {
		return a.alert(err)
	}

	a.printf("Request:  %s\n", pr.ID)
	a.printf("Product:  %s %s\n", pr.IDProduct, pr.ProductName)
	a.printf("Buyer:    %s %s\n", pr.IDBuyer, pr.BuyerName)
	if !pr.RequestDate.IsZero() {
		a.printf("Date:     %s\n", pr.RequestDate.Local().Format(time.DateTime))
	}
	a.printf("Status:   %s\n", pr.Status)
	if !lifecycle.IsTerminal(pr.Status) && a.role() == models.RoleSeller {
		a.printf("Use 'accept %s' or 'reject %s'.\n", pr.ID, pr.ID)
	}
	return nil
}

func (a *App) Accept(ctx context.Context, args []string) error {
	if len(args) != 1 {
		a.println("Usage: accept <requestId>")
		return nil
	}
	if err := a.requireSellerMode(); err != nil {
		return err
	}
	tx, err := a.purchases.AcceptRequest(ctx, args[0])
	if err != nil {
		return a.alert(err)
	}
	if tx.ID == "" {
		a.println("Request accepted. Type 'transactions' to find its transaction id.")
		return nil
	}
	a.printf("Request accepted. Transaction %s is %s.\n", tx.ID, tx.Status)
	return nil
}

func (a *App) Reject(ctx context.Context, args []string) error {
	if len(args) != 1 {
		a.println("Usage: reject <requestId>")
		return nil
	}
	if err := a.requireSellerMode(); err != nil {
		return err
	}
	if err := a.purchases.RejectRequest(ctx, args[0]); err != nil {
		return a.alert(err)
	}
	a.println("Request rejected.")
	return nil
}

// Complete records delivery and payment: "complete <txId> <delivered> <paid>".
func (a *App) Complete(ctx context.Context, args []string) error {
	if len(args) != 3 {
		a.println("Usage: complete <txId> <delivered yes|no> <paid yes|no>")
		return nil
	}
	if err := a.requireSellerMode(); err != nil {
		return err
	}
	delivered, err := parseBool(args[1])
	if err != nil {
		return a.alert(err)
	}
	paid, err := parseBool(args[2])
	if err != nil {
		return a.alert(err)
	}

	tx, err := a.purchases.CompleteTransaction(ctx, args[0], delivered, paid)
	if err != nil {
		return a.alert(err)
	}
	a.printf("Transaction %s is %s.\n", tx.ID, tx.Status)
	return nil
}

func (a *App) Transactions(ctx context.Context) error {
	list, err := a.purchases.ListSellerTransactions(ctx)
	if err != nil {
		return a.alert(err)
	}
	if len(list) == 0 {
		a.println("No transactions yet.")
		return nil
	}
	for _, tx := range list {
		a.printf("%-10s request %-10s delivered=%-5t paid=%-5t %s\n",
			tx.ID, tx.IDPurchaseRequest, tx.WasDelivered, tx.WasPaid, tx.Status)
	}
	return nil
}
