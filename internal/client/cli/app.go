package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chepeat/chepeat/internal/client/client"
	"github.com/chepeat/chepeat/internal/client/config"
	"github.com/chepeat/chepeat/internal/client/models"
	"github.com/chepeat/chepeat/internal/client/repositories/securestore"
	"github.com/chepeat/chepeat/internal/client/services"
	"github.com/chepeat/chepeat/internal/client/session"
	"github.com/chepeat/chepeat/internal/common"
	"github.com/chepeat/chepeat/internal/filex"
	"github.com/chepeat/chepeat/internal/logging"
)

type App struct {
	config *config.Config
	log    logging.Logger
	store  *securestore.Store

	session   session.Repository
	roles     services.RoleService
	auth      services.AuthService
	purchases services.PurchaseService
	discovery services.DiscoveryService
	products  services.ProductService

	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens the local store at cfg.StorePath and builds the services
// against the HTTP gateway at cfg.BackendURL.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	path, err := filex.EnsureParentDir(cfg.StorePath)
	if err != nil {
		return nil, err
	}
	st, err := securestore.Open(ctx, path, []byte(cfg.StorePassphrase))
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}

	gw := client.NewHTTPClient(cfg.BackendURL,
		client.WithTimeout(cfg.RequestTimeout),
		client.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)

	app := newApp(cfg, log, st.Repo, gw)
	app.store = st
	return app, nil
}

func newApp(cfg *config.Config, log logging.Logger, repo securestore.Repository, gw client.Client) *App {
	sess := session.New(repo)
	roles := services.NewRoleService(gw, sess, log)

	return &App{
		config:    cfg,
		log:       log,
		session:   sess,
		roles:     roles,
		auth:      services.NewAuthService(gw, sess, roles, log),
		purchases: services.NewPurchaseService(gw, sess, roles, log),
		discovery: services.NewDiscoveryService(gw, sess, roles, log, services.DiscoveryOptions{
			RadiusKm:    cfg.DiscoveryRadiusKm,
			Limit:       cfg.DiscoveryLimit,
			Concurrency: cfg.DiscoveryConcurrency,
		}),
		products: services.NewProductService(gw, sess, roles, log),
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}
}

// Run restores the cached session and blocks in the REPL until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	a.println("Welcome to Chepeat (type 'help' for commands)")
	if role, err := a.roles.Restore(ctx); err == nil && role != models.RoleAnonymous {
		a.println("Session restored.")
	}

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))
}

func (a *App) Close() {
	if a.store == nil {
		return
	}
	if err := a.store.Close(); err != nil {
		a.log.Warn(context.Background(), "close local store", "err", err)
	}
}

func (a *App) isLoggedIn() bool {
	return a.roles.CurrentRole() != models.RoleAnonymous
}

func (a *App) role() models.Role {
	return a.roles.CurrentRole()
}

func (a *App) getStatus() string {
	role := a.roles.CurrentRole()
	if role == models.RoleAnonymous {
		return "(guest)"
	}
	account, err := a.session.Account(context.Background())
	if err != nil || account == nil {
		return fmt.Sprintf("(%s)", role)
	}
	return fmt.Sprintf("(%s %s)", account.Email, role)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// alert prints the single user-facing message for a failed command.
func (a *App) alert(err error) error {
	switch {
	case errors.Is(err, common.ErrProfileNotFound):
		a.println("You are not a seller yet. Type 'become-seller' to open your store.")
	case errors.Is(err, common.ErrAuthMissing), errors.Is(err, client.ErrUnauthorized):
		a.println("Error:", common.Alert(err), "- please log in again.")
	case errors.Is(err, common.ErrNotOwner):
		a.println("Error:", common.Alert(err), "- it belongs to another store.")
	case errors.Is(err, common.ErrLocationUnavailable):
		a.println("Error:", common.Alert(err), "- location is required to search nearby.")
	default:
		a.println("Error:", common.Alert(err))
	}
	return err
}
