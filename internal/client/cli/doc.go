// Package cli provides the interactive Chepeat command-line client.
//
// It wires configuration, the secure local store, the backend gateway and
// the application services into a REPL. Typical flow: restore the previous
// session if one is cached, then execute user commands in buyer or seller
// mode.
//
// Key features:
//   - Register / Login / Logout
//   - Become a seller and switch between buyer and seller mode
//   - Discover nearby products and send purchase requests
//   - Review, accept or reject requests and settle transactions
//   - Manage the seller's own products
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// Every failed command prints one alert naming the action and leaves the
// session as it was.
package cli
