// Package securestore provides the secure local store of the Chepeat
// client: a SQLite key/value table whose values are optionally sealed with
// AES-GCM.
//
// # Overview
//
// Open creates (or opens) the database file, applies the embedded goose
// migrations and, when a passphrase is given, derives the sealing key from it
// and a per-database random salt kept under the reserved key "__salt".
// Without a passphrase values are stored as-is.
//
// Key Types
//
//   - type Repository        — contract used by the session layer
//   - type SQLiteRepository  — SQLite implementation over dbx.DBTX
//   - type Store             — owns the *sql.DB and the bound repository
//
// Typical Usage
//
//	st, _ := securestore.Open(ctx, "chepeat.db", []byte(passphrase))
//	defer st.Close()
//	_ = st.Repo.Set(ctx, "userToken", []byte(token))
package securestore
