//go:build integration

// Package testdb provides helpers for tests that run against a real
// PostgreSQL database.
//
// Tests obtain a connection with GetTestDBWithT, which skips the test when no
// database URL is configured, and run inside WithTx so every change is rolled
// back when the test ends:
//
//	func TestSomething(t *testing.T) {
//	    db := testdb.GetTestDBWithT(t)
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        s := postgres.NewPostgresGenerationStore(tx, nil)
//	        // ...
//	    })
//	}
//
// The schema is migrated once per connection with the embedded goose
// migrations the server applies in production.
package testdb
