// Package store provides SQLite-backed storage for the member book.
//
// The store owns a single table of member records:
//
//	members(iid INTEGER PRIMARY KEY AUTOINCREMENT,
//	        mname TEXT NOT NULL, msex TEXT NOT NULL, mphone TEXT NOT NULL)
//
// # Handle Lifetime
//
// SQLiteStore holds only the database path. Every operation opens its own
// *sql.DB, applies pragmas, does its work and closes the handle before
// returning, on success and on error alike. No handle or transaction spans two
// operations.
//
// # Ordering
//
// Reads return rows in natural order, made explicit as ORDER BY iid ASC.
// Lookups by name and phone are exact matches after NFC normalisation.
//
// # Identity
//
// AUTOINCREMENT guarantees ids are never reused, including after DeleteAll.
// Name is not unique: UpdateByName touches only the first matching row.
package store
