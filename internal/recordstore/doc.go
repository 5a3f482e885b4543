// Package recordstore is the only component that touches persistent storage.
//
// Records are schemaless JSON documents grouped into a fixed set of named
// collections and keyed by their "id" attribute:
//
//	store := recordstore.Open("./shayfa.db")
//	defer store.Close()
//
//	rec, err := store.Put(ctx, "products", entities.Record{"title": "Mat"}) // id assigned
//	same, err := store.Get(ctx, "products", rec.ID())
//	all, err := store.List(ctx, "products")
//	existed, err := store.Delete(ctx, "products", rec.ID())
//
// Open never fails. When the sqlite file cannot be opened the store switches to an
// in-memory backend and Ready reports false, so callers can keep running in a
// best-effort mode.
package recordstore
