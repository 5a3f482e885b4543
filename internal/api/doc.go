// Package api is the request facade every workflow talks to instead of the record store.
//
// Each call waits a configurable latency before touching storage so the rest of the
// application behaves as if it were talking to a remote backend:
//
//	client := api.NewClient(store, codec, api.OptionsFromConfig(cfg))
//	rec, err := client.Get(ctx, "products", "p1")    // nil when absent
//	rec, err = client.Post(ctx, "orders", order)      // create only, id assigned when missing
//	rec, err = client.Put(ctx, "cart", cartID, cart)  // full replace
//	existed, err := client.Delete(ctx, "cart", cartID)
//
// Failures come back as *RequestError. Callers classify them with errors.Is against
// ErrNotFound, ErrValidation, ErrAuth and ErrStorageUnavailable; the underlying storage
// errors are never exposed.
//
// Login and Logout manage the persisted session token in the system collection.
package api
