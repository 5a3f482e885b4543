package api

import (
	"context"
	"fmt"

	"github.com/mrlokans/shayfa/internal/entities"
)

// GetAs fetches a record and decodes it into T. A missing record is ErrNotFound.
func GetAs[T any](ctx context.Context, c *Client, collection, id string) (*T, error) {
	rec, err := c.Get(ctx, collection, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, requestError(OpGet, collection, fmt.Errorf("%w: %s", ErrNotFound, id))
	}
	var out T
	if err := rec.Decode(&out); err != nil {
		return nil, requestError(OpGet, collection, err)
	}
	return &out, nil
}

// ListAs fetches every record of a collection and decodes each into T.
func ListAs[T any](ctx context.Context, c *Client, collection string) ([]T, error) {
	recs, err := c.List(ctx, collection)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(recs))
	for _, rec := range recs {
		var v T
		if err := rec.Decode(&v); err != nil {
			return nil, requestError(OpGet, collection, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// Encode converts a domain value into a record.
func Encode(v any) (entities.Record, error) {
	rec, err := entities.ToRecord(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return rec, nil
}
