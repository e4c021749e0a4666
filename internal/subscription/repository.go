package subscription

import "context"

type Repository interface {
	// Subscribe creates the user on first use. Subscribing twice is a no-op.
	Subscribe(ctx context.Context, email string, categoryID int64) error
	// Unsubscribe succeeds when the user or the pair does not exist.
	Unsubscribe(ctx context.Context, email string, categoryID int64) error
	// ListCategoryIDs returns category ids in subscription order. Unknown users have none.
	ListCategoryIDs(ctx context.Context, email string) ([]int64, error)
}
