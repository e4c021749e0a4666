package newsletter

import "context"

type Repository interface {
	Save(ctx context.Context, issue *Issue) error
	Get(ctx context.Context, email, id string) (*Issue, error)
	// List returns the ids of a user's saved issues, oldest first.
	List(ctx context.Context, email string) ([]string, error)
}
