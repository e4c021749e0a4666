package repositoryimpl

import (
	"context"
	"path"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/kazz187/taskdigest/internal/newsletter"
	"github.com/kazz187/taskdigest/pkg/cerr"
	"github.com/kazz187/taskdigest/pkg/storage"
)

const newslettersPrefix = "newsletters"

var _ newsletter.Repository = (*StorageRepository)(nil)

// StorageRepository keeps issues as markdown files at newsletters/<email>/<id>.md.
type StorageRepository struct {
	storage storage.Storage
}

func NewStorageRepository(s storage.Storage) *StorageRepository {
	return &StorageRepository{storage: s}
}

func userDir(email string) string {
	return path.Join(newslettersPrefix, email)
}

func issuePath(email, id string) string {
	return path.Join(userDir(email), id+".md")
}

func (r *StorageRepository) Save(ctx context.Context, issue *newsletter.Issue) error {
	p := issuePath(issue.UserEmail, issue.ID)
	if err := r.storage.Write(ctx, p, []byte(issue.Body)); err != nil {
		return cerr.WrapStorageWriteError("newsletter", err)
	}
	issue.Path = p
	return nil
}

func (r *StorageRepository) Get(ctx context.Context, email, id string) (*newsletter.Issue, error) {
	parsed, err := ulid.ParseStrict(id)
	if err != nil {
		return nil, cerr.NewError(cerr.InvalidArgument, "invalid newsletter id", err)
	}
	p := issuePath(email, id)
	data, err := r.storage.Read(ctx, p)
	if err != nil {
		return nil, cerr.WrapStorageReadError("newsletter", err)
	}
	return &newsletter.Issue{
		ID:        id,
		UserEmail: email,
		CreatedAt: ulid.Time(parsed.Time()).UTC(),
		Body:      string(data),
		Path:      p,
	}, nil
}

func (r *StorageRepository) List(ctx context.Context, email string) ([]string, error) {
	keys, err := r.storage.List(ctx, userDir(email))
	if err != nil {
		return nil, cerr.WrapStorageReadError("newsletter", err)
	}
	ids := make([]string, 0, len(keys))
	for _, key := range keys {
		name, ok := strings.CutSuffix(path.Base(key), ".md")
		if !ok {
			continue
		}
		if _, err := ulid.ParseStrict(name); err != nil {
			continue
		}
		ids = append(ids, name)
	}
	return ids, nil
}
