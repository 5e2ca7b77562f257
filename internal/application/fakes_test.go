package application

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/feedline/backend/internal/domain/entity"
	repo "github.com/feedline/backend/internal/domain/repository"
)

// memPostRepo is an in-memory PostRepository with the same contract as the
// Postgres implementation: Mutate serializes per aggregate id.
type memPostRepo struct {
	mu    sync.Mutex
	posts map[string]*entity.Post
	locks map[string]*sync.Mutex
}

func newMemPostRepo() *memPostRepo {
	return &memPostRepo{
		posts: make(map[string]*entity.Post),
		locks: make(map[string]*sync.Mutex),
	}
}

func (r *memPostRepo) lockFor(id string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locks[id]
	if !ok {
		l = &sync.Mutex{}
		r.locks[id] = l
	}
	return l
}

func clonePost(p *entity.Post) *entity.Post {
	cp := *p
	cp.Likes = append([]entity.Like(nil), p.Likes...)
	cp.Comments = append([]entity.Comment(nil), p.Comments...)
	return &cp
}

func (r *memPostRepo) Create(_ context.Context, p *entity.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.CreatedAt = time.Now().UTC()
	r.posts[p.ID] = clonePost(p)
	return nil
}

func (r *memPostRepo) GetByID(_ context.Context, id string) (*entity.Post, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, repo.ErrNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return clonePost(p), nil
}

func (r *memPostRepo) ListAll(_ context.Context) ([]*entity.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Post, 0, len(r.posts))
	for _, p := range r.posts {
		out = append(out, clonePost(p))
	}
	// newest first
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].CreatedAt.After(out[i].CreatedAt) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

func (r *memPostRepo) Mutate(ctx context.Context, id string, fn func(*entity.Post) error) (*entity.Post, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, repo.ErrNotFound
	}
	l := r.lockFor(id)
	l.Lock()
	defer l.Unlock()

	cur, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(cur); err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.posts[id] = clonePost(cur)
	r.mu.Unlock()
	return cur, nil
}

func (r *memPostRepo) Delete(_ context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return repo.ErrNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.posts, id)
	return nil
}

var _ repo.PostRepository = (*memPostRepo)(nil)

// memUserRepo is a fixed set of users keyed by id.
type memUserRepo struct {
	byID map[string]*entity.User
}

func newMemUserRepo(users ...*entity.User) *memUserRepo {
	m := &memUserRepo{byID: make(map[string]*entity.User)}
	for _, u := range users {
		m.byID[u.ID] = u
	}
	return m
}

func (r *memUserRepo) Create(u *entity.User) error {
	r.byID[u.ID] = u
	return nil
}

func (r *memUserRepo) GetByID(id string) (*entity.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return u, nil
}

func (r *memUserRepo) GetByEmail(email string) (*entity.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repo.ErrNotFound
}

var _ repo.UserRepository = (*memUserRepo)(nil)

// downUserRepo fails every lookup with a storage error, simulating an outage.
type downUserRepo struct {
	err error
}

func (r *downUserRepo) Create(*entity.User) error               { return r.err }
func (r *downUserRepo) GetByID(string) (*entity.User, error)    { return nil, r.err }
func (r *downUserRepo) GetByEmail(string) (*entity.User, error) { return nil, r.err }

var _ repo.UserRepository = (*downUserRepo)(nil)
