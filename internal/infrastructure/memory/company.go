package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/varejo-api/internal/domain"
	"github.com/jhoicas/varejo-api/internal/domain/entity"
	"github.com/jhoicas/varejo-api/internal/domain/repository"
)

var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo empresas en memoria.
type CompanyRepo struct{ db *DB }

// NewCompanyRepository construye el repositorio.
func NewCompanyRepository(db *DB) *CompanyRepo { return &CompanyRepo{db: db} }

func (r *CompanyRepo) Create(_ context.Context, c *entity.Company) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, other := range r.db.companies {
		if other.CNPJ == c.CNPJ {
			return domain.ErrDuplicate
		}
	}
	r.db.companies[c.ID] = *c
	return nil
}

func (r *CompanyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	c, ok := r.db.companies[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CompanyRepo) GetByCNPJ(_ context.Context, cnpj string) (*entity.Company, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, c := range r.db.companies {
		if c.CNPJ == cnpj {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *CompanyRepo) Update(_ context.Context, c *entity.Company) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.companies[c.ID]; !ok {
		return domain.ErrNotFound
	}
	for _, other := range r.db.companies {
		if other.ID != c.ID && other.CNPJ == c.CNPJ {
			return domain.ErrDuplicate
		}
	}
	r.db.companies[c.ID] = *c
	return nil
}

func (r *CompanyRepo) List(_ context.Context) ([]*entity.Company, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make([]*entity.Company, 0, len(r.db.companies))
	for _, c := range r.db.companies {
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
