package memstore

import (
	"context"

	"aruth-api/models"
	"aruth-api/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type orders struct{ db *DB }

func (s orders) Insert(_ context.Context, o *models.Order) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	o.ID = primitive.NewObjectID()
	o.CreatedAt = now()
	s.db.orders = append(s.db.orders, *o)
	return nil
}

func (s orders) All(_ context.Context) ([]models.Order, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return newest(s.db.orders, 0, nil), nil
}

func (s orders) ByEmail(_ context.Context, email string, limit int64) ([]models.Order, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return newest(s.db.orders, limit, func(o *models.Order) bool { return o.Email == email }), nil
}

func (s orders) ByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	i := indexOf(s.db.orders, func(o *models.Order) bool { return o.ID == id })
	if i < 0 {
		return nil, store.ErrNotFound
	}
	o := s.db.orders[i]
	return &o, nil
}

func (s orders) ByOrderNum(_ context.Context, orderNum string) ([]models.Order, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return newest(s.db.orders, 0, func(o *models.Order) bool { return o.OrderNum == orderNum }), nil
}

func (s orders) Update(_ context.Context, id primitive.ObjectID, patch models.OrderPatch) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	i := indexOf(s.db.orders, func(o *models.Order) bool { return o.ID == id })
	if i < 0 {
		return store.ErrNotFound
	}
	patch.Apply(&s.db.orders[i])
	return nil
}

func (s orders) Delete(_ context.Context, id primitive.ObjectID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	i := indexOf(s.db.orders, func(o *models.Order) bool { return o.ID == id })
	if i < 0 {
		return store.ErrNotFound
	}
	s.db.orders = remove(s.db.orders, i)
	return nil
}

type sequence struct{ db *DB }

func (s sequence) Next(_ context.Context, name string) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.counters[name]++
	return s.db.counters[name], nil
}

type reviews struct{ db *DB }

func (s reviews) Upsert(_ context.Context, r *models.Review) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	ts := now()
	r.UpdatedAt = ts
	i := indexOf(s.db.reviews, func(x *models.Review) bool { return x.OrderNum == r.OrderNum })
	if i < 0 {
		r.ID = primitive.NewObjectID()
		r.CreatedAt = ts
		s.db.reviews = append(s.db.reviews, *r)
		return nil
	}
	r.ID = s.db.reviews[i].ID
	r.CreatedAt = s.db.reviews[i].CreatedAt
	s.db.reviews[i] = *r
	return nil
}

func (s reviews) ByProduct(_ context.Context, productID string) ([]models.Review, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return newest(s.db.reviews, 0, func(r *models.Review) bool { return r.ProductID == productID }), nil
}

func (s reviews) ByEmail(_ context.Context, email string) ([]models.Review, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return newest(s.db.reviews, 0, func(r *models.Review) bool { return r.Email == email }), nil
}

func (s reviews) ByOrderNum(_ context.Context, orderNum string) (*models.Review, error) {
	return s.find(func(r *models.Review) bool { return r.OrderNum == orderNum })
}

func (s reviews) ByID(_ context.Context, id primitive.ObjectID) (*models.Review, error) {
	return s.find(func(r *models.Review) bool { return r.ID == id })
}

func (s reviews) find(match func(*models.Review) bool) (*models.Review, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	i := indexOf(s.db.reviews, match)
	if i < 0 {
		return nil, store.ErrNotFound
	}
	r := s.db.reviews[i]
	return &r, nil
}

func (s reviews) Delete(_ context.Context, id primitive.ObjectID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	i := indexOf(s.db.reviews, func(r *models.Review) bool { return r.ID == id })
	if i < 0 {
		return store.ErrNotFound
	}
	s.db.reviews = remove(s.db.reviews, i)
	return nil
}

func (s reviews) Ratings(_ context.Context, productID string) ([]float64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	ratings := []float64{}
	for _, r := range s.db.reviews {
		if r.ProductID == productID {
			ratings = append(ratings, r.Ratings)
		}
	}
	return ratings, nil
}

type users struct{ db *DB }

// upsert finds or creates the user of email and hands it to mutate.
func (s users) upsert(email string, mutate func(*models.User)) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	i := indexOf(s.db.users, func(u *models.User) bool { return u.Email == email })
	if i < 0 {
		s.db.users = append(s.db.users, models.User{
			ID:        primitive.NewObjectID(),
			Email:     email,
			Role:      models.RoleCustomer,
			CreatedAt: now(),
		})
		i = len(s.db.users) - 1
	}
	mutate(&s.db.users[i])
}

func (s users) Register(_ context.Context, email string, profile models.Profile) error {
	s.upsert(email, profile.Apply)
	return nil
}

func (s users) UpdateContact(_ context.Context, email string, contact models.Contact) error {
	s.upsert(email, func(u *models.User) {
		u.Address = contact.Address
		u.Mob = contact.Mob
	})
	return nil
}

func (s users) ByEmail(_ context.Context, email string) (*models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	i := indexOf(s.db.users, func(u *models.User) bool { return u.Email == email })
	if i < 0 {
		return nil, store.ErrNotFound
	}
	u := s.db.users[i]
	return &u, nil
}

func (s users) All(_ context.Context) ([]models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return newest(s.db.users, 0, nil), nil
}

func (s users) ByRole(_ context.Context, role string) ([]models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return newest(s.db.users, 0, func(u *models.User) bool { return u.Role == role }), nil
}

func (s users) SetRole(_ context.Context, email, role string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	i := indexOf(s.db.users, func(u *models.User) bool { return u.Email == email })
	if i < 0 {
		return store.ErrNotFound
	}
	s.db.users[i].Role = role
	return nil
}
