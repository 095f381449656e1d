package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fasttech/usuarios/internal/core/domain"
)

const collectionUsers = "users"

// UserRepository implements ports.UserRepository on the users collection.
// Uniqueness of email and cpf among available users is enforced by partial
// unique indexes, see EnsureIndexes.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

type userDocument struct {
	ID            string    `bson:"_id"`
	Name          string    `bson:"name"`
	CPF           string    `bson:"cpf"`
	Email         string    `bson:"email"`
	PasswordHash  string    `bson:"password_hash"`
	Role          string    `bson:"role"`
	IsAvailable   bool      `bson:"is_available"`
	CreatedAt     time.Time `bson:"created_at"`
	LastUpdatedAt time.Time `bson:"last_updated_at"`
}

func toDocument(u *domain.User) userDocument {
	return userDocument{
		ID:            u.ID.String(),
		Name:          u.Name,
		CPF:           u.CPF,
		Email:         u.Email,
		PasswordHash:  u.PasswordHash,
		Role:          string(u.Role),
		IsAvailable:   u.IsAvailable,
		CreatedAt:     u.CreatedAt.UTC(),
		LastUpdatedAt: u.LastUpdatedAt.UTC(),
	}
}

func (d userDocument) toDomain() (*domain.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("decode user %q: %w", d.ID, err)
	}
	// Not wrapped: a corrupt role is a storage fault, not a client error.
	role, err := domain.ParseRole(d.Role)
	if err != nil {
		return nil, fmt.Errorf("decode user %q: unknown role %q", d.ID, d.Role)
	}
	return &domain.User{
		ID:            id,
		Name:          d.Name,
		CPF:           d.CPF,
		Email:         d.Email,
		PasswordHash:  d.PasswordHash,
		Role:          role,
		IsAvailable:   d.IsAvailable,
		CreatedAt:     d.CreatedAt.UTC(),
		LastUpdatedAt: d.LastUpdatedAt.UTC(),
	}, nil
}

// Create inserts a new user document.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, toDocument(u)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// Update replaces the mutable fields of the user. Role and creation time
// are never rewritten.
func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"name":            u.Name,
		"cpf":             u.CPF,
		"email":           u.Email,
		"password_hash":   u.PasswordHash,
		"last_updated_at": u.LastUpdatedAt.UTC(),
	}}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": u.ID.String(), "is_available": true}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// SoftDelete marks the user unavailable as of at. Deleting an already
// unavailable user reports domain.ErrUserNotFound.
func (r *UserRepository) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"is_available":    false,
		"last_updated_at": at.UTC(),
	}}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id.String(), "is_available": true}, update)
	if err != nil {
		return fmt.Errorf("soft delete user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// FindByID returns the user regardless of availability.
func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id.String()})
}

func (r *UserRepository) FindActiveByCPF(ctx context.Context, cpf string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"cpf": cpf, "is_available": true})
}

func (r *UserRepository) FindActiveByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email, "is_available": true})
}

// ExistsActiveByEmailOrCPF reports whether an available user already owns
// email or cpf.
func (r *UserRepository) ExistsActiveByEmailOrCPF(ctx context.Context, email, cpf string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"is_available": true,
		"$or":          bson.A{bson.M{"email": email}, bson.M{"cpf": cpf}},
	}
	n, err := r.col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return n > 0, nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain()
}

// EnsureIndexes creates the partial unique indexes that keep email and cpf
// unique among available users while letting soft-deleted records keep
// their values.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	available := bson.M{"is_available": true}
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("uniq_available_email").SetUnique(true).SetPartialFilterExpression(available),
		},
		{
			Keys:    bson.D{{Key: "cpf", Value: 1}},
			Options: options.Index().SetName("uniq_available_cpf").SetUnique(true).SetPartialFilterExpression(available),
		},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
