package mongo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jobox/jobox-api/internal/core/domain"
)

const identityCollection = "identities"

// IdentityRepository persists identities in MongoDB. A unique index on
// email enforces duplicate rejection at the store, not just in the service.
type IdentityRepository struct {
	coll *mongo.Collection
}

func NewIdentityRepository(db *mongo.Database) *IdentityRepository {
	return &IdentityRepository{coll: db.Collection(identityCollection)}
}

// EnsureIndexes creates the unique email index. Call once at startup.
func (r *IdentityRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create email index: %w", err)
	}
	return nil
}

type mongoSeekerProfile struct {
	Title      string   `bson:"title"`
	Location   string   `bson:"location"`
	Experience string   `bson:"experience"`
	Skills     []string `bson:"skills"`
}

type mongoCompanyProfile struct {
	Name     string `bson:"name"`
	Size     string `bson:"size"`
	Industry string `bson:"industry"`
}

type mongoIdentity struct {
	ID         string               `bson:"_id"`
	Email      string               `bson:"email"`
	Name       string               `bson:"name"`
	Role       string               `bson:"role"`
	Seeker     *mongoSeekerProfile  `bson:"seeker,omitempty"`
	Company    *mongoCompanyProfile `bson:"company,omitempty"`
	SecretHash string               `bson:"secret_hash,omitempty"`
	CreatedAt  int64                `bson:"created_at"`
	UpdatedAt  int64                `bson:"updated_at"`
}

func (r *IdentityRepository) FindByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	var mi mongoIdentity
	if err := r.coll.FindOne(ctx, bson.M{"email": normalizeEmail(email)}).Decode(&mi); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("find identity: %w", err)
	}
	return fromMongo(&mi), nil
}

func (r *IdentityRepository) Create(ctx context.Context, identity *domain.Identity) (*domain.Identity, error) {
	doc := toMongo(identity)
	doc.Email = normalizeEmail(doc.Email)

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrIdentityExists
		}
		return nil, fmt.Errorf("insert identity: %w", err)
	}
	return fromMongo(doc), nil
}

func (r *IdentityRepository) Update(ctx context.Context, identity *domain.Identity) (*domain.Identity, error) {
	var existing mongoIdentity
	if err := r.coll.FindOne(ctx, bson.M{"_id": identity.ID}).Decode(&existing); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("find identity: %w", err)
	}
	// Role is immutable after creation.
	if existing.Role != string(identity.Role) {
		return nil, domain.ErrInvalidRegistration
	}

	doc := toMongo(identity)
	doc.Email = normalizeEmail(doc.Email)
	// Session snapshots never carry the secret hash; retain the stored one.
	if doc.SecretHash == "" {
		doc.SecretHash = existing.SecretHash
	}

	if _, err := r.coll.ReplaceOne(ctx, bson.M{"_id": identity.ID}, doc); err != nil {
		return nil, fmt.Errorf("update identity: %w", err)
	}
	return fromMongo(doc), nil
}

func toMongo(identity *domain.Identity) *mongoIdentity {
	mi := &mongoIdentity{
		ID:         identity.ID,
		Email:      identity.Email,
		Name:       identity.Name,
		Role:       string(identity.Role),
		SecretHash: identity.SecretHash,
		CreatedAt:  identity.CreatedAt.Unix(),
		UpdatedAt:  identity.UpdatedAt.Unix(),
	}
	if identity.Seeker != nil {
		mi.Seeker = &mongoSeekerProfile{
			Title:      identity.Seeker.Title,
			Location:   identity.Seeker.Location,
			Experience: identity.Seeker.Experience,
			Skills:     append([]string(nil), identity.Seeker.Skills...),
		}
	}
	if identity.Company != nil {
		mi.Company = &mongoCompanyProfile{
			Name:     identity.Company.Name,
			Size:     identity.Company.Size,
			Industry: identity.Company.Industry,
		}
	}
	return mi
}

func fromMongo(mi *mongoIdentity) *domain.Identity {
	identity := &domain.Identity{
		ID:         mi.ID,
		Email:      mi.Email,
		Name:       mi.Name,
		Role:       domain.Role(mi.Role),
		SecretHash: mi.SecretHash,
		CreatedAt:  unixToTime(mi.CreatedAt),
		UpdatedAt:  unixToTime(mi.UpdatedAt),
	}
	if mi.Seeker != nil {
		identity.Seeker = &domain.SeekerProfile{
			Title:      mi.Seeker.Title,
			Location:   mi.Seeker.Location,
			Experience: mi.Seeker.Experience,
			Skills:     append([]string(nil), mi.Seeker.Skills...),
		}
	}
	if mi.Company != nil {
		identity.Company = &domain.CompanyProfile{
			Name:     mi.Company.Name,
			Size:     mi.Company.Size,
			Industry: mi.Company.Industry,
		}
	}
	return identity
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
