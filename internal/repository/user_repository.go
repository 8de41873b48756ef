package repository

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/spec-kit/delivery-service/internal/domain"
)

var (
	// ErrDuplicateEmail indicates the unique email index rejected a write.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrNotFound indicates no user matched the query.
	ErrNotFound = errors.New("user not found")
)

// UserRepository defines persistence access for accounts of every role.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	SetResetToken(ctx context.Context, id, tokenHash string, expires time.Time) error
	ResetPassword(ctx context.Context, id, passwordHash string) error
	CountByRole(ctx context.Context, role domain.Role) (int64, error)
	Search(ctx context.Context, role domain.Role, query string, page, limit int64) ([]*domain.User, int64, error)
}

type mongoAddress struct {
	DoorNo  string `bson:"door_no"`
	Street  string `bson:"street"`
	Area    string `bson:"area"`
	City    string `bson:"city"`
	State   string `bson:"state"`
	Pincode string `bson:"pincode"`
}

type mongoUser struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	FirstName    string             `bson:"first_name"`
	LastName     string             `bson:"last_name"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password_hash"`
	Phone        string             `bson:"phone"`
	Role         string             `bson:"role"`
	CreatedAt    time.Time          `bson:"created_at"`

	ResetTokenHash    *string    `bson:"reset_token_hash,omitempty"`
	ResetTokenExpires *time.Time `bson:"reset_token_expires,omitempty"`

	Address  *mongoAddress `bson:"address,omitempty"`
	OrderIDs []string      `bson:"order_ids,omitempty"`

	Available       bool    `bson:"available,omitempty"`
	Rating          float64 `bson:"rating,omitempty"`
	TotalDeliveries int     `bson:"total_deliveries,omitempty"`
	CurrentOrderID  *string `bson:"current_order_id,omitempty"`

	Department  string   `bson:"department,omitempty"`
	Permissions []string `bson:"permissions,omitempty"`
}

func (m *mongoUser) toEntity() *domain.User {
	user := &domain.User{
		ID:                m.ID.Hex(),
		FirstName:         m.FirstName,
		LastName:          m.LastName,
		Email:             m.Email,
		PasswordHash:      m.PasswordHash,
		Phone:             m.Phone,
		Role:              domain.Role(m.Role),
		CreatedAt:         m.CreatedAt,
		ResetTokenHash:    m.ResetTokenHash,
		ResetTokenExpires: m.ResetTokenExpires,
		OrderIDs:          m.OrderIDs,
		Available:         m.Available,
		Rating:            m.Rating,
		TotalDeliveries:   m.TotalDeliveries,
		CurrentOrderID:    m.CurrentOrderID,
		Department:        m.Department,
		Permissions:       m.Permissions,
	}
	if m.Address != nil {
		user.Address = &domain.Address{
			DoorNo:  m.Address.DoorNo,
			Street:  m.Address.Street,
			Area:    m.Address.Area,
			City:    m.Address.City,
			State:   m.Address.State,
			Pincode: m.Address.Pincode,
		}
	}
	return user
}

func fromEntity(u *domain.User) *mongoUser {
	doc := &mongoUser{
		FirstName:         u.FirstName,
		LastName:          u.LastName,
		Email:             u.Email,
		PasswordHash:      u.PasswordHash,
		Phone:             u.Phone,
		Role:              string(u.Role),
		CreatedAt:         u.CreatedAt,
		ResetTokenHash:    u.ResetTokenHash,
		ResetTokenExpires: u.ResetTokenExpires,
		OrderIDs:          u.OrderIDs,
		Available:         u.Available,
		Rating:            u.Rating,
		TotalDeliveries:   u.TotalDeliveries,
		CurrentOrderID:    u.CurrentOrderID,
		Department:        u.Department,
		Permissions:       u.Permissions,
	}
	if u.ID != "" {
		if oid, err := primitive.ObjectIDFromHex(u.ID); err == nil {
			doc.ID = oid
		}
	}
	if u.Address != nil {
		doc.Address = &mongoAddress{
			DoorNo:  u.Address.DoorNo,
			Street:  u.Address.Street,
			Area:    u.Address.Area,
			City:    u.Address.City,
			State:   u.Address.State,
			Pincode: u.Address.Pincode,
		}
	}
	return doc
}

type userRepository struct {
	collection *mongo.Collection
}

// NewUserRepository returns a Mongo-backed implementation over the users
// collection. The unique email index is ensured by persistence.NewMongo.
func NewUserRepository(db *mongo.Database) UserRepository {
	return &userRepository{collection: db.Collection("users")}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	doc := fromEntity(user)
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return err
	}

	user.ID = doc.ID.Hex()
	user.CreatedAt = doc.CreatedAt
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *userRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var doc mongoUser
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc.toEntity(), nil
}

// SetResetToken overwrites any previously stored token pair; stale tokens
// are cleaned up lazily on the next issuance.
func (r *userRepository) SetResetToken(ctx context.Context, id, tokenHash string, expires time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	update := bson.M{"$set": bson.M{
		"reset_token_hash":    tokenHash,
		"reset_token_expires": expires,
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ResetPassword replaces the password hash and clears the token pair in a
// single write, returning the reset lifecycle to its initial state.
func (r *userRepository) ResetPassword(ctx context.Context, id, passwordHash string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	update := bson.M{
		"$set": bson.M{"password_hash": passwordHash},
		"$unset": bson.M{
			"reset_token_hash":    "",
			"reset_token_expires": "",
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) CountByRole(ctx context.Context, role domain.Role) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"role": string(role)})
}

// searchFilter builds the listing filter. The query string is quoted so it
// matches as a literal substring; regex metacharacters in user input would
// otherwise make the server reject the filter.
func searchFilter(role domain.Role, query string) bson.M {
	filter := bson.M{"role": string(role)}
	if query != "" {
		regex := bson.M{"$regex": regexp.QuoteMeta(query), "$options": "i"}
		filter["$or"] = []bson.M{
			{"first_name": regex},
			{"last_name": regex},
			{"email": regex},
			{"phone": regex},
		}
	}
	return filter
}

func (r *userRepository) Search(ctx context.Context, role domain.Role, query string, page, limit int64) ([]*domain.User, int64, error) {
	filter := searchFilter(role, query)

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	findOptions := options.Find().
		SetSkip((page - 1) * limit).
		SetLimit(limit).
		SetSort(bson.M{"created_at": -1})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var docs []*mongoUser
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, err
	}

	users := make([]*domain.User, 0, len(docs))
	for _, doc := range docs {
		users = append(users, doc.toEntity())
	}
	return users, total, nil
}
