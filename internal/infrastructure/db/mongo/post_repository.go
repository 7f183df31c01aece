package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devlink/devlink-api/internal/core/domain"
)

const postsCollection = "posts"

// PostRepository persists feed posts. Likes and comments are embedded
// lists mutated with atomic $push/$pull updates.
type PostRepository struct {
	coll *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{coll: db.Collection(postsCollection)}
}

type likeDoc struct {
	ID     string             `bson:"_id"`
	UserID primitive.ObjectID `bson:"user"`
}

type commentDoc struct {
	ID        string             `bson:"_id"`
	UserID    primitive.ObjectID `bson:"user"`
	Text      string             `bson:"text"`
	Name      string             `bson:"name"`
	Avatar    string             `bson:"avatar"`
	CreatedAt time.Time          `bson:"date"`
}

type postDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    primitive.ObjectID `bson:"user"`
	Text      string             `bson:"text"`
	Name      string             `bson:"name"`
	Avatar    string             `bson:"avatar"`
	Likes     []likeDoc          `bson:"likes"`
	Comments  []commentDoc       `bson:"comments"`
	CreatedAt time.Time          `bson:"date"`
}

func (d postDoc) toDomain() *domain.Post {
	p := &domain.Post{
		ID:        d.ID.Hex(),
		UserID:    d.UserID.Hex(),
		Text:      d.Text,
		Name:      d.Name,
		Avatar:    d.Avatar,
		Likes:     make([]domain.Like, 0, len(d.Likes)),
		Comments:  make([]domain.Comment, 0, len(d.Comments)),
		CreatedAt: d.CreatedAt,
	}
	for _, l := range d.Likes {
		p.Likes = append(p.Likes, domain.Like{ID: l.ID, UserID: l.UserID.Hex()})
	}
	for _, c := range d.Comments {
		p.Comments = append(p.Comments, domain.Comment{
			ID:        c.ID,
			UserID:    c.UserID.Hex(),
			Text:      c.Text,
			Name:      c.Name,
			Avatar:    c.Avatar,
			CreatedAt: c.CreatedAt,
		})
	}
	return p
}

func (r *PostRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user", Value: 1}}},
		{Keys: bson.D{{Key: "date", Value: -1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *PostRepository) Create(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	uoid, err := primitive.ObjectIDFromHex(post.UserID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	doc := postDoc{
		ID:        primitive.NewObjectID(),
		UserID:    uoid,
		Text:      post.Text,
		Name:      post.Name,
		Avatar:    post.Avatar,
		Likes:     []likeDoc{},
		Comments:  []commentDoc{},
		CreatedAt: post.CreatedAt,
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *PostRepository) FindAll(ctx context.Context) ([]*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer cursor.Close(ctx)

	posts := make([]*domain.Post, 0)
	for cursor.Next(ctx) {
		var doc postDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode post: %w", err)
		}
		posts = append(posts, doc.toDomain())
	}
	return posts, cursor.Err()
}

func (r *PostRepository) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// Malformed ids map to the same error as absent posts.
		return nil, domain.ErrPostNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc postDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrPostNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

// AddLike prepends the like in one guarded update: the filter excludes
// documents that already carry a like from this user, so two concurrent
// likes cannot both land.
func (r *PostRepository) AddLike(ctx context.Context, postID string, like domain.Like) (*domain.Post, error) {
	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, domain.ErrPostNotFound
	}
	uoid, err := primitive.ObjectIDFromHex(like.UserID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "likes.user": bson.M{"$ne": uoid}},
		bson.M{"$push": bson.M{"likes": bson.M{
			"$each":     bson.A{likeDoc{ID: uuid.NewString(), UserID: uoid}},
			"$position": 0,
		}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var doc postDoc
	if err := res.Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// The post exists (the service just fetched it), so the filter
			// missed because the like was already there.
			return nil, domain.ErrAlreadyLiked
		}
		return nil, fmt.Errorf("add like: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *PostRepository) RemoveLike(ctx context.Context, postID, userID string) (*domain.Post, error) {
	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, domain.ErrPostNotFound
	}
	uoid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$pull": bson.M{"likes": bson.M{"user": uoid}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var doc postDoc
	if err := res.Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("remove like: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *PostRepository) AddComment(ctx context.Context, postID string, comment domain.Comment) (*domain.Post, error) {
	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, domain.ErrPostNotFound
	}
	uoid, err := primitive.ObjectIDFromHex(comment.UserID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	doc := commentDoc{
		ID:        uuid.NewString(),
		UserID:    uoid,
		Text:      comment.Text,
		Name:      comment.Name,
		Avatar:    comment.Avatar,
		CreatedAt: comment.CreatedAt,
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$push": bson.M{"comments": bson.M{"$each": bson.A{doc}, "$position": 0}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var updated postDoc
	if err := res.Decode(&updated); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("add comment: %w", err)
	}
	return updated.toDomain(), nil
}

// RemoveComment pulls by the comment's own id, never by its author.
func (r *PostRepository) RemoveComment(ctx context.Context, postID, commentID string) (*domain.Post, error) {
	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, domain.ErrPostNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$pull": bson.M{"comments": bson.M{"_id": commentID}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var doc postDoc
	if err := res.Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("remove comment: %w", err)
	}
	return doc.toDomain(), nil
}
