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
	"github.com/devlink/devlink-api/internal/core/ports"
)

const profilesCollection = "profiles"

// ProfileRepository persists profile documents. Experience and education
// entries are embedded; their ids are uuid strings minted here so that
// removal can address a single entry.
type ProfileRepository struct {
	coll *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{coll: db.Collection(profilesCollection)}
}

type experienceDoc struct {
	ID          string     `bson:"_id"`
	Title       string     `bson:"title"`
	Company     string     `bson:"company"`
	Location    string     `bson:"location,omitempty"`
	From        time.Time  `bson:"from"`
	To          *time.Time `bson:"to,omitempty"`
	Current     bool       `bson:"current"`
	Description string     `bson:"description,omitempty"`
}

type educationDoc struct {
	ID           string     `bson:"_id"`
	School       string     `bson:"school"`
	Degree       string     `bson:"degree"`
	FieldOfStudy string     `bson:"fieldofstudy"`
	From         time.Time  `bson:"from"`
	To           *time.Time `bson:"to,omitempty"`
	Current      bool       `bson:"current"`
	Description  string     `bson:"description,omitempty"`
}

type profileDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	UserID         primitive.ObjectID `bson:"user"`
	Company        string             `bson:"company,omitempty"`
	Website        string             `bson:"website,omitempty"`
	Location       string             `bson:"location,omitempty"`
	Status         string             `bson:"status"`
	Skills         []string           `bson:"skills"`
	Bio            string             `bson:"bio,omitempty"`
	GithubUsername string             `bson:"githubusername,omitempty"`
	Social         domain.SocialLinks `bson:"social,omitempty"`
	Experience     []experienceDoc    `bson:"experience"`
	Education      []educationDoc     `bson:"education"`
	CreatedAt      time.Time          `bson:"date"`
}

func (d profileDoc) toDomain() *domain.Profile {
	p := &domain.Profile{
		ID:             d.ID.Hex(),
		User:           domain.Owner{ID: d.UserID.Hex()},
		Company:        d.Company,
		Website:        d.Website,
		Location:       d.Location,
		Status:         d.Status,
		Skills:         d.Skills,
		Bio:            d.Bio,
		GithubUsername: d.GithubUsername,
		Social:         d.Social,
		Experience:     make([]domain.Experience, 0, len(d.Experience)),
		Education:      make([]domain.Education, 0, len(d.Education)),
		CreatedAt:      d.CreatedAt,
	}
	for _, e := range d.Experience {
		p.Experience = append(p.Experience, domain.Experience{
			ID:          e.ID,
			Title:       e.Title,
			Company:     e.Company,
			Location:    e.Location,
			From:        e.From,
			To:          e.To,
			Current:     e.Current,
			Description: e.Description,
		})
	}
	for _, e := range d.Education {
		p.Education = append(p.Education, domain.Education{
			ID:           e.ID,
			School:       e.School,
			Degree:       e.Degree,
			FieldOfStudy: e.FieldOfStudy,
			From:         e.From,
			To:           e.To,
			Current:      e.Current,
			Description:  e.Description,
		})
	}
	return p
}

func (r *ProfileRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *ProfileRepository) FindByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		// Malformed ids map to the same error as absent profiles.
		return nil, domain.ErrProfileNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc profileDoc
	if err := r.coll.FindOne(ctx, bson.M{"user": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ProfileRepository) FindAll(ctx context.Context) ([]*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer cursor.Close(ctx)

	profiles := make([]*domain.Profile, 0)
	for cursor.Next(ctx) {
		var doc profileDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode profile: %w", err)
		}
		profiles = append(profiles, doc.toDomain())
	}
	return profiles, cursor.Err()
}

// Upsert applies the sparse update in a single FindOneAndUpdate so the
// create and update cases are indistinguishable to callers. Only provided
// fields end up in $set; omitted fields on an existing document survive.
func (r *ProfileRepository) Upsert(ctx context.Context, userID string, update ports.ProfileUpdate) (*domain.Profile, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.ErrProfileNotFound
	}

	set := bson.M{"status": update.Status}
	if update.Company != "" {
		set["company"] = update.Company
	}
	if update.Website != "" {
		set["website"] = update.Website
	}
	if update.Location != "" {
		set["location"] = update.Location
	}
	if update.Bio != "" {
		set["bio"] = update.Bio
	}
	if update.GithubUsername != "" {
		set["githubusername"] = update.GithubUsername
	}
	if len(update.Skills) > 0 {
		set["skills"] = update.Skills
	}
	setSocial(set, "youtube", update.Social.Youtube)
	setSocial(set, "twitter", update.Social.Twitter)
	setSocial(set, "facebook", update.Social.Facebook)
	setSocial(set, "linkedin", update.Social.Linkedin)
	setSocial(set, "instagram", update.Social.Instagram)

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	res := r.coll.FindOneAndUpdate(ctx,
		bson.M{"user": oid},
		bson.M{
			"$set": set,
			"$setOnInsert": bson.M{
				"user":       oid,
				"experience": []experienceDoc{},
				"education":  []educationDoc{},
				"date":       time.Now().UTC(),
			},
		},
		opts,
	)

	var doc profileDoc
	if err := res.Decode(&doc); err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}
	return doc.toDomain(), nil
}

func setSocial(set bson.M, platform, url string) {
	if url != "" {
		set["social."+platform] = url
	}
}

func (r *ProfileRepository) DeleteByUserID(ctx context.Context, userID string) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return domain.ErrProfileNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll.DeleteOne(ctx, bson.M{"user": oid}); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}

func (r *ProfileRepository) AddExperience(ctx context.Context, userID string, entry domain.Experience) (*domain.Profile, error) {
	doc := experienceDoc{
		ID:          uuid.NewString(),
		Title:       entry.Title,
		Company:     entry.Company,
		Location:    entry.Location,
		From:        entry.From,
		To:          entry.To,
		Current:     entry.Current,
		Description: entry.Description,
	}
	return r.pushEntry(ctx, userID, "experience", doc)
}

func (r *ProfileRepository) AddEducation(ctx context.Context, userID string, entry domain.Education) (*domain.Profile, error) {
	doc := educationDoc{
		ID:           uuid.NewString(),
		School:       entry.School,
		Degree:       entry.Degree,
		FieldOfStudy: entry.FieldOfStudy,
		From:         entry.From,
		To:           entry.To,
		Current:      entry.Current,
		Description:  entry.Description,
	}
	return r.pushEntry(ctx, userID, "education", doc)
}

func (r *ProfileRepository) RemoveExperience(ctx context.Context, userID, entryID string) (*domain.Profile, error) {
	return r.pullEntry(ctx, userID, "experience", entryID)
}

func (r *ProfileRepository) RemoveEducation(ctx context.Context, userID, entryID string) (*domain.Profile, error) {
	return r.pullEntry(ctx, userID, "education", entryID)
}

// pushEntry prepends atomically; two concurrent adds both land.
func (r *ProfileRepository) pushEntry(ctx context.Context, userID, field string, entry any) (*domain.Profile, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.ErrProfileNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res := r.coll.FindOneAndUpdate(ctx,
		bson.M{"user": oid},
		bson.M{"$push": bson.M{field: bson.M{"$each": bson.A{entry}, "$position": 0}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var doc profileDoc
	if err := res.Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("push %s: %w", field, err)
	}
	return doc.toDomain(), nil
}

// pullEntry removes by entry id. An id that matches nothing pulls nothing
// and the unchanged profile is returned; that is deliberate.
func (r *ProfileRepository) pullEntry(ctx context.Context, userID, field, entryID string) (*domain.Profile, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.ErrProfileNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res := r.coll.FindOneAndUpdate(ctx,
		bson.M{"user": oid},
		bson.M{"$pull": bson.M{field: bson.M{"_id": entryID}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var doc profileDoc
	if err := res.Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("pull %s: %w", field, err)
	}
	return doc.toDomain(), nil
}
