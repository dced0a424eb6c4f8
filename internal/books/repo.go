package books

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"novelhub/pkg/models"
)

type Repo struct {
	DB *mongo.Database
}

type ListQuery struct {
	Gender string // partition filter
	Major  string // category filter
	Limit  int
	Offset int
}

func NewRepo(db *mongo.Database) *Repo {
	return &Repo{DB: db}
}

func (q ListQuery) filter() bson.M {
	f := bson.M{}
	if q.Gender != "" {
		f["gender"] = q.Gender
	}
	if q.Major != "" {
		f["major"] = q.Major
	}
	return f
}

func (r *Repo) Count(ctx context.Context, q ListQuery) (int64, error) {
	n, err := r.DB.Collection("book").CountDocuments(ctx, q.filter())
	if err != nil {
		return 0, fmt.Errorf("books: count: %w", err)
	}
	return n, nil
}

func (r *Repo) List(ctx context.Context, q ListQuery) ([]models.BookSummary, error) {
	opts := options.Find().
		SetSkip(int64(q.Offset)).
		SetLimit(int64(q.Limit)).
		SetSort(bson.D{{Key: "title", Value: 1}})

	cur, err := r.DB.Collection("book").Find(ctx, q.filter(), opts)
	if err != nil {
		return nil, fmt.Errorf("books: list: %w", err)
	}
	defer cur.Close(ctx)

	out := make([]models.BookSummary, 0, q.Limit)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("books: decode list: %w", err)
	}
	return out, nil
}

// GetByID returns the full stored document, or nil when the id is
// unknown or not a valid 24-hex identifier.
func (r *Repo) GetByID(ctx context.Context, id string) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var doc bson.M
	err = r.DB.Collection("book").FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("books: get %s: %w", id, err)
	}
	return doc, nil
}

// ChapterList returns the stored chapter list for one book, or nil when
// none has been crawled yet. Chapter-list records reference their book
// through the "book" field the upstream payload carries.
func (r *Repo) ChapterList(ctx context.Context, bookID string) (bson.M, error) {
	var doc bson.M
	err := r.DB.Collection("bookchapters").FindOne(ctx, bson.M{"book": bookID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("books: chapter list %s: %w", bookID, err)
	}
	return doc, nil
}
