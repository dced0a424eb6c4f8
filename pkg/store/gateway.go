package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// splitID pulls the 24-hex identifier out of a wire record and returns
// it alongside a copy of the record without the _id field, ready to be
// used as a replacement body.
func splitID(doc map[string]any) (primitive.ObjectID, bson.M, error) {
	raw, _ := doc["_id"].(string)
	oid, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, nil, fmt.Errorf("store: record id %q: %w", raw, err)
	}

	body := make(bson.M, len(doc))
	for k, v := range doc {
		if k == "_id" {
			continue
		}
		body[k] = v
	}
	return oid, body, nil
}

// UpsertReplace replaces the document matching the record's id with the
// record body, creating it if absent. Later calls win.
func (s *Store) UpsertReplace(ctx context.Context, collection string, doc map[string]any) error {
	oid, body, err := splitID(doc)
	if err != nil {
		return err
	}

	_, err = s.db.Collection(collection).ReplaceOne(ctx,
		bson.M{"_id": oid}, body, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("store: upsert %s/%s: %w", collection, oid.Hex(), err)
	}
	return nil
}

// InsertIfAbsent inserts the record body only when no document with its
// id exists yet. An existing document is left untouched.
func (s *Store) InsertIfAbsent(ctx context.Context, collection string, doc map[string]any) error {
	oid, body, err := splitID(doc)
	if err != nil {
		return err
	}

	_, err = s.db.Collection(collection).UpdateOne(ctx,
		bson.M{"_id": oid}, bson.M{"$setOnInsert": body}, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("store: insert-if-absent %s/%s: %w", collection, oid.Hex(), err)
	}
	return nil
}

// HasBook reports whether a book with the given id is already persisted.
func (s *Store) HasBook(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, fmt.Errorf("store: book id %q: %w", id, err)
	}

	n, err := s.db.Collection(colBook).CountDocuments(ctx,
		bson.M{"_id": oid}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("store: book exists %s: %w", id, err)
	}
	return n > 0, nil
}

// UpsertBook persists one book record, last write wins.
func (s *Store) UpsertBook(ctx context.Context, doc map[string]any) error {
	return s.UpsertReplace(ctx, colBook, doc)
}

// UpsertChapterList persists one normalized chapter list, last write wins.
func (s *Store) UpsertChapterList(ctx context.Context, doc map[string]any) error {
	return s.UpsertReplace(ctx, colChapterList, doc)
}

// InsertChapterIfAbsent persists one chapter keyed by its link. Content
// already present is never overwritten.
func (s *Store) InsertChapterIfAbsent(ctx context.Context, doc map[string]any) error {
	link, _ := doc["link"].(string)
	if link == "" {
		return fmt.Errorf("store: chapter record without link")
	}

	_, err := s.db.Collection(colChapter).UpdateOne(ctx,
		bson.M{"link": link}, bson.M{"$setOnInsert": bson.M(doc)}, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("store: insert chapter %s: %w", link, err)
	}
	return nil
}

// RecordRun upserts one crawl-run bookkeeping record keyed by its run id.
func (s *Store) RecordRun(ctx context.Context, doc map[string]any) error {
	id, _ := doc["_id"].(string)
	if id == "" {
		return fmt.Errorf("store: run record without id")
	}

	_, err := s.db.Collection(colRuns).ReplaceOne(ctx,
		bson.M{"_id": id}, bson.M(doc), options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("store: record run %s: %w", id, err)
	}
	return nil
}
