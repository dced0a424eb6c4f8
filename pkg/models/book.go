package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// BookSummary is the projection of a stored book record served by the
// read API's list endpoint. The store keeps whatever catalog fields the
// wire carried; this picks the stable ones.
type BookSummary struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Author      string             `bson:"author,omitempty" json:"author,omitempty"`
	ShortIntro  string             `bson:"shortIntro,omitempty" json:"short_intro,omitempty"`
	Cover       string             `bson:"cover,omitempty" json:"cover,omitempty"`
	Gender      string             `bson:"gender,omitempty" json:"gender,omitempty"`
	Major       string             `bson:"major,omitempty" json:"major,omitempty"`
	Minor       string             `bson:"minor,omitempty" json:"minor,omitempty"`
	LastChapter string             `bson:"lastChapter,omitempty" json:"last_chapter,omitempty"`
}
