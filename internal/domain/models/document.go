// internal/domain/models/document.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document is a file published by the documents module. The registry only
// references documents; it never owns or deletes them.
type Document struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string             `bson:"title" json:"title"`
	Filename  string             `bson:"filename" json:"filename"`
	URL       string             `bson:"url" json:"url"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

// DocumentSummary is the expanded form of a document reference shown on a Member.
type DocumentSummary struct {
	ID       primitive.ObjectID `json:"id"`
	Title    string             `json:"title"`
	Filename string             `json:"filename"`
	URL      string             `json:"url"`
}

// Summary returns the display fields of d.
func (d Document) Summary() DocumentSummary {
	return DocumentSummary{ID: d.ID, Title: d.Title, Filename: d.Filename, URL: d.URL}
}
