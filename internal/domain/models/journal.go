package models

// JournalEntry is a free-text note written by Author.
type JournalEntry struct {
	ID     string `bson:"id" json:"id"`
	Author string `bson:"author" json:"author"`
	Text   string `bson:"text" json:"text"`
	Time   int64  `bson:"time" json:"time"`
}
