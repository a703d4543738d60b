package repository

// InsertResult reports the identifier assigned to a new document.
type InsertResult struct {
	InsertedID string `json:"insertedId"`
}

// UpdateResult reports how many documents an update matched and changed.
type UpdateResult struct {
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
}

// DeleteResult reports how many documents a delete removed.
type DeleteResult struct {
	DeletedCount int64 `json:"deletedCount"`
}
