package model

// UpdateResult describes the outcome of an update or increment, mirroring
// what the store reports back to clients.
type UpdateResult struct {
	MatchedCount  int64   `json:"matchedCount"`
	ModifiedCount int64   `json:"modifiedCount"`
	UpsertedID    *string `json:"upsertedId,omitempty"`
}

// DeleteResult describes the outcome of a delete. Deleting an id that does
// not exist is not an error; DeletedCount is simply zero.
type DeleteResult struct {
	DeletedCount int64 `json:"deletedCount"`
}
