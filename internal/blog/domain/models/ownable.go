package models

// Ownable is implemented by entities that only their author may mutate.
type Ownable interface {
	OwnerID() int64
}
