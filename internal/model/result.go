package model

// Result is implemented by entities that appear in numbered listings, so
// `ptrack project show 3` can refer back to row 3 of the last list.
type Result interface {
	GetID() string
	GetKind() string // "project", "member", "initiative"
	GetContent() string
	GetLocation() string
}
