// Package domain contains core business entities and rules.
package domain

// Quote is a line spoken by a movie character.
// This is a domain entity - it has no knowledge of external systems.
type Quote struct {
	// ID is the unique identifier assigned by the quote store.
	ID int64

	// Text is the quotation itself.
	Text string

	// Movie is the title of the source movie.
	Movie string

	// Character is the name of the speaking character.
	Character string

	// PosterURL points at the movie poster. Nil when the column is NULL.
	PosterURL *string

	// CharacterURL points at an image of the character. Nil when the column is NULL.
	CharacterURL *string
}
