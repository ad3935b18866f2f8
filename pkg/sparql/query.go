package sparql

import (
	"fmt"
	"strings"
)

// schemaPrefix heads every query against the tweet/user graph.
const schemaPrefix = "PREFIX schema: <http://schema.org/>\n"

// Builder produces SPARQL queries for the tweet/user graph. Entity IRIs
// are minted under EntityBase; string values always pass through
// EscapeLiteral and ids are typed ints, so caller input can never alter
// the query structure.
type Builder struct {
	// EntityBase is the IRI prefix for minted entities,
	// e.g. "http://localhost:3030".
	EntityBase string
}

// NewBuilder creates a Builder minting entity IRIs under base.
func NewBuilder(base string) *Builder {
	return &Builder{EntityBase: strings.TrimRight(base, "/")}
}

// EscapeLiteral escapes a string for use inside a double-quoted SPARQL
// literal.
func EscapeLiteral(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"\n", `\n`,
		"\r", `\r`,
		"\t", `\t`,
	)
	return r.Replace(s)
}

func (b *Builder) userIRI(id int) string {
	return fmt.Sprintf("<%s/users/%d>", b.EntityBase, id)
}

func (b *Builder) userTweetsIRI(id int) string {
	return fmt.Sprintf("<%s/users/%d/tweets/>", b.EntityBase, id)
}

func (b *Builder) tweetIRI(userID, tweetID int) string {
	return fmt.Sprintf("<%s/users/%d/tweets/%d>", b.EntityBase, userID, tweetID)
}

func (b *Builder) usersIRI() string {
	return fmt.Sprintf("<%s/users>", b.EntityBase)
}

// Users selects all users with their names and tweet collections.
func (b *Builder) Users() string {
	return schemaPrefix + `SELECT ?user ?name ?tweets
WHERE {
  ?users schema:user ?user .
  ?user schema:name ?name .
  ?user schema:tweets ?tweets
}`
}

// User selects a single user's name and tweet collection.
func (b *Builder) User(id int) string {
	u := b.userIRI(id)
	return schemaPrefix + fmt.Sprintf(`SELECT ?name ?tweets
WHERE {
  %s schema:name ?name .
  %s schema:tweets ?tweets
}`, u, u)
}

// InsertUser adds a user node with its name and an empty tweet collection.
func (b *Builder) InsertUser(id int, name string) string {
	u := b.userIRI(id)
	return schemaPrefix + fmt.Sprintf(`INSERT DATA {
  %s schema:user %s .
  %s schema:name "%s" .
  %s schema:tweets %s
}`, b.usersIRI(), u, u, EscapeLiteral(name), u, b.userTweetsIRI(id))
}

// DeleteUser removes a user together with all their tweets.
func (b *Builder) DeleteUser(id int) string {
	u := b.userIRI(id)
	return schemaPrefix + fmt.Sprintf(`DELETE WHERE {
  ?users schema:user %s .
  %s schema:name ?name .
  %s schema:tweets ?tweets .
  ?tweets schema:tweet ?tweet .
  ?tweet schema:text ?text
}`, u, u, u)
}

// DeleteUserOnly removes only the user node, keeping their tweets.
// Used by the update emulation before re-inserting the user.
func (b *Builder) DeleteUserOnly(id int) string {
	u := b.userIRI(id)
	return schemaPrefix + fmt.Sprintf(`DELETE WHERE {
  ?users schema:user %s .
  %s schema:name ?name
}`, u, u)
}

// Tweets selects every tweet with its author and text.
func (b *Builder) Tweets() string {
	return schemaPrefix + `SELECT ?user ?tweet ?text
WHERE {
  ?user schema:tweets ?tweets .
  ?tweets schema:tweet ?tweet .
  ?tweet schema:text ?text
}`
}

// TweetsByUser selects all tweets of one user.
func (b *Builder) TweetsByUser(userID int) string {
	return schemaPrefix + fmt.Sprintf(`SELECT ?tweet ?text
WHERE {
  %s schema:tweets ?tweets .
  ?tweets schema:tweet ?tweet .
  ?tweet schema:text ?text
}`, b.userIRI(userID))
}

// Tweet selects a single tweet's text.
func (b *Builder) Tweet(userID, tweetID int) string {
	return schemaPrefix + fmt.Sprintf(`SELECT ?text
WHERE {
  %s schema:text ?text
}`, b.tweetIRI(userID, tweetID))
}

// InsertTweet adds a tweet under a user's collection.
func (b *Builder) InsertTweet(userID, tweetID int, text string) string {
	return schemaPrefix + fmt.Sprintf(`INSERT DATA {
  %s schema:tweet %s .
  %s schema:text "%s"
}`, b.userTweetsIRI(userID), b.tweetIRI(userID, tweetID),
		b.tweetIRI(userID, tweetID), EscapeLiteral(text))
}

// DeleteTweet removes a tweet and its collection link.
func (b *Builder) DeleteTweet(userID, tweetID int) string {
	tw := b.tweetIRI(userID, tweetID)
	return schemaPrefix + fmt.Sprintf(`DELETE WHERE {
  ?tweets schema:tweet %s .
  %s schema:text ?text
}`, tw, tw)
}

// DeleteTweetOnly removes only the tweet's text node, keeping the
// collection link. Used by the update emulation before re-inserting.
func (b *Builder) DeleteTweetOnly(userID, tweetID int) string {
	return schemaPrefix + fmt.Sprintf(`DELETE WHERE {
  %s schema:text ?text
}`, b.tweetIRI(userID, tweetID))
}

// MessageIRI mints the entity IRI for a chat message id.
func (b *Builder) MessageIRI(id string) string {
	return fmt.Sprintf("%s/messages/%s", b.EntityBase, EscapeIRISegment(id))
}

// InsertMessage records a chat message between two named persons.
func (b *Builder) InsertMessage(id, sender, recipient, text string) string {
	msg := "<" + b.MessageIRI(id) + ">"
	s := EscapeLiteral(sender)
	r := EscapeLiteral(recipient)
	return schemaPrefix + fmt.Sprintf(`INSERT DATA {
  %s a schema:Message .
  %s schema:sender _:s .
  _:s a schema:Person .
  _:s schema:name "%s" .
  %s schema:recipient _:r .
  _:r a schema:Person .
  _:r schema:name "%s" .
  %s schema:text "%s"
}`, msg, msg, s, msg, r, msg, EscapeLiteral(text))
}

// MessageHistory selects the conversation between two named persons in
// both directions.
func (b *Builder) MessageHistory(a, c string) string {
	s := EscapeLiteral(a)
	r := EscapeLiteral(c)
	return schemaPrefix + fmt.Sprintf(`SELECT ?text ?message ?person
WHERE {
  {
    ?person schema:name "%s" .
    ?message schema:sender ?person .
    ?message schema:text ?text .
    ?recipient schema:name "%s" .
    ?message schema:recipient ?recipient .
  } UNION {
    ?person schema:name "%s" .
    ?message schema:sender ?person .
    ?message schema:text ?text .
    ?recipient schema:name "%s" .
    ?message schema:recipient ?recipient .
  }
}
ORDER BY DESC(?message)`, s, r, r, s)
}

// EscapeIRISegment strips characters that cannot appear in an IRI path
// segment. Anything outside [A-Za-z0-9._-] is dropped.
func EscapeIRISegment(s string) string {
	var sb strings.Builder
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			sb.WriteRune(c)
		case c == '-' || c == '_' || c == '.':
			sb.WriteRune(c)
		}
	}
	return sb.String()
}
