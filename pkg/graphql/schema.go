package graphql

import (
	"fmt"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

// SDL is the schema served at /graphql. Query fields return the raw
// SPARQL bindings serialized as a JSON string.
const SDL = `
input UserInput {
    name: String!
}
input UserDeleteInput {
    userid: Int!
}
input TweetInput {
    userid: Int!
    text: String!
}
input TweetDeleteInput {
    userid: Int!
    tweetid: Int!
}
type Query {
    users: String
    user(id: Int!): String
    tweets: String
    tweet(userid: Int!, tweetid: Int!): String
}
type Mutation {
    createUser(input: UserInput!): String
    deleteUser(input: UserDeleteInput!): String
    createTweet(input: TweetInput!): String
    deleteTweet(input: TweetDeleteInput!): String
}
`

// Schema wraps the parsed SDL.
type Schema struct {
	ast    *ast.Schema
	source string
}

// ParseSchema parses a GraphQL SDL string and returns a Schema.
func ParseSchema(sdl string) (*Schema, error) {
	source := &ast.Source{
		Name:  "schema",
		Input: sdl,
	}

	schema, err := gqlparser.LoadSchema(source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse GraphQL schema: %w", err)
	}

	return &Schema{ast: schema, source: sdl}, nil
}

// MustSchema parses the built-in SDL. The SDL is a compile-time
// constant, so a parse failure is a programming error.
func MustSchema() *Schema {
	s, err := ParseSchema(SDL)
	if err != nil {
		panic(err)
	}
	return s
}

// AST returns the underlying gqlparser AST schema.
func (s *Schema) AST() *ast.Schema {
	return s.ast
}

// Source returns the original SDL source string.
func (s *Schema) Source() string {
	return s.source
}
