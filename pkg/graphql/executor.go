package graphql

import (
	"context"
	"fmt"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/validator"
)

// Executor executes GraphQL operations against the resolver.
type Executor struct {
	schema   *Schema
	resolver *Resolver
}

// NewExecutor creates a new GraphQL executor.
func NewExecutor(schema *Schema, resolver *Resolver) *Executor {
	return &Executor{schema: schema, resolver: resolver}
}

// Execute executes a GraphQL request and returns a response.
func (e *Executor) Execute(ctx context.Context, req *GraphQLRequest) *GraphQLResponse {
	if req == nil || req.Query == "" {
		return &GraphQLResponse{
			Errors: []GraphQLError{{Message: "query is required"}},
		}
	}

	doc, err := e.parseQuery(req.Query)
	if err != nil {
		return &GraphQLResponse{
			Errors: []GraphQLError{{Message: err.Error()}},
		}
	}

	var op *ast.OperationDefinition
	for _, opDef := range doc.Operations {
		if req.OperationName == "" || opDef.Name == req.OperationName {
			op = opDef
			break
		}
	}
	if op == nil {
		if req.OperationName != "" {
			return &GraphQLResponse{
				Errors: []GraphQLError{{Message: fmt.Sprintf("operation %q not found", req.OperationName)}},
			}
		}
		return &GraphQLResponse{
			Errors: []GraphQLError{{Message: "no operation found in query"}},
		}
	}

	data, errs := e.executeOperation(ctx, op, req.Variables)

	resp := &GraphQLResponse{Data: data}
	if len(errs) > 0 {
		resp.Errors = errs
	}
	return resp
}

// parseQuery parses and validates a GraphQL query against the schema.
func (e *Executor) parseQuery(query string) (*ast.QueryDocument, error) {
	doc, parseErr := gqlparser.LoadQuery(e.schema.AST(), query)
	if parseErr != nil {
		if len(parseErr) > 0 {
			return nil, fmt.Errorf("parse error: %s", parseErr[0].Message)
		}
		return nil, fmt.Errorf("parse error")
	}

	validationErrs := validator.Validate(e.schema.AST(), doc)
	if len(validationErrs) > 0 {
		return nil, fmt.Errorf("validation error: %s", validationErrs[0].Message)
	}

	return doc, nil
}

// executeOperation resolves every top-level field of the operation.
func (e *Executor) executeOperation(ctx context.Context, op *ast.OperationDefinition, variables map[string]any) (map[string]any, []GraphQLError) {
	switch op.Operation {
	case ast.Query, ast.Mutation:
	default:
		return nil, []GraphQLError{{Message: "unsupported operation type"}}
	}

	result := make(map[string]any)
	var errs []GraphQLError

	for _, sel := range op.SelectionSet {
		field, ok := sel.(*ast.Field)
		if !ok {
			continue
		}

		alias := field.Alias
		if alias == "" {
			alias = field.Name
		}

		args := extractArguments(field, variables)
		value, err := e.resolveField(ctx, op.Operation, field.Name, args)
		if err != nil {
			errs = append(errs, GraphQLError{Message: err.Error(), Path: []any{alias}})
			result[alias] = nil
			continue
		}
		result[alias] = value
	}

	return result, errs
}

// resolveField dispatches a top-level field to the resolver.
func (e *Executor) resolveField(ctx context.Context, opType ast.Operation, name string, args map[string]any) (any, error) {
	switch opType {
	case ast.Query:
		switch name {
		case "users":
			return e.resolver.Users(ctx)
		case "user":
			return e.resolver.User(ctx, intArg(args, "id"))
		case "tweets":
			return e.resolver.Tweets(ctx)
		case "tweet":
			return e.resolver.Tweet(ctx, intArg(args, "userid"), intArg(args, "tweetid"))
		}
	case ast.Mutation:
		input, _ := args["input"].(map[string]any)
		switch name {
		case "createUser":
			return e.resolver.CreateUser(ctx, stringArg(input, "name"))
		case "deleteUser":
			return e.resolver.DeleteUser(ctx, intArg(input, "userid"))
		case "createTweet":
			return e.resolver.CreateTweet(ctx, intArg(input, "userid"), stringArg(input, "text"))
		case "deleteTweet":
			return e.resolver.DeleteTweet(ctx, intArg(input, "userid"), intArg(input, "tweetid"))
		}
	}
	return nil, fmt.Errorf("no resolver for field %q", name)
}

// extractArguments extracts argument values from a field.
func extractArguments(field *ast.Field, variables map[string]any) map[string]any {
	args := make(map[string]any)
	for _, arg := range field.Arguments {
		args[arg.Name] = resolveValue(arg.Value, variables)
	}
	return args
}

// resolveValue resolves an AST value to a Go value.
func resolveValue(value *ast.Value, variables map[string]any) any {
	if value == nil {
		return nil
	}

	switch value.Kind {
	case ast.Variable:
		if variables != nil {
			return variables[value.Raw]
		}
		return nil
	case ast.IntValue:
		var n int64
		_, _ = fmt.Sscanf(value.Raw, "%d", &n)
		return n
	case ast.FloatValue:
		var f float64
		_, _ = fmt.Sscanf(value.Raw, "%f", &f)
		return f
	case ast.StringValue, ast.BlockValue:
		return value.Raw
	case ast.BooleanValue:
		return value.Raw == "true"
	case ast.NullValue:
		return nil
	case ast.EnumValue:
		return value.Raw
	case ast.ListValue:
		var list []any
		for _, child := range value.Children {
			list = append(list, resolveValue(child.Value, variables))
		}
		return list
	case ast.ObjectValue:
		obj := make(map[string]any)
		for _, child := range value.Children {
			obj[child.Name] = resolveValue(child.Value, variables)
		}
		return obj
	default:
		return value.Raw
	}
}

// intArg coerces an argument to int. Variables arrive as JSON numbers
// (float64), inline values as int64.
func intArg(args map[string]any, name string) int {
	switch v := args[name].(type) {
	case int64:
		return int(v)
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

func stringArg(args map[string]any, name string) string {
	s, _ := args[name].(string)
	return s
}
