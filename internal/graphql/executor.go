package graphql

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/validator"
	"go.uber.org/zap"
)

//go:embed schema.graphql
var schemaSDL string

// Schema is the parsed service schema.
var Schema = gqlparser.MustLoadSchema(&ast.Source{Name: "schema.graphql", Input: schemaSDL})

// Request is a GraphQL request body.
type Request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName,omitempty"`
	Variables     map[string]interface{} `json:"variables,omitempty"`
}

// Response is a GraphQL response body.
type Response struct {
	Data   map[string]interface{} `json:"data,omitempty"`
	Errors gqlerror.List          `json:"errors,omitempty"`

	rejected bool
}

// Rejected reports whether the request failed parsing or validation and
// never reached a resolver.
func (r *Response) Rejected() bool {
	return r.rejected
}

func reject(errs gqlerror.List) *Response {
	return &Response{Errors: errs, rejected: true}
}

// Executor runs validated operations against the resolver.
type Executor struct {
	schema   *ast.Schema
	resolver *Resolver
}

// NewExecutor creates an executor over the service schema.
func NewExecutor(r *Resolver) *Executor {
	return &Executor{schema: Schema, resolver: r}
}

// Execute parses, validates and runs one operation. Root fields run in
// document order, so mutations are applied serially.
func (e *Executor) Execute(ctx context.Context, req Request) *Response {
	doc, errs := gqlparser.LoadQuery(e.schema, req.Query)
	if len(errs) > 0 {
		return reject(errs)
	}

	op := doc.Operations.ForName(req.OperationName)
	if op == nil {
		return reject(gqlerror.List{gqlerror.Errorf("operation %q not found", req.OperationName)})
	}

	vars, verr := validator.VariableValues(e.schema, op, req.Variables)
	if verr != nil {
		return reject(gqlerror.List{asGQLError(verr)})
	}

	resp := &Response{Data: make(map[string]interface{})}
	nullData := false
	for _, field := range collectFields(op.SelectionSet, vars) {
		if field.Name == "__typename" {
			resp.Data[field.Alias] = field.ObjectDefinition.Name
			continue
		}

		value, err := e.resolveRoot(ctx, op.Operation, field, vars)
		if err == nil {
			value, err = project(value, field.SelectionSet, vars)
		}
		if err != nil {
			gerr := toGraphQLError(err)
			gerr.Path = ast.Path{ast.PathName(field.Alias)}
			if field.Position != nil {
				gerr.Locations = []gqlerror.Location{{Line: field.Position.Line, Column: field.Position.Column}}
			}
			resp.Errors = append(resp.Errors, gerr)
			resp.Data[field.Alias] = nil
			if field.Definition != nil && field.Definition.Type.NonNull {
				nullData = true
			}
			if e.resolver.Logger != nil {
				e.resolver.Logger.Ctx(ctx).Debug("GraphQL field failed",
					zap.String("field", field.Name),
					zap.Error(err),
				)
			}
			continue
		}
		resp.Data[field.Alias] = value
	}
	if nullData {
		resp.Data = nil
	}
	return resp
}

func (e *Executor) resolveRoot(ctx context.Context, op ast.Operation, field *ast.Field, vars map[string]interface{}) (interface{}, error) {
	args := field.ArgumentMap(vars)

	if op == ast.Mutation {
		m := e.resolver.Mutation()
		switch field.Name {
		case "search":
			return m.Search(ctx, stringArg(args, "origin"), stringArg(args, "destination"))
		case "compareRate":
			return m.CompareRate(ctx, stringArg(args, "rate"))
		case "signUp":
			return m.SignUp(ctx, signUpInputFromArgs(args))
		case "logIn":
			return m.LogIn(ctx, stringArg(args, "email"), stringArg(args, "password"))
		}
		return nil, fmt.Errorf("no resolver for mutation field %q", field.Name)
	}

	q := e.resolver.Query()
	switch field.Name {
	case "health":
		return q.Health(ctx)
	case "boards":
		return q.Boards(ctx)
	case "quota":
		return q.Quota(ctx)
	case "searchState":
		return q.SearchState(ctx)
	case "marketAverage":
		return q.MarketAverage(ctx)
	case "estimate":
		return q.Estimate(ctx, stringArg(args, "origin"), stringArg(args, "destination"))
	case "plans":
		return q.Plans(ctx)
	case "account":
		return q.Account(ctx, stringArg(args, "email"))
	}
	return nil, fmt.Errorf("no resolver for query field %q", field.Name)
}

// project renders a resolver result as generic JSON values and keeps only
// the selected fields.
func project(v interface{}, sel ast.SelectionSet, vars map[string]interface{}) (interface{}, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var generic interface{}
	if err := dec.Decode(&generic); err != nil {
		return nil, fmt.Errorf("decoding result: %w", err)
	}
	return selectFields(generic, sel, vars), nil
}

func selectFields(v interface{}, sel ast.SelectionSet, vars map[string]interface{}) interface{} {
	if len(sel) == 0 {
		return v
	}
	switch x := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(sel))
		for _, f := range collectFields(sel, vars) {
			if f.Name == "__typename" {
				out[f.Alias] = f.ObjectDefinition.Name
				continue
			}
			out[f.Alias] = selectFields(x[f.Name], f.SelectionSet, vars)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(x))
		for i := range x {
			out[i] = selectFields(x[i], sel, vars)
		}
		return out
	}
	return v
}

// collectFields flattens fragments and applies @skip and @include.
func collectFields(sel ast.SelectionSet, vars map[string]interface{}) []*ast.Field {
	var fields []*ast.Field
	for _, s := range sel {
		switch s := s.(type) {
		case *ast.Field:
			if included(s.Directives, vars) {
				fields = append(fields, s)
			}
		case *ast.InlineFragment:
			if included(s.Directives, vars) {
				fields = append(fields, collectFields(s.SelectionSet, vars)...)
			}
		case *ast.FragmentSpread:
			if included(s.Directives, vars) && s.Definition != nil {
				fields = append(fields, collectFields(s.Definition.SelectionSet, vars)...)
			}
		}
	}
	return fields
}

func included(dirs ast.DirectiveList, vars map[string]interface{}) bool {
	if d := dirs.ForName("skip"); d != nil {
		if skip, _ := d.ArgumentMap(vars)["if"].(bool); skip {
			return false
		}
	}
	if d := dirs.ForName("include"); d != nil {
		if include, _ := d.ArgumentMap(vars)["if"].(bool); !include {
			return false
		}
	}
	return true
}

func stringArg(args map[string]interface{}, name string) string {
	s, _ := args[name].(string)
	return s
}

func signUpInputFromArgs(args map[string]interface{}) SignUpInput {
	in, _ := args["input"].(map[string]interface{})
	input := SignUpInput{
		Email:    stringArg(in, "email"),
		Password: stringArg(in, "password"),
	}
	if plan, ok := in["plan"].(string); ok {
		input.Plan = &plan
	}
	return input
}

func asGQLError(err error) *gqlerror.Error {
	var gerr *gqlerror.Error
	if errors.As(err, &gerr) {
		return gerr
	}
	return gqlerror.Errorf("%s", err.Error())
}
