// Package repo implements the Entity Store Gateway: the persistence layer for
// profiles, comments, likes, sequence counters and idempotency records, with
// a MongoDB backend (MongoStore) and an embedded SQLite backend (SQLStore).
//
// This file holds the collection schemas shared by both backends and the
// schema validation adapter that turns store-reported violations into a single
// human-readable description.
package repo

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collection names.
const (
	CollProfiles    = "profiles"
	CollComments    = "comments"
	CollLikes       = "likes"
	CollCounters    = "counters"
	CollIdempotency = "idempotency"
)

// Rule operators reported by MongoDB's $jsonSchema validator.
const (
	opRequired   = "required"
	opProperties = "properties"
)

// SchemaRule is one unsatisfied validator rule. A rule names either missing
// required fields or fields whose value fails a property constraint.
type SchemaRule struct {
	Operator    string
	Missing     []string
	Unsatisfied []string
}

// SchemaError reports that a document was rejected by its collection schema.
type SchemaError struct {
	Collection string
	Rules      []SchemaRule
}

func (e *SchemaError) Error() string { return e.Description() }

// Description joins every offending field with the nature of the violation,
// e.g. "name is required" or "comment_id,user_id are invalid".
func (e *SchemaError) Description() string { return DescribeSchemaRules(e.Rules) }

// DescribeSchemaRules renders rules as a single sentence fragment. Multiple
// rules are separated by "; ". It never fails; an empty rule set yields a
// generic description.
func DescribeSchemaRules(rules []SchemaRule) string {
	parts := make([]string, 0, len(rules))
	for _, r := range rules {
		if len(r.Missing) > 0 {
			op := r.Operator
			if op == "" || op == opProperties {
				op = opRequired
			}
			parts = append(parts, fmt.Sprintf("%s %s %s", strings.Join(r.Missing, ","), isAre(len(r.Missing)), op))
		}
		if len(r.Unsatisfied) > 0 {
			parts = append(parts, fmt.Sprintf("%s %s invalid", strings.Join(r.Unsatisfied, ","), isAre(len(r.Unsatisfied))))
		}
	}
	if len(parts) == 0 {
		return "document failed validation"
	}
	return strings.Join(parts, "; ")
}

func isAre(n int) string {
	if n > 1 {
		return "are"
	}
	return "is"
}

// fieldSchema constrains a single top-level field.
type fieldSchema struct {
	Name        string
	BSONTypes   []string
	Required    bool
	Description string
}

// collectionSchema is the subset of $jsonSchema used by this service.
type collectionSchema struct {
	Collection string
	Fields     []fieldSchema
}

// schemas are the validators installed on first provisioning.
var schemas = []collectionSchema{
	{
		Collection: CollProfiles,
		Fields: []fieldSchema{
			{Name: "name", BSONTypes: []string{"string"}, Required: true, Description: "Profile name - Required."},
		},
	},
	{
		Collection: CollComments,
		Fields: []fieldSchema{
			{Name: "user_id", BSONTypes: []string{"int", "long"}, Required: true, Description: "User id - Required."},
		},
	},
	{
		Collection: CollLikes,
		Fields: []fieldSchema{
			{Name: "comment_id", BSONTypes: []string{"int", "long"}, Required: true, Description: "Comment id - Required."},
			{Name: "user_id", BSONTypes: []string{"int", "long"}, Description: "User id."},
		},
	},
}

func schemaFor(collection string) (collectionSchema, bool) {
	for _, s := range schemas {
		if s.Collection == collection {
			return s, true
		}
	}
	return collectionSchema{}, false
}

// jsonSchema renders the validator document passed to createCollection.
func (s collectionSchema) jsonSchema() bson.M {
	required := make([]string, 0, len(s.Fields))
	props := bson.M{}
	for _, f := range s.Fields {
		if f.Required {
			required = append(required, f.Name)
		}
		props[f.Name] = bson.M{"bsonType": f.BSONTypes, "description": f.Description}
	}
	return bson.M{
		"bsonType":   "object",
		"required":   required,
		"properties": props,
	}
}

// validate checks doc against the schema the way MongoDB would: the document
// is first encoded to BSON (so omitempty fields count as absent) and then the
// required and bsonType rules are evaluated. It returns nil when doc passes.
func (s collectionSchema) validate(doc any) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return err
	}

	var missing, bad []string
	for _, f := range s.Fields {
		v, ok := m[f.Name]
		if !ok {
			if f.Required {
				missing = append(missing, f.Name)
			}
			continue
		}
		if !typeAllowed(v, f.BSONTypes) {
			bad = append(bad, f.Name)
		}
	}

	var rules []SchemaRule
	if len(missing) > 0 {
		rules = append(rules, SchemaRule{Operator: opRequired, Missing: missing})
	}
	if len(bad) > 0 {
		rules = append(rules, SchemaRule{Operator: opProperties, Unsatisfied: bad})
	}
	if len(rules) == 0 {
		return nil
	}
	return &SchemaError{Collection: s.Collection, Rules: rules}
}

func typeAllowed(v any, allowed []string) bool {
	t := bsonTypeAlias(v)
	for _, a := range allowed {
		if a == t {
			return true
		}
	}
	return false
}

func bsonTypeAlias(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case int32:
		return "int"
	case int64:
		return "long"
	case float64:
		return "double"
	case bool:
		return "bool"
	case primitive.DateTime:
		return "date"
	case nil:
		return "null"
	case bson.A:
		return "array"
	default:
		return "object"
	}
}

// schemaErrInfo mirrors errInfo attached to a DocumentValidationFailure
// (code 121) write error.
type schemaErrInfo struct {
	Details struct {
		Rules []struct {
			OperatorName           string   `bson:"operatorName"`
			MissingProperties      []string `bson:"missingProperties"`
			PropertiesNotSatisfied []struct {
				PropertyName string `bson:"propertyName"`
			} `bson:"propertiesNotSatisfied"`
		} `bson:"schemaRulesNotSatisfied"`
	} `bson:"details"`
}

// decodeSchemaRules extracts the unsatisfied rules from a raw errInfo
// document. Unknown or malformed details yield no rules.
func decodeSchemaRules(errInfo bson.Raw) []SchemaRule {
	if len(errInfo) == 0 {
		return nil
	}
	var info schemaErrInfo
	if err := bson.Unmarshal(errInfo, &info); err != nil {
		return nil
	}
	out := make([]SchemaRule, 0, len(info.Details.Rules))
	for _, r := range info.Details.Rules {
		rule := SchemaRule{Operator: r.OperatorName, Missing: r.MissingProperties}
		for _, p := range r.PropertiesNotSatisfied {
			rule.Unsatisfied = append(rule.Unsatisfied, p.PropertyName)
		}
		if len(rule.Missing) == 0 && len(rule.Unsatisfied) == 0 {
			continue
		}
		out = append(out, rule)
	}
	return out
}
