package repo

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/tbourn/go-profile-backend/internal/domain"
)

func TestDescribeSchemaRules(t *testing.T) {
	tests := []struct {
		name  string
		rules []SchemaRule
		want  string
	}{
		{"single missing", []SchemaRule{{Operator: "required", Missing: []string{"name"}}}, "name is required"},
		{"many missing", []SchemaRule{{Operator: "required", Missing: []string{"a", "b"}}}, "a,b are required"},
		{"unsatisfied", []SchemaRule{{Operator: "properties", Unsatisfied: []string{"user_id"}}}, "user_id is invalid"},
		{"many unsatisfied", []SchemaRule{{Operator: "properties", Unsatisfied: []string{"x", "y"}}}, "x,y are invalid"},
		{
			"combined",
			[]SchemaRule{
				{Operator: "required", Missing: []string{"name"}},
				{Operator: "properties", Unsatisfied: []string{"user_id"}},
			},
			"name is required; user_id is invalid",
		},
		{"empty", nil, "document failed validation"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := DescribeSchemaRules(tc.rules); got != tc.want {
				t.Fatalf("DescribeSchemaRules() = %q; want %q", got, tc.want)
			}
		})
	}
}

func TestDecodeSchemaRules(t *testing.T) {
	info, err := bson.Marshal(bson.D{
		{Key: "failingDocumentId", Value: 1},
		{Key: "details", Value: bson.D{
			{Key: "operatorName", Value: "$jsonSchema"},
			{Key: "schemaRulesNotSatisfied", Value: bson.A{
				bson.D{
					{Key: "operatorName", Value: "required"},
					{Key: "specifiedAs", Value: bson.D{{Key: "required", Value: bson.A{"name"}}}},
					{Key: "missingProperties", Value: bson.A{"name"}},
				},
				bson.D{
					{Key: "operatorName", Value: "properties"},
					{Key: "propertiesNotSatisfied", Value: bson.A{
						bson.D{{Key: "propertyName", Value: "user_id"}},
						bson.D{{Key: "propertyName", Value: "comment_id"}},
					}},
				},
			}},
		}},
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	rules := decodeSchemaRules(info)
	if len(rules) != 2 {
		t.Fatalf("expected 2 rules, got %+v", rules)
	}
	if got := DescribeSchemaRules(rules); got != "name is required; user_id,comment_id are invalid" {
		t.Fatalf("description = %q", got)
	}

	if rules := decodeSchemaRules(nil); rules != nil {
		t.Fatalf("expected nil rules for empty errInfo, got %+v", rules)
	}
}

func TestSchemaValidate(t *testing.T) {
	comments, _ := schemaFor(CollComments)
	if err := comments.validate(&domain.Comment{ID: 1, UserID: 2}); err != nil {
		t.Fatalf("valid comment rejected: %v", err)
	}

	profiles, _ := schemaFor(CollProfiles)
	err := profiles.validate(&domain.Profile{ID: 1})
	var se *SchemaError
	if !errors.As(err, &se) || se.Collection != CollProfiles {
		t.Fatalf("expected profiles SchemaError, got %v", err)
	}

	// Wrong bsonType is reported as an unsatisfied property.
	err = profiles.validate(bson.M{"name": 42})
	if !errors.As(err, &se) || se.Description() != "name is invalid" {
		t.Fatalf("expected type violation, got %v", err)
	}

	if _, ok := schemaFor(CollCounters); ok {
		t.Fatalf("counters should have no validator")
	}
}

func TestJSONSchema_RequiredFields(t *testing.T) {
	likes, ok := schemaFor(CollLikes)
	if !ok {
		t.Fatalf("likes schema missing")
	}
	doc := likes.jsonSchema()
	req, _ := doc["required"].([]string)
	if len(req) != 1 || req[0] != "comment_id" {
		t.Fatalf("required = %v; want [comment_id]", req)
	}
	props, _ := doc["properties"].(bson.M)
	if _, ok := props["user_id"]; !ok {
		t.Fatalf("expected user_id property constraint")
	}
}
