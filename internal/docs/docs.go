// Package docs registers the OpenAPI document served under /swagger.
//
// Regenerate with:
//
//	swag init -g internal/http/router.go -o internal/docs --parseInternal
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/profiles": {
            "post": {
                "description": "Allocates the next profile id and stores the profile. The id is returned to the sequence when the store rejects the document.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Profiles"],
                "summary": "Create a profile",
                "operationId": "createProfile",
                "parameters": [
                    {"type": "string", "example": "create-profile-1", "description": "Replay-safe retry key", "name": "Idempotency-Key", "in": "header"},
                    {"description": "Profile payload", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.CreateProfileRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handlers.MessageResponse"}},
                    "400": {"description": "Invalid payload or schema violation", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/profiles/{id}": {
            "get": {
                "description": "Returns the profile with the given id. Profiles stored without an image get the configured default image.",
                "produces": ["application/json"],
                "tags": ["Profiles"],
                "summary": "Get a profile",
                "operationId": "getProfile",
                "parameters": [
                    {"minimum": 1, "type": "integer", "example": 1, "description": "Profile ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Profile"}},
                    "400": {"description": "Bad id", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Profile not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/profiles/{id}/comment": {
            "post": {
                "description": "Stores a comment left by user_id on the profile. Both ids must name existing, distinct profiles.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Comments"],
                "summary": "Comment on a profile",
                "operationId": "createComment",
                "parameters": [
                    {"type": "string", "example": "comment-1", "description": "Replay-safe retry key", "name": "Idempotency-Key", "in": "header"},
                    {"minimum": 1, "type": "integer", "example": 1, "description": "Profile ID", "name": "id", "in": "path", "required": true},
                    {"description": "Comment payload", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.CreateCommentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handlers.MessageResponse"}},
                    "400": {"description": "Invalid payload or empty comment", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Profile or user not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/profiles/{id}/comments": {
            "get": {
                "description": "Returns the comments on a profile. filter keeps comments that carry a vote of that kind; sortby orders them by recency or likes. An empty result is reported as 404 with an empty list.",
                "produces": ["application/json"],
                "tags": ["Comments"],
                "summary": "List comments on a profile",
                "operationId": "listComments",
                "parameters": [
                    {"minimum": 1, "type": "integer", "example": 1, "description": "Profile ID", "name": "id", "in": "path", "required": true},
                    {"enum": ["all", "mbti", "enneagram", "zodiac"], "type": "string", "description": "Vote filter", "name": "filter", "in": "query"},
                    {"enum": ["recent", "best"], "type": "string", "description": "Sort order", "name": "sortby", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.CommentsResponse"}},
                    "400": {"description": "Invalid filter", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "No comments", "schema": {"$ref": "#/definitions/handlers.CommentsResponse"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/comments/{id}/like": {
            "post": {
                "description": "Records a like by user_id and increments the comment's like counter. A user can like a comment once.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Likes"],
                "summary": "Like a comment",
                "operationId": "likeComment",
                "parameters": [
                    {"type": "string", "example": "like-1", "description": "Replay-safe retry key", "name": "Idempotency-Key", "in": "header"},
                    {"minimum": 1, "type": "integer", "example": 1, "description": "Comment ID", "name": "id", "in": "path", "required": true},
                    {"description": "Liking user", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.LikeRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handlers.MessageResponse"}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Comment or user not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "409": {"description": "Already liked", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/comments/{id}/unlike": {
            "delete": {
                "description": "Deletes the like left by user_id and decrements the comment's like counter.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Likes"],
                "summary": "Remove a like",
                "operationId": "unlikeComment",
                "parameters": [
                    {"minimum": 1, "type": "integer", "example": 1, "description": "Comment ID", "name": "id", "in": "path", "required": true},
                    {"description": "Unliking user", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.LikeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.MessageResponse"}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "No like found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.Comment": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "description": {"type": "string"},
                "enneagram": {"type": "string"},
                "id": {"type": "integer"},
                "likes": {"type": "integer"},
                "mbti": {"type": "string"},
                "profile_id": {"type": "integer"},
                "title": {"type": "string"},
                "user_id": {"type": "integer"},
                "zodiac": {"type": "string"}
            }
        },
        "domain.Profile": {
            "type": "object",
            "properties": {
                "description": {"type": "string"},
                "enneagram": {"type": "string"},
                "id": {"type": "integer"},
                "image": {"type": "string"},
                "mbti": {"type": "string"},
                "name": {"type": "string"},
                "psyche": {"type": "string"},
                "sloan": {"type": "string"},
                "socionics": {"type": "string"},
                "tritype": {"type": "integer"},
                "variant": {"type": "string"}
            }
        },
        "handlers.CommentsResponse": {
            "type": "object",
            "properties": {
                "result": {"type": "array", "items": {"$ref": "#/definitions/domain.Comment"}}
            }
        },
        "handlers.CreateCommentRequest": {
            "type": "object",
            "properties": {
                "description": {"type": "string", "example": "Every interview reads like Fi-dom."},
                "enneagram": {"type": "string", "example": "4w5"},
                "mbti": {"type": "string", "example": "INFP"},
                "title": {"type": "string", "example": "Clearly an introvert"},
                "user_id": {"description": "UserID is the commenter, itself a profile id.", "type": "integer", "example": 2},
                "zodiac": {"type": "string", "example": "Pisces"}
            }
        },
        "handlers.CreateProfileRequest": {
            "type": "object",
            "properties": {
                "description": {"type": "string", "example": "Adolph Larrue Martinez III."},
                "enneagram": {"type": "string", "example": "9w3"},
                "image": {"type": "string", "example": "https://soulverse.boo.world/images/1.png"},
                "mbti": {"type": "string", "example": "ISFJ"},
                "name": {"type": "string", "example": "A Martinez"},
                "psyche": {"type": "string", "example": "FEVL"},
                "sloan": {"type": "string", "example": "RCOEN"},
                "socionics": {"type": "string", "example": "SEE"},
                "tritype": {"type": "integer", "example": 725},
                "variant": {"type": "string", "example": "sp/so"}
            }
        },
        "handlers.ErrorBody": {
            "type": "object",
            "properties": {
                "description": {"description": "Human-readable description (safe to show to users)", "type": "string", "example": "profile not found"},
                "type": {"description": "Stable, machine-readable type (see errors.go constants)", "type": "string", "example": "not_found"}
            }
        },
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/handlers.ErrorBody"},
                "request_id": {"description": "Correlates server logs and client errors", "type": "string", "example": "123e4567-e89b-12d3-a456-426614174000"}
            }
        },
        "handlers.LikeRequest": {
            "type": "object",
            "properties": {
                "user_id": {"type": "integer", "example": 2}
            }
        },
        "handlers.MessageResponse": {
            "type": "object",
            "properties": {
                "result": {"type": "string", "example": "profile created successfully"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Profile Board API",
	Description:      "Profiles, comments on profiles, and likes on comments.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
