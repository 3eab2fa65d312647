// Package docs holds the swagger document served under /api/docs
// swag init -g cmd/xfriends-api/main.go regenerates it from the handler annotations
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/meta/health": {"get": {"tags": ["meta"], "summary": "Health check", "responses": {"200": {"description": "alive"}}}},
        "/meta/ready": {"get": {"tags": ["meta"], "summary": "Readiness probe with dependency checks", "responses": {"200": {"description": "all dependencies ok"}, "503": {"description": "a dependency failed"}}}},
        "/meta/version": {"get": {"tags": ["meta"], "summary": "Build and version info", "responses": {"200": {"description": "build"}}}},
        "/payment/check": {"get": {
            "tags": ["payment"], "summary": "Whether the next query for an address must be paid",
            "parameters": [{"type": "string", "name": "address", "in": "query", "required": true}],
            "responses": {"200": {"description": "ok"}}
        }},
        "/social/match": {"post": {
            "tags": ["social"], "summary": "Resolve x handles to Farcaster profiles",
            "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/MatchInput"}}],
            "responses": {"200": {"description": "ranked matches"}}
        }},
        "/social/following": {"post": {
            "tags": ["social"], "summary": "The x following list, behind the payment gate",
            "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/FollowingInput"}}],
            "responses": {"200": {"description": "following usernames"}}
        }},
        "/social/sync": {
            "get": {"tags": ["social"], "security": [{"BearerAuth": []}], "summary": "The caller's saved follow graph, never fetched", "responses": {"200": {"description": "snapshot or empty"}}},
            "post": {"tags": ["social"], "security": [{"BearerAuth": []}], "summary": "Build or return the caller's saved follow graph", "responses": {"200": {"description": "snapshot"}}}
        },
        "/directory/user": {"get": {
            "tags": ["directory"], "summary": "A Farcaster profile by fid",
            "parameters": [
                {"type": "integer", "name": "id", "in": "query"},
                {"type": "integer", "name": "fid", "in": "query"}
            ],
            "responses": {"200": {"description": "profile or null"}}
        }},
        "/directory/follow": {"post": {
            "tags": ["directory"], "summary": "Follow a Farcaster user with a managed signer",
            "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/FollowInput"}}],
            "responses": {"200": {"description": "followed"}}
        }},
        "/webhook": {"post": {
            "tags": ["webhook"], "summary": "Mini app lifecycle events from a Farcaster host",
            "responses": {"200": {"description": "acknowledged"}}
        }}
    },
    "definitions": {
        "MatchInput": {
            "type": "object", "required": ["twitterHandles"],
            "properties": {
                "twitterHandles": {"type": "array", "items": {"type": "string"}},
                "address": {"type": "string"}
            }
        },
        "FollowingInput": {
            "type": "object", "required": ["address", "twitterUsername"],
            "properties": {"address": {"type": "string"}, "twitterUsername": {"type": "string"}}
        },
        "FollowInput": {
            "type": "object", "required": ["signerKey", "targetId"],
            "properties": {"signerKey": {"type": "string"}, "targetId": {"type": "integer"}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Find X Friends API",
	Description:      "Match x follow graphs to Farcaster profiles.",
	InfoInstanceName: "api",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
